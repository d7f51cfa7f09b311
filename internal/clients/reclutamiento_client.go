package clients

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/beego/beego/v2/core/logs"

	"github.com/udistrital/reclutamiento_mid/helpers"
	internaldto "github.com/udistrital/reclutamiento_mid/internal/dto"
	internalhelpers "github.com/udistrital/reclutamiento_mid/internal/helpers"
	"github.com/udistrital/reclutamiento_mid/models"
	rootservices "github.com/udistrital/reclutamiento_mid/services"
)

// ReclutamientoAPI agrupa las operaciones del backend de reclutamiento que consume el MID.
type ReclutamientoAPI interface {
	ListarVacantesAbiertas(ctx context.Context) ([]models.Vacante, error)
	ListarRoster(ctx context.Context, vacanteID int64) ([]models.EntradaRoster, error)
	ListarPostulantes(ctx context.Context) ([]models.Postulante, error)
	CambiarEtapa(ctx context.Context, proceso models.ProcesoSeleccion, etapa models.Etapa, meta Metadatos) (*models.ProcesoSeleccion, error)
	RegistrarCalificacion(ctx context.Context, proceso models.ProcesoSeleccion, calificacion float64, notas string) error
	RegistrarRechazo(ctx context.Context, proceso models.ProcesoSeleccion, motivo string, meta Metadatos) error
	SolicitarEntrevista(ctx context.Context, proceso models.ProcesoSeleccion, detalle internaldto.DetalleEntrevista) (*models.Entrevista, error)
	SolicitarOferta(ctx context.Context, proceso models.ProcesoSeleccion, detalle internaldto.DetalleOferta) (*models.Oferta, error)
}

// Metadatos acompaña las mutaciones con la auditoría del revisor.
type Metadatos struct {
	ReclutadorID int64
	Notas        string
}

// ReclutamientoClient habla con el servicio de reclutamiento vía HTTP/JSON.
type ReclutamientoClient struct {
	cfg rootservices.Config
}

var (
	reclutamientoClient     *ReclutamientoClient
	reclutamientoClientOnce sync.Once
)

// Reclutamiento devuelve el cliente singleton configurado con GetConfig.
func Reclutamiento() *ReclutamientoClient {
	reclutamientoClientOnce.Do(func() {
		reclutamientoClient = NewReclutamientoClient(rootservices.GetConfig())
	})
	return reclutamientoClient
}

// NewReclutamientoClient construye un cliente con configuración explícita.
func NewReclutamientoClient(cfg rootservices.Config) *ReclutamientoClient {
	return &ReclutamientoClient{cfg: cfg}
}

func (c *ReclutamientoClient) headers(ctx context.Context) map[string]string {
	return rootservices.AddBearerAuth(internalhelpers.HeadersDesde(ctx), c.cfg.BearerToken)
}

func (c *ReclutamientoClient) do(ctx context.Context, method, endpoint string, in, out any) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	return helpers.DoJSONWithHeaders(ctx, method, endpoint, c.headers(ctx), in, out, c.cfg.RequestTimeout)
}

// ListarVacantesAbiertas trae las vacantes y filtra las que admiten consulta de roster.
func (c *ReclutamientoClient) ListarVacantesAbiertas(ctx context.Context) ([]models.Vacante, error) {
	var raw []map[string]any
	if err := c.do(ctx, http.MethodGet, rootservices.BuildURL(c.cfg.ReclutamientoBaseURL, "vacantes"), nil, &raw); err != nil {
		return nil, err
	}
	out := make([]models.Vacante, 0, len(raw))
	for _, item := range raw {
		v, err := mapVacante(item)
		if err != nil {
			logs.Warn("vacante ignorada:", err)
			continue
		}
		if v.Id == 0 || !v.Abierta() {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// ListarRoster trae los procesos de selección de una vacante.
func (c *ReclutamientoClient) ListarRoster(ctx context.Context, vacanteID int64) ([]models.EntradaRoster, error) {
	endpoint := rootservices.BuildURL(c.cfg.ReclutamientoBaseURL, "reclutamiento", "vacante", strconv.FormatInt(vacanteID, 10), "candidatos")
	var raw []map[string]any
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]models.EntradaRoster, 0, len(raw))
	for _, item := range raw {
		p, err := mapProceso(item)
		if err != nil {
			logs.Warn("fila de roster ignorada:", "vacante", vacanteID, "err", err)
			continue
		}
		if p.Id == 0 {
			continue
		}
		if p.VacanteId == 0 {
			p.VacanteId = vacanteID
		}
		out = append(out, p)
	}
	return out, nil
}

// ListarPostulantes trae todos los postulantes registrados, con o sin proceso.
func (c *ReclutamientoClient) ListarPostulantes(ctx context.Context) ([]models.Postulante, error) {
	var raw []map[string]any
	if err := c.do(ctx, http.MethodGet, rootservices.BuildURL(c.cfg.ReclutamientoBaseURL, "candidatos"), nil, &raw); err != nil {
		return nil, err
	}
	out := make([]models.Postulante, 0, len(raw))
	for _, item := range raw {
		p, err := mapPostulante(item)
		if err != nil {
			logs.Warn("postulante ignorado:", err)
			continue
		}
		if p.Id == 0 {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// CambiarEtapa persiste la nueva etapa y devuelve el proceso actualizado.
func (c *ReclutamientoClient) CambiarEtapa(ctx context.Context, proceso models.ProcesoSeleccion, etapa models.Etapa, meta Metadatos) (*models.ProcesoSeleccion, error) {
	endpoint := rootservices.BuildURL(c.cfg.ReclutamientoBaseURL, "reclutamiento", strconv.FormatInt(proceso.Id, 10), "etapa")
	body := map[string]any{"etapa": string(etapa)}
	if meta.ReclutadorID > 0 {
		body["idReclutador"] = meta.ReclutadorID
	}
	if notas := strings.TrimSpace(meta.Notas); notas != "" {
		body["observaciones"] = notas
	}

	var raw map[string]any
	if err := c.do(ctx, http.MethodPatch, endpoint, body, &raw); err != nil {
		return nil, err
	}
	actualizado := proceso
	actualizado.Etapa = etapa
	if len(raw) == 0 {
		return &actualizado, nil
	}
	mapped, err := mapProceso(raw)
	if err != nil || mapped.Id == 0 {
		return &actualizado, nil
	}
	if mapped.VacanteId == 0 {
		mapped.VacanteId = proceso.VacanteId
	}
	if mapped.Postulante == nil {
		mapped.Postulante = proceso.Postulante
	}
	return &mapped, nil
}

// RegistrarCalificacion guarda la evaluación sin mover de etapa.
func (c *ReclutamientoClient) RegistrarCalificacion(ctx context.Context, proceso models.ProcesoSeleccion, calificacion float64, notas string) error {
	body := map[string]any{
		"idCandidato":  proceso.PostulanteId,
		"idProceso":    proceso.ProcesoActualId,
		"calificacion": calificacion,
	}
	if n := strings.TrimSpace(notas); n != "" {
		body["observaciones"] = n
	}
	return c.do(ctx, http.MethodPost, rootservices.BuildURL(c.cfg.ReclutamientoBaseURL, "reclutamiento", "evaluar"), body, nil)
}

// RegistrarRechazo marca el proceso como DESCARTADO con su motivo.
func (c *ReclutamientoClient) RegistrarRechazo(ctx context.Context, proceso models.ProcesoSeleccion, motivo string, meta Metadatos) error {
	endpoint := rootservices.BuildURL(c.cfg.ReclutamientoBaseURL, "reclutamiento", strconv.FormatInt(proceso.Id, 10), "rechazar")
	body := map[string]any{
		"motivo": strings.TrimSpace(motivo),
		"estado": string(models.EstadoDescartado),
	}
	if meta.ReclutadorID > 0 {
		body["idReclutador"] = meta.ReclutadorID
	}
	return c.do(ctx, http.MethodPatch, endpoint, body, nil)
}

// SolicitarEntrevista delega la agenda al servicio de entrevistas.
func (c *ReclutamientoClient) SolicitarEntrevista(ctx context.Context, proceso models.ProcesoSeleccion, detalle internaldto.DetalleEntrevista) (*models.Entrevista, error) {
	body := map[string]any{
		"idCandidato":   proceso.PostulanteId,
		"idProceso":     proceso.ProcesoActualId,
		"fecha":         detalle.Fecha,
		"hora":          detalle.Hora,
		"lugar":         detalle.Lugar,
		"entrevistador": detalle.Entrevistador,
		"observaciones": detalle.Observaciones,
	}
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, rootservices.BuildURL(c.cfg.ReclutamientoBaseURL, "entrevistas"), body, &raw); err != nil {
		return nil, err
	}
	entrevista := models.Entrevista{ProcesoId: proceso.ProcesoActualId, Fecha: detalle.Fecha, Hora: detalle.Hora, Lugar: detalle.Lugar, Entrevistador: detalle.Entrevistador}
	if len(raw) > 0 {
		if mapped, err := mapEntrevista(raw); err == nil {
			entrevista = mapped
		}
	}
	return &entrevista, nil
}

// SolicitarOferta delega la emisión al servicio de ofertas laborales.
func (c *ReclutamientoClient) SolicitarOferta(ctx context.Context, proceso models.ProcesoSeleccion, detalle internaldto.DetalleOferta) (*models.Oferta, error) {
	body := map[string]any{
		"idVacante":       proceso.VacanteId,
		"idCandidato":     proceso.PostulanteId,
		"salarioOfrecido": detalle.SalarioOfrecido,
		"condiciones":     detalle.Condiciones,
		"fechaInicio":     detalle.FechaInicio,
		"beneficios":      detalle.Beneficios,
		"horario":         detalle.Horario,
	}
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, rootservices.BuildURL(c.cfg.ReclutamientoBaseURL, "ofertas"), body, &raw); err != nil {
		return nil, err
	}
	oferta := models.Oferta{VacanteId: proceso.VacanteId, PostulanteId: proceso.PostulanteId, SalarioOfrecido: detalle.SalarioOfrecido, FechaInicio: detalle.FechaInicio}
	if len(raw) > 0 {
		if mapped, err := mapOferta(raw); err == nil {
			oferta = mapped
		}
	}
	return &oferta, nil
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
