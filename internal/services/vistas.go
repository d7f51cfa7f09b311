package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/beego/beego/v2/core/logs"
	lru "github.com/hashicorp/golang-lru"

	"github.com/udistrital/reclutamiento_mid/helpers"
	"github.com/udistrital/reclutamiento_mid/internal/clients"
	internaldto "github.com/udistrital/reclutamiento_mid/internal/dto"
	internalhelpers "github.com/udistrital/reclutamiento_mid/internal/helpers"
	"github.com/udistrital/reclutamiento_mid/internal/metrics"
	"github.com/udistrital/reclutamiento_mid/models"
)

// VacanteNoEspecificada es el nombre mostrado para postulantes sin proceso.
const VacanteNoEspecificada = "No especificado"

const (
	vistaCandidatos = "candidatos"
	vistaTablero    = "tablero"
)

// ResultadoRoster es la respuesta de una consulta de roster durante el fan-out.
type ResultadoRoster struct {
	Vacante  models.Vacante
	Entradas []models.EntradaRoster
	Err      error
}

// Diagnostico describe una fuente que no pudo consultarse.
type Diagnostico struct {
	Fuente    string `json:"fuente"`
	VacanteID int64  `json:"vacante_id,omitempty"`
	Vacante   string `json:"vacante,omitempty"`
	Mensaje   string `json:"mensaje"`
}

// ItemCandidato es una fila de la lista o una tarjeta del tablero.
type ItemCandidato struct {
	PostulanteID       int64              `json:"postulante_id"`
	Nombre             string             `json:"nombre"`
	Email              string             `json:"email,omitempty"`
	Telefono           string             `json:"telefono,omitempty"`
	Habilidades        []models.Habilidad `json:"habilidades,omitempty"`
	ProcesoID          int64              `json:"proceso_id,omitempty"`
	VacanteID          int64              `json:"vacante_id,omitempty"`
	Vacante            string             `json:"vacante"`
	Etapa              models.Etapa       `json:"etapa"`
	Etiqueta           string             `json:"etiqueta"`
	Calificacion       *float64           `json:"calificacion"`
	FechaActualizacion *time.Time         `json:"fecha_actualizacion,omitempty"`
}

// ItemTablero comparte forma con la fila de la lista.
type ItemTablero = ItemCandidato

// VistaCandidatos es la lista plana de postulantes con su etapa.
type VistaCandidatos struct {
	Items        []ItemCandidato      `json:"items"`
	Total        int                  `json:"total"`
	Pagina       *internaldto.PageDTO `json:"pagina,omitempty"`
	Parcial      bool                 `json:"parcial"`
	Diagnosticos []Diagnostico        `json:"diagnosticos"`
	GeneradaEn   time.Time            `json:"generada_en"`
}

// Paginar devuelve una copia con solo los items de la página; la vista original no cambia.
func (v *VistaCandidatos) Paginar(pageStr, sizeStr string) *VistaCandidatos {
	page, size := internalhelpers.ParsePageSize(pageStr, sizeStr)
	from, to := internalhelpers.PageBounds(len(v.Items), page, size)
	copia := *v
	copia.Items = v.Items[from:to:to]
	copia.Pagina = &internaldto.PageDTO{Page: page, Size: size, Total: len(v.Items)}
	return &copia
}

// FiltroCandidatos acota la lista como lo hace la pantalla de candidatos. Los campos vacíos no filtran.
type FiltroCandidatos struct {
	// Buscar compara sin distinguir mayúsculas contra nombre, email y vacante.
	Buscar    string
	Etapa     models.Etapa
	VacanteID *int64
	Puesto    string
}

// Vacio indica que el filtro deja pasar todo.
func (f FiltroCandidatos) Vacio() bool {
	return strings.TrimSpace(f.Buscar) == "" && f.Etapa == "" && f.VacanteID == nil && strings.TrimSpace(f.Puesto) == ""
}

func (f FiltroCandidatos) admite(item ItemCandidato) bool {
	if f.Etapa != "" && item.Etapa != f.Etapa {
		return false
	}
	if f.VacanteID != nil && item.VacanteID != *f.VacanteID {
		return false
	}
	if puesto := strings.TrimSpace(f.Puesto); puesto != "" && !strings.EqualFold(item.Vacante, puesto) {
		return false
	}
	termino := strings.ToLower(strings.TrimSpace(f.Buscar))
	if termino == "" {
		return true
	}
	for _, campo := range []string{item.Nombre, item.Email, item.Vacante} {
		if strings.Contains(strings.ToLower(campo), termino) {
			return true
		}
	}
	return false
}

// Filtrar devuelve una copia con los items que pasan el filtro; Total cuenta lo filtrado.
func (v *VistaCandidatos) Filtrar(f FiltroCandidatos) *VistaCandidatos {
	if f.Vacio() {
		return v
	}
	copia := *v
	copia.Items = make([]ItemCandidato, 0, len(v.Items))
	for _, item := range v.Items {
		if f.admite(item) {
			copia.Items = append(copia.Items, item)
		}
	}
	copia.Total = len(copia.Items)
	return &copia
}

// ColumnaTablero agrupa las tarjetas de una etapa.
type ColumnaTablero struct {
	Etapa    models.Etapa  `json:"etapa"`
	Etiqueta string        `json:"etiqueta"`
	Items    []ItemTablero `json:"items"`
	Total    int           `json:"total"`
}

// VistaTablero agrupa los procesos por etapa, con todas las columnas en orden fijo.
type VistaTablero struct {
	VacanteID    *int64           `json:"vacante_id,omitempty"`
	Columnas     []ColumnaTablero `json:"columnas"`
	Total        int              `json:"total"`
	Parcial      bool             `json:"parcial"`
	Diagnosticos []Diagnostico    `json:"diagnosticos"`
	GeneradaEn   time.Time        `json:"generada_en"`
}

// Columna devuelve la columna de una etapa.
func (v *VistaTablero) Columna(etapa models.Etapa) *ColumnaTablero {
	for i := range v.Columnas {
		if v.Columnas[i].Etapa == etapa {
			return &v.Columnas[i]
		}
	}
	return nil
}

// OpcionesVistas ajusta el fan-out y el cache.
type OpcionesVistas struct {
	MaxConcurrencia int
	TimeoutConsulta time.Duration
	CacheTTL        time.Duration
}

type entradaCache struct {
	valor  any
	expira time.Time
}

// ConstructorVistas arma las vistas agregadas consultando rosters en paralelo.
type ConstructorVistas struct {
	repo    clients.ReclutamientoAPI
	cache   *lru.Cache
	ttl     time.Duration
	limite  int
	timeout time.Duration
	now     func() time.Time

	// generacion avanza con cada invalidación; una vista armada en una generación anterior no se guarda.
	mu         sync.Mutex
	generacion uint64
}

// NuevoCacheVistas crea el LRU compartido entre el constructor y el orquestador.
func NuevoCacheVistas(tamano int) (*lru.Cache, error) {
	if tamano <= 0 {
		tamano = 32
	}
	return lru.New(tamano)
}

// NewConstructorVistas recibe un cache opcional; nil desactiva el cacheo.
func NewConstructorVistas(repo clients.ReclutamientoAPI, cache *lru.Cache, opciones OpcionesVistas) *ConstructorVistas {
	limite := opciones.MaxConcurrencia
	if limite <= 0 {
		limite = 8
	}
	return &ConstructorVistas{
		repo:    repo,
		cache:   cache,
		ttl:     opciones.CacheTTL,
		limite:  limite,
		timeout: opciones.TimeoutConsulta,
		now:     time.Now,
	}
}

// Invalidar descarta todas las vistas cacheadas y las que estén armándose.
func (c *ConstructorVistas) Invalidar() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generacion++
	if c.cache != nil {
		c.cache.Purge()
	}
}

func (c *ConstructorVistas) generacionActual() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generacion
}

func (c *ConstructorVistas) desdeCache(clave, vista string) (any, bool) {
	if c.cache == nil || c.ttl <= 0 {
		return nil, false
	}
	raw, ok := c.cache.Get(clave)
	if !ok {
		metrics.Cache(vista, false)
		return nil, false
	}
	entrada := raw.(entradaCache)
	if c.now().After(entrada.expira) {
		c.cache.Remove(clave)
		metrics.Cache(vista, false)
		return nil, false
	}
	metrics.Cache(vista, true)
	return entrada.valor, true
}

func (c *ConstructorVistas) guardar(clave string, valor any, generacion uint64) {
	if c.cache == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if generacion != c.generacion {
		logs.Info("vistas: vista descartada por una mutación concurrente", "clave", clave)
		return
	}
	c.cache.Add(clave, entradaCache{valor: valor, expira: c.now().Add(c.ttl)})
}

// ConstruirListaCandidatos arma la lista de postulantes con la etapa de su proceso.
func (c *ConstructorVistas) ConstruirListaCandidatos(ctx context.Context, refrescar bool) (*VistaCandidatos, error) {
	inicio := time.Now()
	generacion := c.generacionActual()
	if !refrescar {
		if v, ok := c.desdeCache(vistaCandidatos, vistaCandidatos); ok {
			return v.(*VistaCandidatos), nil
		}
	}

	vacantes, err := c.listarVacantes(ctx)
	if err != nil {
		return nil, err
	}

	type resultadoPostulantes struct {
		lista []models.Postulante
		err   error
	}
	postulantesCh := make(chan resultadoPostulantes, 1)
	go func() {
		qctx, cancel := c.contextoConsulta(ctx)
		defer cancel()
		lista, err := c.repo.ListarPostulantes(qctx)
		postulantesCh <- resultadoPostulantes{lista: lista, err: err}
	}()

	resultados, err := c.consultarRosters(ctx, vistaCandidatos, vacantes)
	if err != nil {
		return nil, err
	}
	var postulantes resultadoPostulantes
	select {
	case postulantes = <-postulantesCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	vista := &VistaCandidatos{Items: []ItemCandidato{}, Diagnosticos: []Diagnostico{}}
	porID := make(map[int64]models.Postulante, len(postulantes.lista))
	if postulantes.err != nil {
		logs.Warn("vistas: no fue posible listar postulantes:", postulantes.err)
		metrics.RosterFallido("postulantes")
		vista.Parcial = true
		vista.Diagnosticos = append(vista.Diagnosticos, Diagnostico{Fuente: "postulantes", Mensaje: postulantes.err.Error()})
	}
	for _, p := range postulantes.lista {
		porID[p.Id] = p
	}

	vistos := make(map[int64]struct{})
	for _, r := range resultados {
		if r.Err != nil {
			vista.Parcial = true
			vista.Diagnosticos = append(vista.Diagnosticos, diagnosticoRoster(r))
			continue
		}
		for _, entrada := range r.Entradas {
			if _, ok := vistos[entrada.PostulanteId]; ok {
				continue
			}
			vistos[entrada.PostulanteId] = struct{}{}
			vista.Items = append(vista.Items, itemDesdeEntrada(entrada, r.Vacante, porID))
		}
	}

	// Con rosters faltantes no se puede afirmar que un postulante no tenga proceso.
	rostersCompletos := true
	for _, r := range resultados {
		if r.Err != nil {
			rostersCompletos = false
			break
		}
	}
	if rostersCompletos {
		for _, p := range postulantes.lista {
			if _, ok := vistos[p.Id]; ok {
				continue
			}
			vistos[p.Id] = struct{}{}
			vista.Items = append(vista.Items, itemSinProceso(p))
		}
	}

	vista.Total = len(vista.Items)
	vista.GeneradaEn = c.now()
	metrics.ObservarAgregacion(vistaCandidatos, vista.Parcial, inicio)
	if !vista.Parcial {
		c.guardar(vistaCandidatos, vista, generacion)
	}
	return vista, nil
}

// ConstruirTablero agrupa los procesos por etapa, opcionalmente para una sola vacante.
func (c *ConstructorVistas) ConstruirTablero(ctx context.Context, vacanteID *int64, refrescar bool) (*VistaTablero, error) {
	inicio := time.Now()
	generacion := c.generacionActual()
	clave := vistaTablero + ":todas"
	if vacanteID != nil {
		clave = fmt.Sprintf("%s:%d", vistaTablero, *vacanteID)
	}
	if !refrescar {
		if v, ok := c.desdeCache(clave, vistaTablero); ok {
			return v.(*VistaTablero), nil
		}
	}

	var vacantes []models.Vacante
	if vacanteID != nil {
		vacantes = []models.Vacante{c.vacantePorID(ctx, *vacanteID)}
	} else {
		var err error
		if vacantes, err = c.listarVacantes(ctx); err != nil {
			return nil, err
		}
	}

	resultados, err := c.consultarRosters(ctx, vistaTablero, vacantes)
	if err != nil {
		return nil, err
	}

	vista := &VistaTablero{VacanteID: vacanteID, Diagnosticos: []Diagnostico{}}
	vista.Columnas = make([]ColumnaTablero, 0, len(models.EtapasTablero))
	for _, etapa := range models.EtapasTablero {
		vista.Columnas = append(vista.Columnas, ColumnaTablero{Etapa: etapa, Etiqueta: EtiquetaEtapa(etapa), Items: []ItemTablero{}})
	}

	vistos := make(map[int64]struct{})
	for _, r := range resultados {
		if r.Err != nil {
			vista.Parcial = true
			vista.Diagnosticos = append(vista.Diagnosticos, diagnosticoRoster(r))
			continue
		}
		for _, entrada := range r.Entradas {
			if _, ok := vistos[entrada.PostulanteId]; ok {
				continue
			}
			item := itemDesdeEntrada(entrada, r.Vacante, nil)
			columna := vista.Columna(item.Etapa)
			if columna == nil {
				vista.Diagnosticos = append(vista.Diagnosticos, Diagnostico{
					Fuente:    "roster",
					VacanteID: r.Vacante.Id,
					Vacante:   r.Vacante.Nombre,
					Mensaje:   fmt.Sprintf("postulante %d con etapa desconocida %q", entrada.PostulanteId, item.Etapa),
				})
				continue
			}
			vistos[entrada.PostulanteId] = struct{}{}
			columna.Items = append(columna.Items, item)
			columna.Total++
			vista.Total++
		}
	}

	vista.GeneradaEn = c.now()
	metrics.ObservarAgregacion(vistaTablero, vista.Parcial, inicio)
	if !vista.Parcial {
		c.guardar(clave, vista, generacion)
	}
	return vista, nil
}

func (c *ConstructorVistas) listarVacantes(ctx context.Context) ([]models.Vacante, error) {
	vacantes, err := c.repo.ListarVacantesAbiertas(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logs.Error("vistas: no fue posible listar vacantes:", err)
		return nil, helpers.Backend("no fue posible consultar las vacantes", err)
	}
	return vacantes, nil
}

// vacantePorID busca el nombre de la vacante filtrada; si no aparece entre las abiertas la tarjeta queda solo con el id.
func (c *ConstructorVistas) vacantePorID(ctx context.Context, id int64) models.Vacante {
	abiertas, err := c.repo.ListarVacantesAbiertas(ctx)
	if err != nil {
		logs.Warn("vistas: nombre de vacante no disponible", "vacante", id, "err", err)
		return models.Vacante{Id: id}
	}
	for _, v := range abiertas {
		if v.Id == id {
			return v
		}
	}
	return models.Vacante{Id: id}
}

// contextoConsulta se desprende de la cancelación del llamador; el resultado se descarta si ya no hay quien lo espere.
func (c *ConstructorVistas) contextoConsulta(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		return context.WithTimeout(detached, c.timeout)
	}
	return context.WithCancel(detached)
}

// consultarRosters lanza una consulta por vacante con a lo sumo c.limite en vuelo.
// Los resultados conservan el orden de las vacantes.
func (c *ConstructorVistas) consultarRosters(ctx context.Context, vista string, vacantes []models.Vacante) ([]ResultadoRoster, error) {
	resultados := make([]ResultadoRoster, len(vacantes))
	listo := make(chan struct{})

	go func() {
		defer close(listo)
		sem := make(chan struct{}, c.limite)
		var wg sync.WaitGroup
	despacho:
		for i, v := range vacantes {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				break despacho
			}
			// El cupo pudo liberarse en el mismo instante de la cancelación.
			if ctx.Err() != nil {
				<-sem
				break despacho
			}
			wg.Add(1)
			go func(i int, v models.Vacante) {
				defer wg.Done()
				defer func() { <-sem }()
				qctx, cancel := c.contextoConsulta(ctx)
				defer cancel()
				entradas, err := c.repo.ListarRoster(qctx, v.Id)
				if err != nil {
					logs.Warn("vistas: roster omitido", "vacante", v.Id, "err", err)
					metrics.RosterFallido(vista)
				}
				resultados[i] = ResultadoRoster{Vacante: v, Entradas: entradas, Err: err}
			}(i, v)
		}
		wg.Wait()
	}()

	select {
	case <-listo:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return resultados, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func diagnosticoRoster(r ResultadoRoster) Diagnostico {
	return Diagnostico{
		Fuente:    "roster",
		VacanteID: r.Vacante.Id,
		Vacante:   r.Vacante.Nombre,
		Mensaje:   r.Err.Error(),
	}
}

func itemDesdeEntrada(entrada models.EntradaRoster, vacante models.Vacante, porID map[int64]models.Postulante) ItemCandidato {
	etapa := entrada.EtapaEfectiva()
	item := ItemCandidato{
		PostulanteID: entrada.PostulanteId,
		ProcesoID:    entrada.Id,
		VacanteID:    vacante.Id,
		Vacante:      vacante.Nombre,
		Etapa:        etapa,
		Etiqueta:     EtiquetaEtapa(etapa),
		Calificacion: entrada.Calificacion,
	}
	if item.VacanteID == 0 {
		item.VacanteID = entrada.VacanteId
	}
	if !entrada.FechaActualizacion.IsZero() {
		fecha := entrada.FechaActualizacion
		item.FechaActualizacion = &fecha
	}
	postulante := entrada.Postulante
	if p, ok := porID[entrada.PostulanteId]; ok {
		postulante = &p
	}
	if postulante != nil {
		item.Nombre = postulante.NombreCompleto()
		item.Email = postulante.Email
		item.Telefono = postulante.Telefono
		item.Habilidades = postulante.Habilidades
	}
	return item
}

func itemSinProceso(p models.Postulante) ItemCandidato {
	return ItemCandidato{
		PostulanteID: p.Id,
		Nombre:       p.NombreCompleto(),
		Email:        p.Email,
		Telefono:     p.Telefono,
		Habilidades:  p.Habilidades,
		Vacante:      VacanteNoEspecificada,
		Etapa:        models.EtapaRevisionCV,
		Etiqueta:     EtiquetaEtapa(models.EtapaRevisionCV),
	}
}
