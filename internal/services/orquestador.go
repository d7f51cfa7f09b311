package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/beego/beego/v2/core/logs"

	"github.com/udistrital/reclutamiento_mid/helpers"
	"github.com/udistrital/reclutamiento_mid/internal/clients"
	internaldto "github.com/udistrital/reclutamiento_mid/internal/dto"
	"github.com/udistrital/reclutamiento_mid/internal/metrics"
	"github.com/udistrital/reclutamiento_mid/models"
)

// InvalidadorVistas descarta las vistas agregadas tras una mutación.
type InvalidadorVistas interface {
	Invalidar()
}

// Payload trae los datos propios de cada acción.
type Payload struct {
	VacanteID     *int64
	Destino       string
	Resultado     string
	Calificacion  *float64
	Motivo        string
	Observaciones string
	Entrevista    *internaldto.DetalleEntrevista
	Oferta        *internaldto.DetalleOferta
	ReclutadorID  int64
}

// PayloadDesdeRequest traduce el cuerpo HTTP al payload del orquestador.
func PayloadDesdeRequest(req internaldto.AccionRequest, reclutadorID int64) Payload {
	return Payload{
		VacanteID:     req.VacanteID,
		Destino:       req.Destino,
		Resultado:     req.Resultado,
		Calificacion:  req.Calificacion,
		Motivo:        req.Motivo,
		Observaciones: req.Observaciones,
		Entrevista:    req.Entrevista,
		Oferta:        req.Oferta,
		ReclutadorID:  reclutadorID,
	}
}

// ResultadoAccion es lo que ve el revisor después de actuar.
type ResultadoAccion struct {
	Proceso    *models.ProcesoSeleccion `json:"proceso"`
	Etapa      models.Etapa             `json:"etapa"`
	Etiqueta   string                   `json:"etiqueta"`
	SinCambios bool                     `json:"sin_cambios"`
	Entrevista *models.Entrevista       `json:"entrevista,omitempty"`
	Oferta     *models.Oferta           `json:"oferta,omitempty"`
}

// Orquestador ejecuta las acciones del revisor: resolver, decidir y persistir.
type Orquestador struct {
	repo     clients.ReclutamientoAPI
	resolver ResolverProcesos
	vistas   InvalidadorVistas
}

func NewOrquestador(repo clients.ReclutamientoAPI, resolver ResolverProcesos, vistas InvalidadorVistas) *Orquestador {
	return &Orquestador{repo: repo, resolver: resolver, vistas: vistas}
}

// Ejecutar aplica una acción sobre el proceso del postulante con a lo sumo una escritura.
func (o *Orquestador) Ejecutar(ctx context.Context, postulanteID int64, nombreAccion string, p Payload) (*ResultadoAccion, error) {
	accion, ok := ParseAccion(nombreAccion)
	if !ok {
		err := helpers.Validacion(fmt.Sprintf("acción desconocida %q", nombreAccion))
		metrics.Accion(strings.ToUpper(strings.TrimSpace(nombreAccion)), claseError(err))
		return nil, err
	}

	res, err := o.ejecutar(ctx, postulanteID, accion, p)
	switch {
	case err != nil:
		metrics.Accion(string(accion), claseError(err))
	case res.SinCambios:
		metrics.Accion(string(accion), "sin_cambios")
	default:
		metrics.Accion(string(accion), "ok")
	}
	return res, err
}

func (o *Orquestador) ejecutar(ctx context.Context, postulanteID int64, accion Accion, p Payload) (*ResultadoAccion, error) {
	if err := validarPayload(accion, p); err != nil {
		return nil, err
	}
	var destino models.Etapa
	if strings.TrimSpace(p.Destino) != "" {
		etapa, ok := EtapaDesdeEtiqueta(p.Destino)
		if !ok {
			return nil, helpers.Validacion(fmt.Sprintf("etapa destino desconocida %q", p.Destino))
		}
		destino = etapa
	}
	resultado, ok := ParseResultado(p.Resultado)
	if !ok {
		return nil, helpers.Validacion(fmt.Sprintf("resultado desconocido %q", p.Resultado))
	}

	proceso, err := o.resolver.Resolver(ctx, postulanteID, OpcionesResolucion{VacanteID: p.VacanteID})
	if err != nil {
		return nil, err
	}

	etapa := proceso.EtapaEfectiva()
	if EsReintento(etapa, accion, resultado, destino) {
		logs.Info("acción sin cambios", "postulante", postulanteID, "accion", accion, "etapa", etapa)
		return resultadoDe(proceso, true), nil
	}

	decision, err := Decidir(Entrada{
		Etapa:        etapa,
		Calificacion: proceso.Calificacion,
		Accion:       accion,
		Resultado:    resultado,
		Destino:      destino,
	})
	if err != nil {
		return nil, err
	}
	if decision.SinCambios {
		return resultadoDe(proceso, true), nil
	}

	res, err := o.persistir(ctx, *proceso, accion, decision, p)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			logs.Warn("escritura abandonada por el llamador", "postulante", postulanteID, "accion", accion)
		} else {
			logs.Error("fallo de persistencia", "postulante", postulanteID, "accion", accion, "err", err)
		}
		return nil, helpers.Persistencia("no fue posible registrar la acción, intente de nuevo", err)
	}

	if o.vistas != nil {
		o.vistas.Invalidar()
	}
	logs.Info("acción registrada", "postulante", postulanteID, "proceso", proceso.Id, "accion", accion, "etapa", res.Etapa, "reclutador", p.ReclutadorID)
	return res, nil
}

func (o *Orquestador) persistir(ctx context.Context, proceso models.ProcesoSeleccion, accion Accion, decision Decision, p Payload) (*ResultadoAccion, error) {
	meta := clients.Metadatos{ReclutadorID: p.ReclutadorID, Notas: p.Observaciones}

	switch accion {
	case AccionCalificar:
		if err := o.repo.RegistrarCalificacion(ctx, proceso, *p.Calificacion, p.Observaciones); err != nil {
			return nil, err
		}
		calificacion := *p.Calificacion
		proceso.Calificacion = &calificacion
		return resultadoDe(&proceso, false), nil

	case AccionSolicitarEntrevista:
		entrevista, err := o.repo.SolicitarEntrevista(ctx, proceso, *p.Entrevista)
		if err != nil {
			return nil, err
		}
		res := resultadoDe(&proceso, false)
		res.Entrevista = entrevista
		return res, nil

	case AccionSolicitarOferta:
		oferta, err := o.repo.SolicitarOferta(ctx, proceso, *p.Oferta)
		if err != nil {
			return nil, err
		}
		res := resultadoDe(&proceso, false)
		res.Oferta = oferta
		return res, nil
	}

	if decision.Rechazo {
		motivo := strings.TrimSpace(p.Motivo)
		if motivo == "" {
			motivo = decision.Motivo
		}
		if err := o.repo.RegistrarRechazo(ctx, proceso, motivo, meta); err != nil {
			return nil, err
		}
		proceso.Estado = models.EstadoDescartado
		proceso.MotivoRechazo = motivo
		return resultadoDe(&proceso, false), nil
	}

	actualizado, err := o.repo.CambiarEtapa(ctx, proceso, decision.Etapa, meta)
	if err != nil {
		return nil, err
	}
	if actualizado == nil {
		proceso.Etapa = decision.Etapa
		actualizado = &proceso
	}
	return resultadoDe(actualizado, false), nil
}

// DescribirProceso presenta el proceso con su etapa efectiva y la etiqueta que ve el revisor.
func DescribirProceso(proceso *models.ProcesoSeleccion) *ResultadoAccion {
	etapa := proceso.EtapaEfectiva()
	return &ResultadoAccion{
		Proceso:  proceso,
		Etapa:    etapa,
		Etiqueta: EtiquetaEtapa(etapa),
	}
}

func resultadoDe(proceso *models.ProcesoSeleccion, sinCambios bool) *ResultadoAccion {
	res := DescribirProceso(proceso)
	res.SinCambios = sinCambios
	return res
}

func validarPayload(accion Accion, p Payload) error {
	switch accion {
	case AccionCalificar:
		if p.Calificacion == nil {
			return helpers.Validacion("la calificación es obligatoria")
		}
		c := *p.Calificacion
		if math.IsNaN(c) || c < 0 || c > 5 {
			return helpers.Validacion("la calificación debe estar entre 0 y 5")
		}
	case AccionRechazar:
		if strings.TrimSpace(p.Motivo) == "" {
			return helpers.Validacion("el motivo de rechazo es obligatorio")
		}
	case AccionSolicitarEntrevista:
		if p.Entrevista == nil || strings.TrimSpace(p.Entrevista.Fecha) == "" || strings.TrimSpace(p.Entrevista.Hora) == "" {
			return helpers.Validacion("la entrevista requiere fecha y hora")
		}
	case AccionSolicitarOferta:
		if p.Oferta == nil || !(p.Oferta.SalarioOfrecido > 0) {
			return helpers.Validacion("la oferta requiere un salario mayor a cero")
		}
	}
	return nil
}

func claseError(err error) string {
	switch {
	case errors.Is(err, helpers.ErrValidacion):
		return "validacion"
	case errors.Is(err, helpers.ErrTransicionInvalida):
		return "transicion_invalida"
	case errors.Is(err, helpers.ErrProcesoNoEncontrado):
		return "no_encontrado"
	case errors.Is(err, helpers.ErrPersistencia):
		return "persistencia"
	case errors.Is(err, helpers.ErrBackend):
		return "backend"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelada"
	}
	return "error"
}
