package controllers

import (
	"net/http"
	"strings"

	"github.com/beego/beego/v2/core/logs"

	rootcontrollers "github.com/udistrital/reclutamiento_mid/controllers"
	"github.com/udistrital/reclutamiento_mid/helpers"
	internaldto "github.com/udistrital/reclutamiento_mid/internal/dto"
	internalhelpers "github.com/udistrital/reclutamiento_mid/internal/helpers"
	internalservices "github.com/udistrital/reclutamiento_mid/internal/services"
)

// ProcesosController expone la resolución de procesos y las acciones del revisor.
type ProcesosController struct {
	rootcontrollers.BaseController
	Resolver    internalservices.ResolverProcesos
	Orquestador *internalservices.Orquestador
}

// GetProceso devuelve el proceso de selección activo de un postulante.
// @Summary Resolver proceso del postulante
// @Description Ejemplo de respuesta: {"Success":true,"Status":200,"Message":"OK","Data":{"proceso":{"id":55,"postulante_id":7,"vacante_id":3,"etapa":"ENTREVISTA"},"etapa":"ENTREVISTA","etiqueta":"En Entrevista","sin_cambios":false}}
// @Tags Procesos
// @Produce json
// @Param id path int true "Id del postulante" Example(7)
// @Param vacante_id query int false "Limita la búsqueda a una vacante" Example(3)
// @Success 200 {object} internaldto.APIResponseDTO
// @Failure 400 {object} internaldto.APIResponseDTO
// @Failure 404 {object} internaldto.APIResponseDTO
// @Failure 502 {object} internaldto.APIResponseDTO
func (c *ProcesosController) GetProceso() {
	postulanteID, ok := c.PathID(":id")
	if !ok {
		return
	}
	vacanteID, ok := c.QueryID("vacante_id")
	if !ok {
		return
	}

	ctx := internalhelpers.RequestContext(c.Ctx)
	proceso, err := c.Resolver.Resolver(ctx, postulanteID, internalservices.OpcionesResolucion{VacanteID: vacanteID})
	if err != nil {
		c.RespondError(err)
		return
	}
	c.RespondSuccess(http.StatusOK, "OK", internalservices.DescribirProceso(proceso))
}

// PostAccion ejecuta una acción del revisor sobre el proceso del postulante.
// @Summary Ejecutar acción de selección
// @Description Acciones: CALIFICAR, AVANZAR, RECHAZAR, SOLICITAR_ENTREVISTA, SOLICITAR_OFERTA, CERRAR_CONTRATACION. Ejemplo: {"accion":"AVANZAR","resultado":"APROBADO"}
// @Tags Procesos
// @Accept json
// @Produce json
// @Param id path int true "Id del postulante" Example(7)
// @Param body body internaldto.AccionRequest true "Acción a ejecutar"
// @Success 200 {object} internaldto.APIResponseDTO
// @Failure 400 {object} internaldto.APIResponseDTO
// @Failure 401 {object} internaldto.APIResponseDTO
// @Failure 404 {object} internaldto.APIResponseDTO
// @Failure 409 {object} internaldto.APIResponseDTO
// @Failure 502 {object} internaldto.APIResponseDTO
func (c *ProcesosController) PostAccion() {
	postulanteID, ok := c.PathID(":id")
	if !ok {
		return
	}

	var body internaldto.AccionRequest
	if err := c.ParseJSONBody(&body); err != nil {
		c.RespondError(err)
		return
	}
	if strings.TrimSpace(body.Accion) == "" {
		c.RespondError(helpers.NewAppError(http.StatusBadRequest, "accion requerida", helpers.ErrValidacion))
		return
	}

	reclutadorID, err := internalhelpers.GetReclutadorID(c.Ctx)
	if err == nil {
		err = internalhelpers.ErrorAutenticacion(c.Ctx)
	}
	if err != nil {
		logs.Warn("acción rechazada, token no interpretable:", err)
		c.RespondError(helpers.NewAppError(http.StatusUnauthorized, "token de autenticación inválido", err))
		return
	}

	ctx := internalhelpers.RequestContext(c.Ctx)
	result, err := c.Orquestador.Ejecutar(ctx, postulanteID, body.Accion, internalservices.PayloadDesdeRequest(body, reclutadorID))
	if err != nil {
		c.RespondError(err)
		return
	}

	message := "Acción registrada"
	if result.SinCambios {
		message = "Sin cambios: el proceso ya estaba en la etapa solicitada"
	}
	c.RespondSuccess(http.StatusOK, message, result)
}
