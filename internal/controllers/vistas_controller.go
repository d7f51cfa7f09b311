package controllers

import (
	"fmt"
	"net/http"
	"strings"

	rootcontrollers "github.com/udistrital/reclutamiento_mid/controllers"
	"github.com/udistrital/reclutamiento_mid/helpers"
	internalhelpers "github.com/udistrital/reclutamiento_mid/internal/helpers"
	internalservices "github.com/udistrital/reclutamiento_mid/internal/services"
)

// MensajeParcial acompaña las vistas a las que les faltó algún roster.
const MensajeParcial = "Resultado parcial: algunos datos pueden faltar"

// VistasController expone las vistas agregadas de la interfaz de reclutamiento.
type VistasController struct {
	rootcontrollers.BaseController
	Constructor *internalservices.ConstructorVistas
}

// GetCandidatos lista todos los postulantes con su etapa actual.
// @Summary Lista de candidatos
// @Tags Vistas
// @Produce json
// @Param refrescar query bool false "Ignora el cache de vistas"
// @Param buscar query string false "Texto a buscar en nombre, email o vacante"
// @Param etapa query string false "Etiqueta o código de etapa" Example(En Entrevista)
// @Param vacante_id query int false "Solo postulantes de la vacante" Example(3)
// @Param puesto query string false "Nombre exacto de la vacante"
// @Param page query int false "Página (desde 1)"
// @Param size query int false "Tamaño de página (máx. 100)"
// @Success 200 {object} internaldto.APIResponseDTO
// @Failure 400 {object} internaldto.APIResponseDTO
// @Failure 502 {object} internaldto.APIResponseDTO
func (c *VistasController) GetCandidatos() {
	filtro, ok := c.filtroCandidatos()
	if !ok {
		return
	}
	ctx := internalhelpers.RequestContext(c.Ctx)
	vista, err := c.Constructor.ConstruirListaCandidatos(ctx, c.Refrescar())
	if err != nil {
		c.RespondError(err)
		return
	}
	vista = vista.Filtrar(filtro)
	if page, size := c.GetString("page"), c.GetString("size"); page != "" || size != "" {
		vista = vista.Paginar(page, size)
	}
	c.RespondSuccess(http.StatusOK, mensajeVista(vista.Parcial), vista)
}

// GetTablero agrupa los procesos por etapa, opcionalmente para una vacante.
// @Summary Tablero por etapas
// @Tags Vistas
// @Produce json
// @Param vacante_id query int false "Filtra por vacante" Example(3)
// @Param refrescar query bool false "Ignora el cache de vistas"
// @Success 200 {object} internaldto.APIResponseDTO
// @Failure 400 {object} internaldto.APIResponseDTO
// @Failure 502 {object} internaldto.APIResponseDTO
func (c *VistasController) GetTablero() {
	vacanteID, ok := c.QueryID("vacante_id")
	if !ok {
		return
	}
	ctx := internalhelpers.RequestContext(c.Ctx)
	vista, err := c.Constructor.ConstruirTablero(ctx, vacanteID, c.Refrescar())
	if err != nil {
		c.RespondError(err)
		return
	}
	c.RespondSuccess(http.StatusOK, mensajeVista(vista.Parcial), vista)
}

func (c *VistasController) filtroCandidatos() (internalservices.FiltroCandidatos, bool) {
	vacanteID, ok := c.QueryID("vacante_id")
	if !ok {
		return internalservices.FiltroCandidatos{}, false
	}
	filtro := internalservices.FiltroCandidatos{
		Buscar:    c.GetString("buscar"),
		VacanteID: vacanteID,
		Puesto:    c.GetString("puesto"),
	}
	if raw := strings.TrimSpace(c.GetString("etapa")); raw != "" {
		etapa, ok := internalservices.EtapaDesdeEtiqueta(raw)
		if !ok {
			c.RespondError(helpers.Validacion(fmt.Sprintf("etapa desconocida %q", raw)))
			return internalservices.FiltroCandidatos{}, false
		}
		filtro.Etapa = etapa
	}
	return filtro, true
}

func mensajeVista(parcial bool) string {
	if parcial {
		return MensajeParcial
	}
	return "OK"
}
