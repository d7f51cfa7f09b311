package routers

import (
	"github.com/udistrital/reclutamiento_mid/controllers/errorhandler"
	internalcontrollers "github.com/udistrital/reclutamiento_mid/internal/controllers"
	"github.com/udistrital/reclutamiento_mid/internal/metrics"
	internalservices "github.com/udistrital/reclutamiento_mid/internal/services"

	beego "github.com/beego/beego/v2/server/web"
)

// Dependencias son los servicios compartidos por todos los controladores.
type Dependencias struct {
	Resolver    internalservices.ResolverProcesos
	Orquestador *internalservices.Orquestador
	Vistas      *internalservices.ConstructorVistas
}

// Init registra las rutas del MID.
func Init(deps Dependencias) {
	// Manejador de errores
	beego.ErrorController(&errorhandler.ErrorHandlerController{})

	procesos := &internalcontrollers.ProcesosController{Resolver: deps.Resolver, Orquestador: deps.Orquestador}
	vistas := &internalcontrollers.VistasController{Constructor: deps.Vistas}

	beego.Router("/v1/postulantes/:id/proceso", procesos, "get:GetProceso")
	beego.Router("/v1/postulantes/:id/acciones", procesos, "post:PostAccion")

	beego.Router("/v1/vistas/candidatos", vistas, "get:GetCandidatos")
	beego.Router("/v1/vistas/tablero", vistas, "get:GetTablero")

	beego.Handler("/metrics", metrics.Handler())
}
