package errorhandler

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	internalhelpers "github.com/udistrital/reclutamiento_mid/internal/helpers"

	"github.com/beego/beego/v2/core/logs"
	beego "github.com/beego/beego/v2/server/web"
	"github.com/beego/beego/v2/server/web/context"
)

// ErrorHandlerController se registra en el router para gestionar 404 y otros fallos.
type ErrorHandlerController struct {
	beego.Controller
}

// Error404 centraliza la respuesta cuando la ruta no existe.
func (c *ErrorHandlerController) Error404() {
	method := c.Ctx.Request.Method
	path := c.Ctx.Request.URL.Path
	status := http.StatusNotFound
	message := fmt.Sprintf("nomatch|%s|%s", method, path)

	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = internalhelpers.Fail(status, message)
	_ = c.ServeJSON()
}

// Error501 responde métodos no implementados en una ruta existente.
func (c *ErrorHandlerController) Error501() {
	status := http.StatusNotImplemented
	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = internalhelpers.Fail(status, "método no soportado")
	_ = c.ServeJSON()
}

// RecoverPanic se instala como BConfig.RecoverFunc y entrega una respuesta estándar ante pánicos.
func RecoverPanic(ctx *context.Context, cfg *beego.Config) {
	r := recover()
	if r == nil || r == beego.ErrAbort {
		return
	}
	if cfg != nil && !cfg.RecoverPanic {
		panic(r)
	}
	logs.Error("panic:", r)
	debug.PrintStack()

	appName := beego.AppConfig.DefaultString("appname", "reclutamiento_mid")
	message := fmt.Sprintf("Error service %s: An internal server error occurred.", appName)
	message += fmt.Sprintf(" Request Info: URL: %s, Method: %s", ctx.Request.URL, ctx.Request.Method)
	message += " Time: " + time.Now().UTC().Format(time.RFC3339)

	status := http.StatusInternalServerError
	ctx.Output.SetStatus(status)
	_ = ctx.Output.JSON(internalhelpers.Fail(status, message), false, false)
}
