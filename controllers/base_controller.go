package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/beego/beego/v2/core/logs"
	beego "github.com/beego/beego/v2/server/web"

	"github.com/udistrital/reclutamiento_mid/helpers"
	"github.com/udistrital/reclutamiento_mid/models/requestresponse"
)

// BaseController centraliza la construcción de respuestas estándar.
type BaseController struct {
	beego.Controller
}

// RespondSuccess envuelve un payload en el formato estándar.
func (c *BaseController) RespondSuccess(status int, message string, data interface{}) {
	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = requestresponse.NewSuccess(status, message, data)
	_ = c.ServeJSON()
}

// RespondError transforma cualquier error en la respuesta estándar.
// Los errores reintentables lo indican en Data para que la interfaz ofrezca reintentar.
func (c *BaseController) RespondError(err error) {
	appErr := helpers.AsAppError(err, "error inesperado")
	if appErr.Status >= http.StatusInternalServerError {
		logs.Error(c.Ctx.Request.Method, c.Ctx.Request.URL.Path, err)
	}
	resp := requestresponse.NewError(appErr.Status, appErr.Message, nil)
	if appErr.Reintentable() {
		resp = requestresponse.NewErrorReintentable(appErr.Status, appErr.Message)
	}
	c.Ctx.Output.SetStatus(appErr.Status)
	c.Data["json"] = resp
	_ = c.ServeJSON()
}

// ParseJSONBody deserializa el cuerpo de la petición en dest.
func (c *BaseController) ParseJSONBody(out interface{}) error {
	raw := c.Ctx.Input.RequestBody

	if len(raw) == 0 && c.Ctx.Request != nil && c.Ctx.Request.Body != nil {
		b, err := io.ReadAll(c.Ctx.Request.Body)
		if err != nil {
			return err
		}
		raw = b

		// cache + reinyectar
		c.Ctx.Input.RequestBody = b
		c.Ctx.Request.Body = io.NopCloser(bytes.NewBuffer(b))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return helpers.Validacion("cuerpo vacío")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return helpers.NewAppError(http.StatusBadRequest, "cuerpo inválido", err)
	}
	return nil
}

// PathID lee un id positivo de la ruta.
func (c *BaseController) PathID(name string) (int64, bool) {
	raw := strings.TrimSpace(c.Ctx.Input.Param(name))
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		c.RespondError(helpers.NewAppError(http.StatusBadRequest, "id inválido", err))
		return 0, false
	}
	return val, true
}

// QueryID lee un id opcional del query string; ausente devuelve nil.
func (c *BaseController) QueryID(name string) (*int64, bool) {
	raw := strings.TrimSpace(c.GetString(name))
	if raw == "" {
		return nil, true
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		c.RespondError(helpers.NewAppError(http.StatusBadRequest, name+" inválido", err))
		return nil, false
	}
	return &val, true
}

// Refrescar indica si el cliente pidió saltarse el cache.
func (c *BaseController) Refrescar() bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.GetString("refrescar")))
	return err == nil && v
}
