package middlewares

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	beego "github.com/beego/beego/v2/server/web"
	"github.com/beego/beego/v2/server/web/context"

	internalhelpers "github.com/udistrital/reclutamiento_mid/internal/helpers"
)

var correlacionOnce sync.Once

// UseCorrelacion garantiza un X-Correlation-Id en cada request y lo devuelve en la respuesta.
func UseCorrelacion() {
	correlacionOnce.Do(func() {
		beego.InsertFilter("*", beego.BeforeRouter, CorrelacionFilter)
	})
}

// CorrelacionFilter reutiliza el id entrante o genera uno nuevo.
func CorrelacionFilter(ctx *context.Context) {
	id := strings.TrimSpace(ctx.Input.Header(internalhelpers.HeaderCorrelacion))
	if id == "" {
		id = uuid.NewString()
		ctx.Request.Header.Set(internalhelpers.HeaderCorrelacion, id)
	}
	ctx.Output.Header(internalhelpers.HeaderCorrelacion, id)
}
