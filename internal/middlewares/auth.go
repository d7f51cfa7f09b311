package middlewares

import (
	"errors"
	"sync"

	"github.com/beego/beego/v2/core/logs"
	beego "github.com/beego/beego/v2/server/web"
	"github.com/beego/beego/v2/server/web/context"

	internalhelpers "github.com/udistrital/reclutamiento_mid/internal/helpers"
)

var (
	authOnce sync.Once
)

// UseAuth registra el middleware de autenticación opcionalmente una sola vez.
func UseAuth() {
	authOnce.Do(func() {
		beego.InsertFilter("/v1/*", beego.BeforeRouter, authFilter)
	})
}

func authFilter(ctx *context.Context) {
	// El MID no valida firmas: el backend decide. Las lecturas siguen; las acciones rechazan el token mal formado.
	if _, err := internalhelpers.Claims(ctx); err != nil && !errors.Is(err, internalhelpers.ErrNoAuthHeader) {
		logs.Warn("token no interpretable:", err, "path", ctx.Input.URL())
		internalhelpers.MarcarErrorAutenticacion(ctx, err)
	}
}
