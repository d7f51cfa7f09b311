package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/beego/beego/v2/server/web/context"

	internalhelpers "github.com/udistrital/reclutamiento_mid/internal/helpers"
)

func TestCorrelacionFilter(t *testing.T) {
	t.Run("genera id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ctx := context.NewContext()
		ctx.Reset(rec, httptest.NewRequest(http.MethodGet, "/v1/vistas/tablero", nil))

		CorrelacionFilter(ctx)

		id := rec.Header().Get(internalhelpers.HeaderCorrelacion)
		if id == "" {
			t.Fatalf("expected generated correlation id")
		}
		if got := ctx.Input.Header(internalhelpers.HeaderCorrelacion); got != id {
			t.Fatalf("request header should carry the generated id, got %q", got)
		}
	})

	t.Run("reutiliza id entrante", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/vistas/tablero", nil)
		req.Header.Set(internalhelpers.HeaderCorrelacion, "abc-123")
		ctx := context.NewContext()
		ctx.Reset(rec, req)

		CorrelacionFilter(ctx)

		if got := rec.Header().Get(internalhelpers.HeaderCorrelacion); got != "abc-123" {
			t.Fatalf("expected incoming id echoed, got %q", got)
		}
	})
}
