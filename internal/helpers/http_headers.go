package helpers

import (
	stdctx "context"
	"strings"

	"github.com/beego/beego/v2/server/web/context"
)

const (
	HeaderCorrelacion = "X-Correlation-Id"
	headersCtxKey     = ctxKey("reclutamiento_mid_headers")
)

type ctxKey string

// copyRequestHeaders extrae del request entrante las cabeceras que se propagan al backend.
func copyRequestHeaders(ctx *context.Context) map[string]string {
	headers := make(map[string]string)
	if ctx == nil || ctx.Input == nil {
		return headers
	}
	if auth := strings.TrimSpace(ctx.Input.Header("Authorization")); auth != "" {
		headers["Authorization"] = auth
	}
	if corr := strings.TrimSpace(ctx.Input.Header("X-Request-Id")); corr != "" {
		headers["X-Request-Id"] = corr
	}
	if corr := strings.TrimSpace(ctx.Input.Header(HeaderCorrelacion)); corr != "" {
		headers[HeaderCorrelacion] = corr
	}
	return headers
}

// RequestContext devuelve el context.Context del request con las cabeceras a propagar.
func RequestContext(ctx *context.Context) stdctx.Context {
	base := stdctx.Background()
	if ctx != nil && ctx.Request != nil {
		base = ctx.Request.Context()
	}
	return ConHeaders(base, copyRequestHeaders(ctx))
}

// ConHeaders adjunta cabeceras salientes al contexto.
func ConHeaders(ctx stdctx.Context, headers map[string]string) stdctx.Context {
	if len(headers) == 0 {
		return ctx
	}
	merged := HeadersDesde(ctx)
	for k, v := range headers {
		merged[k] = v
	}
	return stdctx.WithValue(ctx, headersCtxKey, merged)
}

// HeadersDesde devuelve una copia de las cabeceras salientes guardadas en el contexto.
func HeadersDesde(ctx stdctx.Context) map[string]string {
	out := make(map[string]string)
	if ctx == nil {
		return out
	}
	if stored, ok := ctx.Value(headersCtxKey).(map[string]string); ok {
		for k, v := range stored {
			out[k] = v
		}
	}
	return out
}
