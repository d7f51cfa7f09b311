package helpers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/beego/beego/v2/server/web/context"
)

const (
	ctxClaimsKey    = "__reclutamiento_mid_jwt_claims"
	ctxAuthErrorKey = "__reclutamiento_mid_auth_error"
)

var (
	// ErrNoAuthHeader se devuelve cuando no se encuentra el header Authorization.
	ErrNoAuthHeader = errors.New("authorization header missing")
	// ErrInvalidToken se devuelve cuando el formato del token no es un JWT válido.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrClaimNotFound indica que el claim requerido no está presente.
	ErrClaimNotFound = errors.New("claim not found")
)

// Claims obtiene y almacena en caché los claims del JWT presente en Authorization.
func Claims(ctx *context.Context) (map[string]interface{}, error) {
	if cached := ctx.Input.GetData(ctxClaimsKey); cached != nil {
		if claims, ok := cached.(map[string]interface{}); ok {
			return claims, nil
		}
	}

	token, err := extractBearer(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := decodeClaims(token)
	if err != nil {
		return nil, err
	}
	ctx.Input.SetData(ctxClaimsKey, claims)
	return claims, nil
}

// MarcarErrorAutenticacion deja constancia de un token no interpretable para los handlers que escriben.
func MarcarErrorAutenticacion(ctx *context.Context, err error) {
	ctx.Input.SetData(ctxAuthErrorKey, err)
}

// ErrorAutenticacion devuelve el error marcado por el filtro de autenticación, o nil.
func ErrorAutenticacion(ctx *context.Context) error {
	if err, ok := ctx.Input.GetData(ctxAuthErrorKey).(error); ok {
		return err
	}
	return nil
}

// GetReclutadorID retorna el claim reclutador_id; 0 cuando no hay token o no trae el claim.
func GetReclutadorID(ctx *context.Context) (int64, error) {
	id, err := getIntClaim(ctx, "reclutador_id")
	if errors.Is(err, ErrNoAuthHeader) || errors.Is(err, ErrClaimNotFound) {
		return 0, nil
	}
	return id, err
}

func getIntClaim(ctx *context.Context, key string) (int64, error) {
	claims, err := Claims(ctx)
	if err != nil {
		return 0, err
	}
	value, ok := claims[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrClaimNotFound, key)
	}
	switch v := value.(type) {
	case float64:
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, err
		}
		return n, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, fmt.Errorf("%w: %s", ErrClaimNotFound, key)
		}
		n, err := json.Number(strings.TrimSpace(v)).Int64()
		if err != nil {
			return 0, err
		}
		return n, nil
	default:
		return 0, fmt.Errorf("claim %s is not numeric", key)
	}
}

func extractBearer(ctx *context.Context) (string, error) {
	header := strings.TrimSpace(ctx.Input.Header("Authorization"))
	if header == "" {
		return "", ErrNoAuthHeader
	}

	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(header[7:]), nil
}

func decodeClaims(token string) (map[string]interface{}, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
