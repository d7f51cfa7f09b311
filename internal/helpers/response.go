package helpers

import (
	"net/http"

	internaldto "github.com/udistrital/reclutamiento_mid/internal/dto"
	"github.com/udistrital/reclutamiento_mid/models/requestresponse"
)

// Fail construye una respuesta estándar de error.
func Fail(status int, message string) internaldto.APIResponseDTO {
	if status <= 0 {
		status = http.StatusInternalServerError
	}
	return requestresponse.NewError(status, message, nil)
}
