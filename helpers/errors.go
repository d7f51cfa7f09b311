package helpers

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinelas de la taxonomía de errores del pipeline; se comparan con errors.Is.
var (
	ErrProcesoNoEncontrado = errors.New("proceso no encontrado")
	ErrTransicionInvalida  = errors.New("transición inválida")
	ErrValidacion          = errors.New("validación fallida")
	ErrPersistencia        = errors.New("fallo de persistencia")
	ErrBackend             = errors.New("backend no disponible")
)

// AppError representa un error controlado con código HTTP y mensaje funcional.
type AppError struct {
	Status  int
	Message string
	Err     error
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap permite extraer el error original cuando exista.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Reintentable indica si el usuario puede reintentar la misma operación.
func (e *AppError) Reintentable() bool {
	if e == nil {
		return false
	}
	return errors.Is(e, ErrPersistencia) || errors.Is(e, ErrBackend)
}

// NewAppError construye un AppError con mensaje y status.
func NewAppError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

// AsAppError convierte cualquier error en AppError con status 500 por defecto.
func AsAppError(err error, defaultMessage string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	msg := defaultMessage
	if msg == "" {
		msg = "error inesperado"
	}
	return &AppError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// NoEncontrado: la resolución agotó todas las vacantes sin coincidencia.
func NoEncontrado(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrProcesoNoEncontrado)
}

// TransicionInvalida: la máquina de etapas rechazó la acción.
func TransicionInvalida(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrTransicionInvalida)
}

// Validacion: el payload no trae los campos requeridos.
func Validacion(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidacion)
}

// Persistencia: la escritura en el backend falló después de validar.
func Persistencia(message string, cause error) *AppError {
	return NewAppError(http.StatusBadGateway, message, fmt.Errorf("%w: %w", ErrPersistencia, cause))
}

// Backend: una lectura imprescindible no pudo completarse.
func Backend(message string, cause error) *AppError {
	return NewAppError(http.StatusBadGateway, message, fmt.Errorf("%w: %w", ErrBackend, cause))
}
