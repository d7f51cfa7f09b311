package requestresponse

// APIResponseDTO es el sobre de todas las respuestas del MID de reclutamiento.
// Status repite el código HTTP; Data lleva la vista, el proceso o el detalle del error.
type APIResponseDTO struct {
	Success bool        `json:"Success"`
	Status  int         `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data"`
}

// NewSuccess arma el sobre de una lectura o acción completada.
func NewSuccess(status int, message string, data interface{}) APIResponseDTO {
	if message == "" {
		message = "OK"
	}
	return APIResponseDTO{Success: true, Status: status, Message: message, Data: data}
}

// NewError arma el sobre de un fallo; message es el texto que ve el revisor.
func NewError(status int, message string, data interface{}) APIResponseDTO {
	if message == "" {
		message = "Error"
	}
	return APIResponseDTO{Success: false, Status: status, Message: message, Data: data}
}

// NewErrorReintentable indica en Data que la interfaz puede ofrecer repetir la operación.
func NewErrorReintentable(status int, message string) APIResponseDTO {
	return NewError(status, message, map[string]bool{"reintentable": true})
}
