package dto

import (
	"github.com/udistrital/reclutamiento_mid/models/requestresponse"
)

// APIResponseDTO reutiliza el DTO estándar expuesto por requestresponse.
type APIResponseDTO = requestresponse.APIResponseDTO

// PageDTO describe la página devuelta de una colección.
type PageDTO struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// AccionRequest es el cuerpo de POST /v1/postulantes/:id/acciones.
type AccionRequest struct {
	Accion        string             `json:"accion"`
	VacanteID     *int64             `json:"vacante_id,omitempty"`
	Destino       string             `json:"destino,omitempty"`
	Resultado     string             `json:"resultado,omitempty"`
	Calificacion  *float64           `json:"calificacion,omitempty"`
	Motivo        string             `json:"motivo,omitempty"`
	Observaciones string             `json:"observaciones,omitempty"`
	Entrevista    *DetalleEntrevista `json:"entrevista,omitempty"`
	Oferta        *DetalleOferta     `json:"oferta,omitempty"`
}

// DetalleEntrevista describe la entrevista a programar.
type DetalleEntrevista struct {
	Fecha         string `json:"fecha"`
	Hora          string `json:"hora"`
	Lugar         string `json:"lugar,omitempty"`
	Entrevistador string `json:"entrevistador,omitempty"`
	Observaciones string `json:"observaciones,omitempty"`
}

// DetalleOferta describe la oferta laboral a emitir.
type DetalleOferta struct {
	SalarioOfrecido float64 `json:"salario_ofrecido"`
	Condiciones     string  `json:"condiciones,omitempty"`
	FechaInicio     string  `json:"fecha_inicio,omitempty"`
	Beneficios      string  `json:"beneficios,omitempty"`
	Horario         string  `json:"horario,omitempty"`
}
