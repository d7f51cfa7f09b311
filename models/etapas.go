package models

import "strings"

// Etapa es la etapa del proceso de selección según el enum etapaActual del backend.
type Etapa string

const (
	EtapaRevisionCV   Etapa = "REVISION_CV"
	EtapaEntrevista   Etapa = "ENTREVISTA"
	EtapaPrueba       Etapa = "PRUEBA"
	EtapaOferta       Etapa = "OFERTA"
	EtapaContratacion Etapa = "CONTRATACION"
	// EtapaRechazado no existe en el backend: se deriva de Estado == DESCARTADO.
	EtapaRechazado Etapa = "RECHAZADO"
)

// EtapasTablero fija el orden de columnas del tablero.
var EtapasTablero = []Etapa{
	EtapaRevisionCV,
	EtapaEntrevista,
	EtapaPrueba,
	EtapaOferta,
	EtapaContratacion,
	EtapaRechazado,
}

var secuenciaEtapas = []Etapa{
	EtapaRevisionCV,
	EtapaEntrevista,
	EtapaPrueba,
	EtapaOferta,
	EtapaContratacion,
}

// Terminal indica si la etapa ya no admite cambios.
func (e Etapa) Terminal() bool {
	return e == EtapaContratacion || e == EtapaRechazado
}

// Valida indica si la etapa pertenece al conjunto cerrado.
func (e Etapa) Valida() bool {
	for _, etapa := range EtapasTablero {
		if etapa == e {
			return true
		}
	}
	return false
}

// Siguiente devuelve la etapa inmediata en la secuencia ordenada.
func (e Etapa) Siguiente() (Etapa, bool) {
	for i, etapa := range secuenciaEtapas {
		if etapa == e && i+1 < len(secuenciaEtapas) {
			return secuenciaEtapas[i+1], true
		}
	}
	return "", false
}

// ParseEtapa normaliza el código recibido; vacío equivale a REVISION_CV.
func ParseEtapa(raw string) (Etapa, bool) {
	code := Etapa(strings.ToUpper(strings.TrimSpace(raw)))
	if code == "" {
		return EtapaRevisionCV, true
	}
	if code == "REJECTED" || code == "DESCARTADO" {
		return EtapaRechazado, true
	}
	if code.Valida() {
		return code, true
	}
	return code, false
}

// EstadoProceso es el estado global de la vinculación postulante-vacante.
type EstadoProceso string

const (
	EstadoActivo     EstadoProceso = "ACTIVO"
	EstadoDescartado EstadoProceso = "DESCARTADO"
	EstadoContratado EstadoProceso = "CONTRATADO"
)

// EstadoVacante resume el estado de la requisición.
type EstadoVacante string

const (
	VacanteAbierta  EstadoVacante = "ABIERTA"
	VacanteCerrada  EstadoVacante = "CERRADA"
	VacantePausada  EstadoVacante = "PAUSADA"
	VacanteBorrador EstadoVacante = "BORRADOR"
)

// Alias conservados para los distintos nombres que usa el backend.
var aliasEstadoVacante = map[string]EstadoVacante{
	"ABIERTA":   VacanteAbierta,
	"PUBLICADA": VacanteAbierta,
	"ACTIVA":    VacanteAbierta,
	"OPEN":      VacanteAbierta,
	"CERRADA":   VacanteCerrada,
	"CLOSED":    VacanteCerrada,
	"PAUSADA":   VacantePausada,
	"PAUSED":    VacantePausada,
	"BORRADOR":  VacanteBorrador,
	"DRAFT":     VacanteBorrador,
}

// ParseEstadoVacante colapsa los sinónimos conocidos al estado canónico.
func ParseEstadoVacante(raw string) EstadoVacante {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if estado, ok := aliasEstadoVacante[code]; ok {
		return estado
	}
	return EstadoVacante(code)
}
