package services

import (
	"strings"

	"github.com/udistrital/reclutamiento_mid/models"
)

var etiquetas = map[models.Etapa]string{
	models.EtapaRevisionCV:   "Nuevo",
	models.EtapaEntrevista:   "En Entrevista",
	models.EtapaPrueba:       "Prueba Técnica",
	models.EtapaOferta:       "Oferta",
	models.EtapaContratacion: "Contratado",
	models.EtapaRechazado:    "Rechazado",
}

// sinonimos incluye etiquetas heredadas que ya no se muestran.
var sinonimos = map[string]models.Etapa{
	"entrevistado":     models.EtapaEntrevista,
	"entrevista final": models.EtapaEntrevista,
	"new":              models.EtapaRevisionCV,
	"in interview":     models.EtapaEntrevista,
	"technical test":   models.EtapaPrueba,
	"offer":            models.EtapaOferta,
	"hired":            models.EtapaContratacion,
	"rejected":         models.EtapaRechazado,
}

// EtiquetaEtapa devuelve la etiqueta visible de una etapa; las desconocidas se muestran tal cual.
func EtiquetaEtapa(e models.Etapa) string {
	if label, ok := etiquetas[e]; ok {
		return label
	}
	return string(e)
}

// EtapaDesdeEtiqueta resuelve una etiqueta visible, un sinónimo o un código de etapa.
func EtapaDesdeEtiqueta(label string) (models.Etapa, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return "", false
	}
	for etapa, l := range etiquetas {
		if strings.ToLower(l) == key {
			return etapa, true
		}
	}
	if etapa, ok := sinonimos[key]; ok {
		return etapa, true
	}
	if etapa := models.Etapa(strings.ToUpper(key)); etapa.Valida() {
		return etapa, true
	}
	return "", false
}
