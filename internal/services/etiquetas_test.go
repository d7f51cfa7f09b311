package services

import (
	"testing"

	"github.com/udistrital/reclutamiento_mid/models"
)

func TestEtiquetaEtapaCubreTodasLasEtapas(t *testing.T) {
	vistas := make(map[string]bool)
	for _, etapa := range models.EtapasTablero {
		label := EtiquetaEtapa(etapa)
		if label == "" || label == string(etapa) {
			t.Fatalf("missing label for %s", etapa)
		}
		if vistas[label] {
			t.Fatalf("duplicated label %q", label)
		}
		vistas[label] = true

		back, ok := EtapaDesdeEtiqueta(label)
		if !ok || back != etapa {
			t.Fatalf("round trip for %s returned %s %v", etapa, back, ok)
		}
	}
}

func TestEtapaDesdeEtiqueta(t *testing.T) {
	cases := map[string]models.Etapa{
		"Entrevistado":     models.EtapaEntrevista,
		"entrevista final": models.EtapaEntrevista,
		"EN ENTREVISTA":    models.EtapaEntrevista,
		"Technical Test":   models.EtapaPrueba,
		"hired":            models.EtapaContratacion,
		"Rejected":         models.EtapaRechazado,
		"nuevo":            models.EtapaRevisionCV,
		"oferta":           models.EtapaOferta,
		"revision_cv":      models.EtapaRevisionCV,
	}
	for label, want := range cases {
		got, ok := EtapaDesdeEtiqueta(label)
		if !ok || got != want {
			t.Errorf("EtapaDesdeEtiqueta(%q) = %s %v, want %s", label, got, ok, want)
		}
	}

	for _, label := range []string{"", "  ", "Archivado"} {
		if got, ok := EtapaDesdeEtiqueta(label); ok {
			t.Errorf("EtapaDesdeEtiqueta(%q) should fail, got %s", label, got)
		}
	}
}

func TestEtiquetaEtapaDesconocida(t *testing.T) {
	if got := EtiquetaEtapa("ARCHIVADO"); got != "ARCHIVADO" {
		t.Fatalf("expected raw code, got %q", got)
	}
}
