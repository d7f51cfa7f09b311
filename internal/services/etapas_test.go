package services

import (
	"errors"
	"testing"

	"github.com/udistrital/reclutamiento_mid/helpers"
	"github.com/udistrital/reclutamiento_mid/models"
)

func TestDecidir(t *testing.T) {
	cases := []struct {
		name      string
		in        Entrada
		want      models.Etapa
		rechazo   bool
		cambia    bool
		sinCambio bool
		err       error
	}{
		{name: "revision sin calificar", in: Entrada{Etapa: models.EtapaRevisionCV, Accion: AccionAvanzar}, err: helpers.ErrTransicionInvalida},
		{name: "revision con 3 avanza", in: Entrada{Etapa: models.EtapaRevisionCV, Calificacion: ptr(3.0), Accion: AccionAvanzar}, want: models.EtapaEntrevista, cambia: true},
		{name: "revision con 2.9 no avanza", in: Entrada{Etapa: models.EtapaRevisionCV, Calificacion: ptr(2.9), Accion: AccionAvanzar}, err: helpers.ErrTransicionInvalida},
		{name: "no se salta etapas aunque tenga 5", in: Entrada{Etapa: models.EtapaRevisionCV, Calificacion: ptr(5.0), Accion: AccionAvanzar, Destino: models.EtapaOferta}, err: helpers.ErrTransicionInvalida},
		{name: "destino igual a la actual", in: Entrada{Etapa: models.EtapaPrueba, Accion: AccionAvanzar, Destino: models.EtapaPrueba}, want: models.EtapaPrueba, sinCambio: true},
		{name: "destino inmediato respeta guardas", in: Entrada{Etapa: models.EtapaEntrevista, Accion: AccionAvanzar, Destino: models.EtapaPrueba}, err: helpers.ErrTransicionInvalida},
		{name: "entrevista aprobada", in: Entrada{Etapa: models.EtapaEntrevista, Accion: AccionAvanzar, Resultado: ResultadoAprobado}, want: models.EtapaPrueba, cambia: true},
		{name: "entrevista reprobada", in: Entrada{Etapa: models.EtapaEntrevista, Accion: AccionAvanzar, Resultado: ResultadoReprobado}, want: models.EtapaRechazado, cambia: true, rechazo: true},
		{name: "entrevista pendiente", in: Entrada{Etapa: models.EtapaEntrevista, Accion: AccionAvanzar}, err: helpers.ErrTransicionInvalida},
		{name: "prueba aprobada", in: Entrada{Etapa: models.EtapaPrueba, Accion: AccionAvanzar, Resultado: ResultadoAprobado}, want: models.EtapaOferta, cambia: true},
		{name: "prueba reprobada", in: Entrada{Etapa: models.EtapaPrueba, Accion: AccionAvanzar, Resultado: ResultadoReprobado}, want: models.EtapaRechazado, cambia: true, rechazo: true},
		{name: "oferta aceptada", in: Entrada{Etapa: models.EtapaOferta, Accion: AccionAvanzar, Resultado: ResultadoAprobado}, want: models.EtapaContratacion, cambia: true},
		{name: "cierre con oferta declinada", in: Entrada{Etapa: models.EtapaOferta, Accion: AccionCerrarContratacion, Resultado: ResultadoReprobado}, want: models.EtapaRechazado, cambia: true, rechazo: true},
		{name: "cierre con oferta pendiente", in: Entrada{Etapa: models.EtapaOferta, Accion: AccionCerrarContratacion}, err: helpers.ErrTransicionInvalida},
		{name: "cierre fuera de oferta", in: Entrada{Etapa: models.EtapaEntrevista, Accion: AccionCerrarContratacion, Resultado: ResultadoAprobado}, err: helpers.ErrTransicionInvalida},
		{name: "rechazo desde prueba", in: Entrada{Etapa: models.EtapaPrueba, Accion: AccionRechazar}, want: models.EtapaRechazado, cambia: true, rechazo: true},
		{name: "rechazo desde revision", in: Entrada{Etapa: models.EtapaRevisionCV, Accion: AccionRechazar}, want: models.EtapaRechazado, cambia: true, rechazo: true},
		{name: "contratado es final", in: Entrada{Etapa: models.EtapaContratacion, Accion: AccionAvanzar, Resultado: ResultadoAprobado}, err: helpers.ErrTransicionInvalida},
		{name: "rechazado es final", in: Entrada{Etapa: models.EtapaRechazado, Accion: AccionRechazar}, err: helpers.ErrTransicionInvalida},
		{name: "calificar en final", in: Entrada{Etapa: models.EtapaRechazado, Accion: AccionCalificar}, err: helpers.ErrTransicionInvalida},
		{name: "calificar no mueve", in: Entrada{Etapa: models.EtapaPrueba, Accion: AccionCalificar}, want: models.EtapaPrueba},
		{name: "entrevista fuera de etapa", in: Entrada{Etapa: models.EtapaRevisionCV, Accion: AccionSolicitarEntrevista}, err: helpers.ErrTransicionInvalida},
		{name: "entrevista en etapa", in: Entrada{Etapa: models.EtapaEntrevista, Accion: AccionSolicitarEntrevista}, want: models.EtapaEntrevista},
		{name: "oferta fuera de etapa", in: Entrada{Etapa: models.EtapaPrueba, Accion: AccionSolicitarOferta}, err: helpers.ErrTransicionInvalida},
		{name: "oferta en etapa", in: Entrada{Etapa: models.EtapaOferta, Accion: AccionSolicitarOferta}, want: models.EtapaOferta},
		{name: "etapa vacía es revision", in: Entrada{Accion: AccionAvanzar, Calificacion: ptr(4.0)}, want: models.EtapaEntrevista, cambia: true},
		{name: "etapa desconocida", in: Entrada{Etapa: "ARCHIVADO", Accion: AccionCalificar}, err: helpers.ErrTransicionInvalida},
		{name: "acción desconocida", in: Entrada{Etapa: models.EtapaPrueba, Accion: "BORRAR"}, err: helpers.ErrValidacion},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decidir(tc.in)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v (decision %+v)", tc.err, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Etapa != tc.want {
				t.Fatalf("expected etapa %s, got %s", tc.want, got.Etapa)
			}
			if got.Rechazo != tc.rechazo || got.CambiaEtapa != tc.cambia || got.SinCambios != tc.sinCambio {
				t.Fatalf("unexpected flags %+v", got)
			}
		})
	}
}

func TestDecidirRechazoTraeMotivo(t *testing.T) {
	got, err := Decidir(Entrada{Etapa: models.EtapaOferta, Accion: AccionAvanzar, Resultado: ResultadoReprobado})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Motivo == "" {
		t.Fatalf("expected a default reason for declined offer")
	}
}

func TestDecidirNoMutaEntrada(t *testing.T) {
	score := 4.0
	in := Entrada{Etapa: models.EtapaRevisionCV, Calificacion: &score, Accion: AccionAvanzar}
	first, _ := Decidir(in)
	second, _ := Decidir(in)
	if first != second {
		t.Fatalf("expected same decision for same input, got %+v and %+v", first, second)
	}
	if score != 4.0 || in.Etapa != models.EtapaRevisionCV {
		t.Fatalf("input was modified")
	}
}

func TestEsReintento(t *testing.T) {
	cases := []struct {
		etapa     models.Etapa
		accion    Accion
		resultado Resultado
		destino   models.Etapa
		want      bool
	}{
		{models.EtapaRechazado, AccionRechazar, ResultadoPendiente, "", true},
		{models.EtapaPrueba, AccionRechazar, ResultadoPendiente, "", false},
		{models.EtapaContratacion, AccionCerrarContratacion, ResultadoPendiente, "", true},
		{models.EtapaContratacion, AccionCerrarContratacion, ResultadoAprobado, "", true},
		{models.EtapaContratacion, AccionCerrarContratacion, ResultadoReprobado, "", false},
		{models.EtapaRechazado, AccionCerrarContratacion, ResultadoReprobado, "", true},
		{models.EtapaOferta, AccionCerrarContratacion, ResultadoAprobado, "", false},
		{models.EtapaEntrevista, AccionAvanzar, ResultadoPendiente, models.EtapaEntrevista, true},
		{models.EtapaEntrevista, AccionAvanzar, ResultadoPendiente, "", false},
		{models.EtapaEntrevista, AccionAvanzar, ResultadoAprobado, models.EtapaPrueba, false},
		{models.EtapaRechazado, AccionAvanzar, ResultadoReprobado, "", true},
		{models.EtapaContratacion, AccionAvanzar, ResultadoAprobado, "", true},
		{models.EtapaRechazado, AccionAvanzar, ResultadoAprobado, "", false},
		{models.EtapaContratacion, AccionAvanzar, ResultadoPendiente, "", false},
		{models.EtapaRechazado, AccionCalificar, ResultadoPendiente, "", false},
	}
	for _, tc := range cases {
		if got := EsReintento(tc.etapa, tc.accion, tc.resultado, tc.destino); got != tc.want {
			t.Errorf("EsReintento(%s, %s, %q, %q) = %v, want %v", tc.etapa, tc.accion, tc.resultado, tc.destino, got, tc.want)
		}
	}
}

func TestParseAccionYResultado(t *testing.T) {
	if a, ok := ParseAccion(" avanzar "); !ok || a != AccionAvanzar {
		t.Fatalf("expected AVANZAR, got %q %v", a, ok)
	}
	if _, ok := ParseAccion("publicar"); ok {
		t.Fatalf("expected unknown action")
	}
	if r, ok := ParseResultado("aceptada"); !ok || r != ResultadoAprobado {
		t.Fatalf("expected APROBADO, got %q %v", r, ok)
	}
	if r, ok := ParseResultado("declinada"); !ok || r != ResultadoReprobado {
		t.Fatalf("expected REPROBADO, got %q %v", r, ok)
	}
	if _, ok := ParseResultado("quizas"); ok {
		t.Fatalf("expected unknown result")
	}
}
