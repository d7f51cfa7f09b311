package services

import (
	"fmt"
	"strings"

	"github.com/udistrital/reclutamiento_mid/helpers"
	"github.com/udistrital/reclutamiento_mid/models"
)

// Accion es una decisión del revisor sobre un proceso.
type Accion string

const (
	AccionCalificar           Accion = "CALIFICAR"
	AccionAvanzar             Accion = "AVANZAR"
	AccionRechazar            Accion = "RECHAZAR"
	AccionSolicitarEntrevista Accion = "SOLICITAR_ENTREVISTA"
	AccionSolicitarOferta     Accion = "SOLICITAR_OFERTA"
	AccionCerrarContratacion  Accion = "CERRAR_CONTRATACION"
)

var acciones = map[Accion]struct{}{
	AccionCalificar:           {},
	AccionAvanzar:             {},
	AccionRechazar:            {},
	AccionSolicitarEntrevista: {},
	AccionSolicitarOferta:     {},
	AccionCerrarContratacion:  {},
}

// ParseAccion normaliza el nombre recibido del cliente.
func ParseAccion(raw string) (Accion, bool) {
	a := Accion(strings.ToUpper(strings.TrimSpace(raw)))
	_, ok := acciones[a]
	return a, ok
}

// Resultado es el desenlace de una entrevista, prueba u oferta. Vacío significa pendiente.
type Resultado string

const (
	ResultadoPendiente Resultado = ""
	ResultadoAprobado  Resultado = "APROBADO"
	ResultadoReprobado Resultado = "REPROBADO"
)

// ParseResultado acepta los sinónimos usados por la interfaz.
func ParseResultado(raw string) (Resultado, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return ResultadoPendiente, true
	case "APROBADO", "ACEPTADO", "ACEPTADA":
		return ResultadoAprobado, true
	case "REPROBADO", "RECHAZADO", "RECHAZADA", "DECLINADA", "RETIRADA":
		return ResultadoReprobado, true
	}
	return ResultadoPendiente, false
}

// Entrada reúne todo lo que la máquina necesita para decidir.
type Entrada struct {
	Etapa        models.Etapa
	Calificacion *float64
	Accion       Accion
	Resultado    Resultado
	Destino      models.Etapa
}

// Decision es el efecto que debe persistirse.
type Decision struct {
	Etapa       models.Etapa
	CambiaEtapa bool
	Rechazo     bool
	SinCambios  bool
	Motivo      string
}

// CalificacionMinima para pasar de revisión de CV a entrevista.
const CalificacionMinima = 3.0

// Decidir valida la acción contra la etapa efectiva y devuelve la decisión resultante.
func Decidir(in Entrada) (Decision, error) {
	etapa := in.Etapa
	if etapa == "" {
		etapa = models.EtapaRevisionCV
	}
	if !etapa.Valida() {
		return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("etapa desconocida %q", etapa))
	}
	if etapa.Terminal() {
		return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("el proceso está en una etapa final (%s)", etapa))
	}

	switch in.Accion {
	case AccionCalificar:
		return Decision{Etapa: etapa}, nil

	case AccionRechazar:
		return Decision{Etapa: models.EtapaRechazado, CambiaEtapa: true, Rechazo: true}, nil

	case AccionSolicitarEntrevista:
		if etapa != models.EtapaEntrevista {
			return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("solo se agenda entrevista en %s, etapa actual %s", models.EtapaEntrevista, etapa))
		}
		return Decision{Etapa: etapa}, nil

	case AccionSolicitarOferta:
		if etapa != models.EtapaOferta {
			return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("solo se emite oferta en %s, etapa actual %s", models.EtapaOferta, etapa))
		}
		return Decision{Etapa: etapa}, nil

	case AccionCerrarContratacion:
		if etapa != models.EtapaOferta {
			return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("la contratación se cierra desde %s, etapa actual %s", models.EtapaOferta, etapa))
		}
		return decidirOferta(in.Resultado)

	case AccionAvanzar:
		return decidirAvance(etapa, in)
	}
	return Decision{}, helpers.Validacion(fmt.Sprintf("acción desconocida %q", in.Accion))
}

func decidirAvance(etapa models.Etapa, in Entrada) (Decision, error) {
	siguiente, ok := etapa.Siguiente()
	if !ok {
		return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("no hay etapa posterior a %s", etapa))
	}
	if in.Destino != "" {
		if in.Destino == etapa {
			return Decision{Etapa: etapa, SinCambios: true}, nil
		}
		if in.Destino != siguiente {
			return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("no se puede pasar de %s a %s", etapa, in.Destino))
		}
	}

	switch etapa {
	case models.EtapaRevisionCV:
		if in.Calificacion == nil {
			return Decision{}, helpers.TransicionInvalida("el postulante aún no ha sido evaluado")
		}
		if *in.Calificacion < CalificacionMinima {
			return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("calificación %.1f inferior a %.1f: solo procede el rechazo", *in.Calificacion, CalificacionMinima))
		}
		return Decision{Etapa: siguiente, CambiaEtapa: true}, nil

	case models.EtapaEntrevista, models.EtapaPrueba:
		switch in.Resultado {
		case ResultadoAprobado:
			return Decision{Etapa: siguiente, CambiaEtapa: true}, nil
		case ResultadoReprobado:
			motivo := "no aprobó la entrevista"
			if etapa == models.EtapaPrueba {
				motivo = "no aprobó la prueba técnica"
			}
			return Decision{Etapa: models.EtapaRechazado, CambiaEtapa: true, Rechazo: true, Motivo: motivo}, nil
		}
		return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("el resultado de %s está pendiente", etapa))

	case models.EtapaOferta:
		return decidirOferta(in.Resultado)
	}
	return Decision{}, helpers.TransicionInvalida(fmt.Sprintf("no se puede avanzar desde %s", etapa))
}

func decidirOferta(resultado Resultado) (Decision, error) {
	switch resultado {
	case ResultadoAprobado:
		return Decision{Etapa: models.EtapaContratacion, CambiaEtapa: true}, nil
	case ResultadoReprobado:
		return Decision{Etapa: models.EtapaRechazado, CambiaEtapa: true, Rechazo: true, Motivo: "oferta declinada"}, nil
	}
	return Decision{}, helpers.TransicionInvalida("la oferta no ha sido respondida")
}

// EsReintento indica que la acción ya produjo su efecto: la etapa actual es el destino que tendría.
func EsReintento(etapa models.Etapa, accion Accion, resultado Resultado, destino models.Etapa) bool {
	switch accion {
	case AccionRechazar:
		return etapa == models.EtapaRechazado
	case AccionCerrarContratacion:
		if resultado == ResultadoPendiente {
			return etapa == models.EtapaContratacion
		}
		return desenlaceAplicado(etapa, resultado)
	case AccionAvanzar:
		if destino != "" {
			return destino == etapa
		}
		return desenlaceAplicado(etapa, resultado)
	}
	return false
}

// desenlaceAplicado: un resultado que lleva a una etapa final ya está aplicado si el proceso quedó en ella.
func desenlaceAplicado(etapa models.Etapa, resultado Resultado) bool {
	switch resultado {
	case ResultadoAprobado:
		return etapa == models.EtapaContratacion
	case ResultadoReprobado:
		return etapa == models.EtapaRechazado
	}
	return false
}
