package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reclutamiento_mid"

var (
	registry = prometheus.NewRegistry()

	rosterFallos = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_fallos_total",
		Help:      "Consultas de roster fallidas, por operación.",
	}, []string{"operacion"})

	agregacionDuracion = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "agregacion_duracion_segundos",
		Help:      "Duración de la construcción de vistas agregadas.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"vista", "parcial"})

	acciones = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "acciones_total",
		Help:      "Acciones del revisor procesadas, por resultado.",
	}, []string{"accion", "resultado"})

	cacheVistas = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_vistas_total",
		Help:      "Consultas al cache de vistas agregadas.",
	}, []string{"vista", "resultado"})
)

func init() {
	registry.MustRegister(
		rosterFallos,
		agregacionDuracion,
		acciones,
		cacheVistas,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler expone el registro en formato Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RosterFallido cuenta un roster que no pudo consultarse.
func RosterFallido(operacion string) {
	rosterFallos.WithLabelValues(operacion).Inc()
}

// ObservarAgregacion registra cuánto tardó una vista.
func ObservarAgregacion(vista string, parcial bool, inicio time.Time) {
	p := "false"
	if parcial {
		p = "true"
	}
	agregacionDuracion.WithLabelValues(vista, p).Observe(time.Since(inicio).Seconds())
}

// Accion cuenta una acción según su desenlace (ok, sin_cambios o la clase de error).
func Accion(accion, resultado string) {
	acciones.WithLabelValues(accion, resultado).Inc()
}

// Cache cuenta aciertos y fallos del cache de vistas.
func Cache(vista string, acierto bool) {
	r := "fallo"
	if acierto {
		r = "acierto"
	}
	cacheVistas.WithLabelValues(vista, r).Inc()
}
