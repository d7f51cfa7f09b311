package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/udistrital/reclutamiento_mid/internal/clients"
	internaldto "github.com/udistrital/reclutamiento_mid/internal/dto"
	"github.com/udistrital/reclutamiento_mid/models"
)

var errBackendCaido = errors.New("HTTP 503: servicio no disponible")

type cambioEtapa struct {
	procesoID int64
	etapa     models.Etapa
	meta      clients.Metadatos
}

type calificacion struct {
	procesoID int64
	valor     float64
	notas     string
}

type rechazo struct {
	procesoID int64
	motivo    string
}

type fakeRepo struct {
	mu sync.Mutex

	vacantes       []models.Vacante
	vacantesErr    error
	rosters        map[int64][]models.EntradaRoster
	rosterErr      map[int64]error
	rosterDelay    time.Duration
	bloqueo        chan struct{}
	postulantes    []models.Postulante
	postulantesErr error
	escrituraErr   error

	llamadasRoster map[int64]int
	enVuelo        int
	maxEnVuelo     int

	cambios        []cambioEtapa
	calificaciones []calificacion
	rechazos       []rechazo
	entrevistas    []internaldto.DetalleEntrevista
	ofertas        []internaldto.DetalleOferta
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rosters:        make(map[int64][]models.EntradaRoster),
		rosterErr:      make(map[int64]error),
		llamadasRoster: make(map[int64]int),
	}
}

func (f *fakeRepo) conVacante(id int64, nombre string, entradas ...models.EntradaRoster) *fakeRepo {
	f.vacantes = append(f.vacantes, models.Vacante{Id: id, Nombre: nombre, Estado: models.VacanteAbierta})
	for i := range entradas {
		if entradas[i].VacanteId == 0 {
			entradas[i].VacanteId = id
		}
	}
	f.rosters[id] = entradas
	return f
}

func (f *fakeRepo) ListarVacantesAbiertas(ctx context.Context) ([]models.Vacante, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vacantesErr != nil {
		return nil, f.vacantesErr
	}
	return append([]models.Vacante(nil), f.vacantes...), nil
}

func (f *fakeRepo) ListarRoster(ctx context.Context, vacanteID int64) ([]models.EntradaRoster, error) {
	f.mu.Lock()
	f.llamadasRoster[vacanteID]++
	f.enVuelo++
	if f.enVuelo > f.maxEnVuelo {
		f.maxEnVuelo = f.enVuelo
	}
	bloqueo := f.bloqueo
	delay := f.rosterDelay
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.enVuelo--
		f.mu.Unlock()
	}()

	if bloqueo != nil {
		<-bloqueo
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.rosterErr[vacanteID]; err != nil {
		return nil, err
	}
	return append([]models.EntradaRoster(nil), f.rosters[vacanteID]...), nil
}

func (f *fakeRepo) ListarPostulantes(ctx context.Context) ([]models.Postulante, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postulantesErr != nil {
		return nil, f.postulantesErr
	}
	return append([]models.Postulante(nil), f.postulantes...), nil
}

func (f *fakeRepo) CambiarEtapa(ctx context.Context, proceso models.ProcesoSeleccion, etapa models.Etapa, meta clients.Metadatos) (*models.ProcesoSeleccion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.escrituraErr != nil {
		return nil, f.escrituraErr
	}
	f.cambios = append(f.cambios, cambioEtapa{procesoID: proceso.Id, etapa: etapa, meta: meta})
	f.actualizar(proceso, func(e *models.EntradaRoster) { e.Etapa = etapa })
	proceso.Etapa = etapa
	return &proceso, nil
}

func (f *fakeRepo) RegistrarCalificacion(ctx context.Context, proceso models.ProcesoSeleccion, valor float64, notas string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.escrituraErr != nil {
		return f.escrituraErr
	}
	f.calificaciones = append(f.calificaciones, calificacion{procesoID: proceso.Id, valor: valor, notas: notas})
	f.actualizar(proceso, func(e *models.EntradaRoster) { e.Calificacion = &valor })
	return nil
}

func (f *fakeRepo) RegistrarRechazo(ctx context.Context, proceso models.ProcesoSeleccion, motivo string, meta clients.Metadatos) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.escrituraErr != nil {
		return f.escrituraErr
	}
	f.rechazos = append(f.rechazos, rechazo{procesoID: proceso.Id, motivo: motivo})
	f.actualizar(proceso, func(e *models.EntradaRoster) {
		e.Estado = models.EstadoDescartado
		e.MotivoRechazo = motivo
	})
	return nil
}

func (f *fakeRepo) SolicitarEntrevista(ctx context.Context, proceso models.ProcesoSeleccion, detalle internaldto.DetalleEntrevista) (*models.Entrevista, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.escrituraErr != nil {
		return nil, f.escrituraErr
	}
	f.entrevistas = append(f.entrevistas, detalle)
	return &models.Entrevista{Id: int64(len(f.entrevistas)), ProcesoId: proceso.ProcesoActualId, Fecha: detalle.Fecha, Hora: detalle.Hora}, nil
}

func (f *fakeRepo) SolicitarOferta(ctx context.Context, proceso models.ProcesoSeleccion, detalle internaldto.DetalleOferta) (*models.Oferta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.escrituraErr != nil {
		return nil, f.escrituraErr
	}
	f.ofertas = append(f.ofertas, detalle)
	return &models.Oferta{Id: int64(len(f.ofertas)), VacanteId: proceso.VacanteId, PostulanteId: proceso.PostulanteId, SalarioOfrecido: detalle.SalarioOfrecido}, nil
}

// actualizar refleja la escritura en el roster para que la siguiente lectura la vea. Requiere f.mu.
func (f *fakeRepo) actualizar(proceso models.ProcesoSeleccion, cambio func(*models.EntradaRoster)) {
	roster := f.rosters[proceso.VacanteId]
	for i := range roster {
		if roster[i].Id == proceso.Id {
			cambio(&roster[i])
			return
		}
	}
}

func (f *fakeRepo) escrituras() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cambios) + len(f.calificaciones) + len(f.rechazos) + len(f.entrevistas) + len(f.ofertas)
}

func (f *fakeRepo) totalLlamadasRoster() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.llamadasRoster {
		total += n
	}
	return total
}

func entrada(id, postulanteID int64, etapa models.Etapa) models.EntradaRoster {
	return models.EntradaRoster{Id: id, ProcesoActualId: id * 10, PostulanteId: postulanteID, Etapa: etapa, Estado: models.EstadoActivo}
}

func conCalificacion(e models.EntradaRoster, valor float64) models.EntradaRoster {
	e.Calificacion = &valor
	return e
}

func conEstado(e models.EntradaRoster, estado models.EstadoProceso) models.EntradaRoster {
	e.Estado = estado
	return e
}

func ptr[T any](v T) *T {
	return &v
}
