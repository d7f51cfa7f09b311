package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	internaldto "github.com/udistrital/reclutamiento_mid/internal/dto"
	internalhelpers "github.com/udistrital/reclutamiento_mid/internal/helpers"
	"github.com/udistrital/reclutamiento_mid/models"
	rootservices "github.com/udistrital/reclutamiento_mid/services"
)

type peticion struct {
	method  string
	path    string
	auth    string
	corr    string
	payload map[string]any
}

type backendFalso struct {
	mu         sync.Mutex
	peticiones []peticion
	respuestas map[string]string
}

func (b *backendFalso) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	p := peticion{
		method: r.Method,
		path:   r.URL.Path,
		auth:   r.Header.Get("Authorization"),
		corr:   r.Header.Get(internalhelpers.HeaderCorrelacion),
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &p.payload)
	}
	b.mu.Lock()
	b.peticiones = append(b.peticiones, p)
	body, ok := b.respuestas[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.Error(w, "no encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func (b *backendFalso) ultima(t *testing.T) peticion {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.peticiones) == 0 {
		t.Fatalf("no requests recorded")
	}
	return b.peticiones[len(b.peticiones)-1]
}

func nuevoCliente(t *testing.T, respuestas map[string]string) (*ReclutamientoClient, *backendFalso) {
	t.Helper()
	backend := &backendFalso{respuestas: respuestas}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	cliente := NewReclutamientoClient(rootservices.Config{
		ReclutamientoBaseURL: srv.URL + "/api",
		BearerToken:          "token-servicio",
		RequestTimeout:       2 * time.Second,
	})
	return cliente, backend
}

func TestListarVacantesAbiertasFiltraEstados(t *testing.T) {
	cliente, _ := nuevoCliente(t, map[string]string{
		"GET /api/vacantes": `{"Success":true,"Status":"200","Message":"ok","Data":[
			{"idVacante":1,"nombre":"Backend","estado":"ABIERTA"},
			{"idVacante":"2","titulo":"Frontend","estadoVacante":"publicada"},
			{"idVacante":3,"nombre":"Datos","estado":"CERRADA"},
			{"nombre":"Sin id","estado":"ABIERTA"}
		]}`,
	})

	vacantes, err := cliente.ListarVacantesAbiertas(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vacantes) != 2 {
		t.Fatalf("expected 2 open vacancies, got %+v", vacantes)
	}
	if vacantes[1].Id != 2 || vacantes[1].Nombre != "Frontend" || vacantes[1].Estado != models.VacanteAbierta {
		t.Fatalf("unexpected alias mapping %+v", vacantes[1])
	}
}

func TestListarRosterNormalizaAlias(t *testing.T) {
	cliente, _ := nuevoCliente(t, map[string]string{
		"GET /api/reclutamiento/vacante/5/candidatos": `[
			{
				"idPostulanteProceso": 50,
				"idProcesoActual": "500",
				"etapaActual": "prueba",
				"puntuacion": 4.5,
				"estado": "activo",
				"fechaUltimaActualizacion": "2024-05-02T10:30:00",
				"postulante": {
					"idPostulante": 7,
					"nombres": "Ana",
					"apellidoPaterno": "Ruiz",
					"correo": "ana@example.com",
					"habilidades": [{"habilidad": {"idHabilidad": 3, "nombreHabilidad": "Go", "tipoHabilidad": "tecnica"}}]
				}
			},
			{"idPostulanteProceso": 51, "idPostulante": 8, "estado": "DESCARTADO", "etapaActual": "ENTREVISTA"},
			{"idPostulante": 9}
		]`,
	})

	roster, err := cliente.ListarRoster(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("rows without process id should be skipped, got %d", len(roster))
	}

	primera := roster[0]
	if primera.Id != 50 || primera.ProcesoActualId != 500 || primera.PostulanteId != 7 || primera.VacanteId != 5 {
		t.Fatalf("unexpected ids %+v", primera)
	}
	if primera.Etapa != models.EtapaPrueba || primera.Calificacion == nil || *primera.Calificacion != 4.5 {
		t.Fatalf("unexpected stage or score %+v", primera)
	}
	if primera.FechaActualizacion.IsZero() {
		t.Fatalf("expected update date to be parsed")
	}
	if primera.Postulante == nil || primera.Postulante.NombreCompleto() != "Ana Ruiz" || primera.Postulante.Email != "ana@example.com" {
		t.Fatalf("unexpected nested postulant %+v", primera.Postulante)
	}
	if h := primera.Postulante.Habilidades; len(h) != 1 || h[0].Nombre != "Go" || h[0].Tipo != "TECNICA" {
		t.Fatalf("unexpected skills %+v", h)
	}

	if roster[1].EtapaEfectiva() != models.EtapaRechazado {
		t.Fatalf("discarded process should be rejected, got %s", roster[1].EtapaEfectiva())
	}
}

func TestListarRosterPropagaError(t *testing.T) {
	cliente, _ := nuevoCliente(t, map[string]string{})

	if _, err := cliente.ListarRoster(context.Background(), 99); err == nil {
		t.Fatalf("expected error for missing roster")
	}
}

func TestCabecerasSalientes(t *testing.T) {
	cliente, backend := nuevoCliente(t, map[string]string{"GET /api/candidatos": `[]`})

	if _, err := cliente.ListarPostulantes(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := backend.ultima(t).auth; got != "Bearer token-servicio" {
		t.Fatalf("expected service token, got %q", got)
	}

	ctx := internalhelpers.ConHeaders(context.Background(), map[string]string{
		"Authorization":                   "Bearer usuario",
		internalhelpers.HeaderCorrelacion: "corr-1",
	})
	if _, err := cliente.ListarPostulantes(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ultima := backend.ultima(t)
	if ultima.auth != "Bearer usuario" || ultima.corr != "corr-1" {
		t.Fatalf("incoming headers should be propagated, got %+v", ultima)
	}
}

func TestEscrituras(t *testing.T) {
	cliente, backend := nuevoCliente(t, map[string]string{
		"PATCH /api/reclutamiento/50/etapa":    `{"idPostulanteProceso":50,"etapaActual":"ENTREVISTA","estado":"ACTIVO"}`,
		"POST /api/reclutamiento/evaluar":      `{}`,
		"PATCH /api/reclutamiento/50/rechazar": ``,
		"POST /api/entrevistas":                `{"idEntrevista":9,"idProceso":500,"fecha":"2024-06-01","hora":"10:00"}`,
		"POST /api/ofertas":                    `{"Success":true,"Data":{"idOferta":4,"idVacante":5,"idCandidato":7,"salarioOfrecido":"3500000"}}`,
	})
	proceso := models.ProcesoSeleccion{Id: 50, ProcesoActualId: 500, PostulanteId: 7, VacanteId: 5, Etapa: models.EtapaRevisionCV}
	ctx := context.Background()

	actualizado, err := cliente.CambiarEtapa(ctx, proceso, models.EtapaEntrevista, Metadatos{ReclutadorID: 12, Notas: " buen perfil "})
	if err != nil {
		t.Fatalf("CambiarEtapa: %v", err)
	}
	if actualizado.Etapa != models.EtapaEntrevista || actualizado.VacanteId != 5 {
		t.Fatalf("unexpected updated process %+v", actualizado)
	}
	p := backend.ultima(t)
	if p.method != http.MethodPatch || p.payload["etapa"] != "ENTREVISTA" || p.payload["idReclutador"] != float64(12) || p.payload["observaciones"] != "buen perfil" {
		t.Fatalf("unexpected stage request %+v", p)
	}

	if err := cliente.RegistrarCalificacion(ctx, proceso, 4, ""); err != nil {
		t.Fatalf("RegistrarCalificacion: %v", err)
	}
	p = backend.ultima(t)
	if p.payload["idCandidato"] != float64(7) || p.payload["idProceso"] != float64(500) || p.payload["calificacion"] != float64(4) {
		t.Fatalf("unexpected score request %+v", p.payload)
	}
	if _, ok := p.payload["observaciones"]; ok {
		t.Fatalf("empty notes should not be sent")
	}

	if err := cliente.RegistrarRechazo(ctx, proceso, "perfil no compatible", Metadatos{}); err != nil {
		t.Fatalf("RegistrarRechazo: %v", err)
	}
	p = backend.ultima(t)
	if p.payload["estado"] != "DESCARTADO" || p.payload["motivo"] != "perfil no compatible" {
		t.Fatalf("unexpected rejection request %+v", p.payload)
	}
	if _, ok := p.payload["idReclutador"]; ok {
		t.Fatalf("anonymous reviewer should not be sent")
	}

	entrevista, err := cliente.SolicitarEntrevista(ctx, proceso, internaldto.DetalleEntrevista{Fecha: "2024-06-01", Hora: "10:00", Lugar: "Sala 2"})
	if err != nil {
		t.Fatalf("SolicitarEntrevista: %v", err)
	}
	if entrevista.Id != 9 || entrevista.ProcesoId != 500 {
		t.Fatalf("unexpected interview %+v", entrevista)
	}

	oferta, err := cliente.SolicitarOferta(ctx, proceso, internaldto.DetalleOferta{SalarioOfrecido: 3500000, FechaInicio: "2024-07-01"})
	if err != nil {
		t.Fatalf("SolicitarOferta: %v", err)
	}
	if oferta.Id != 4 || oferta.SalarioOfrecido != 3500000 {
		t.Fatalf("unexpected offer %+v", oferta)
	}
	p = backend.ultima(t)
	if p.payload["idVacante"] != float64(5) || p.payload["idCandidato"] != float64(7) {
		t.Fatalf("unexpected offer request %+v", p.payload)
	}
}

func TestCambiarEtapaSinCuerpo(t *testing.T) {
	cliente, _ := nuevoCliente(t, map[string]string{"PATCH /api/reclutamiento/50/etapa": ``})
	proceso := models.ProcesoSeleccion{Id: 50, VacanteId: 5, Etapa: models.EtapaPrueba}

	actualizado, err := cliente.CambiarEtapa(context.Background(), proceso, models.EtapaOferta, Metadatos{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actualizado.Id != 50 || actualizado.Etapa != models.EtapaOferta {
		t.Fatalf("expected input copy with new stage, got %+v", actualizado)
	}
	if proceso.Etapa != models.EtapaPrueba {
		t.Fatalf("input process was modified")
	}
}

func TestClienteRespetaCancelacion(t *testing.T) {
	cliente, backend := nuevoCliente(t, map[string]string{"GET /api/vacantes": `[]`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cliente.ListarVacantesAbiertas(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(backend.peticiones) != 0 {
		t.Fatalf("cancelled call should not reach the backend")
	}
}
