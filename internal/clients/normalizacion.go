package clients

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/udistrital/reclutamiento_mid/models"
)

// Cada campo canónico acepta las grafías que el backend y sus versiones anteriores usan.
type aliases map[string][]string

var (
	aliasProceso = aliases{
		"id":                  {"idPostulanteProceso", "id_postulante_proceso", "id"},
		"proceso_actual_id":   {"idProcesoActual", "id_proceso_actual", "idProceso", "id_proceso"},
		"postulante_id":       {"idPostulante", "id_postulante", "postulanteId", "postulante.idPostulante", "postulante.id_postulante"},
		"vacante_id":          {"idVacante", "id_vacante", "procesoSeleccion.idVacante", "procesoSeleccion.vacante.idVacante"},
		"etapa":               {"etapaActual", "etapa_actual", "etapa"},
		"calificacion":        {"calificacion", "puntuacion"},
		"estado":              {"estado", "estadoPostulante", "estado_postulante"},
		"motivo_rechazo":      {"motivoRechazo", "motivo_rechazo"},
		"fecha_actualizacion": {"fechaUltimaActualizacion", "fecha_ultima_actualizacion", "fechaActualizacion"},
	}

	aliasPostulante = aliases{
		"id":                     {"idPostulante", "id_postulante", "id"},
		"nombres":                {"nombres", "nombre"},
		"apellido_paterno":       {"apellidoPaterno", "apellido_paterno"},
		"apellido_materno":       {"apellidoMaterno", "apellido_materno"},
		"email":                  {"email", "correo"},
		"telefono":               {"telefono"},
		"direccion":              {"direccion"},
		"fecha_nacimiento":       {"fechaNacimiento", "fecha_nacimiento"},
		"genero":                 {"genero"},
		"estado_civil":           {"estadoCivil", "estado_civil"},
		"experiencias":           {"experiencias"},
		"formaciones_academicas": {"formacionesAcademicas", "formaciones_academicas"},
	}

	aliasHabilidad = aliases{
		"id":     {"idPostulanteHabilidad", "id_postulante_habilidad", "idHabilidad", "id_habilidad", "habilidad.idHabilidad"},
		"nombre": {"nombreHabilidad", "nombre_habilidad", "habilidad.nombreHabilidad", "habilidad.nombre_habilidad", "nombre"},
		"tipo":   {"tipo", "tipoHabilidad", "tipo_habilidad", "habilidad.tipoHabilidad", "habilidad.tipo_habilidad"},
	}

	aliasVacante = aliases{
		"id":           {"idVacante", "id_vacante", "id"},
		"nombre":       {"nombre", "titulo", "nombrePuesto"},
		"departamento": {"departamento"},
		"estado":       {"estado", "estadoVacante", "estado_vacante"},
	}

	aliasEntrevista = aliases{
		"id":            {"idEntrevista", "id_entrevista", "id"},
		"proceso_id":    {"idProceso", "id_proceso"},
		"fecha":         {"fecha"},
		"hora":          {"hora"},
		"lugar":         {"lugar"},
		"entrevistador": {"entrevistador"},
		"estado":        {"estado"},
	}

	aliasOferta = aliases{
		"id":               {"idOferta", "id_oferta", "id"},
		"vacante_id":       {"idVacante", "id_vacante"},
		"postulante_id":    {"idCandidato", "idPostulante", "id_postulante"},
		"salario_ofrecido": {"salarioOfrecido", "salario_ofrecido"},
		"fecha_inicio":     {"fechaInicio", "fecha_inicio"},
		"estado":           {"estado"},
	}
)

// normalizar colapsa los alias reconocidos en el campo canónico; el primero no nulo gana.
func normalizar(raw map[string]any, tabla aliases) map[string]any {
	out := make(map[string]any, len(tabla))
	for canonico, rutas := range tabla {
		for _, ruta := range rutas {
			if v, ok := lookup(raw, ruta); ok && v != nil {
				out[canonico] = v
				break
			}
		}
	}
	return out
}

func lookup(raw map[string]any, ruta string) (any, bool) {
	current := any(raw)
	for _, parte := range strings.Split(ruta, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[parte]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func decodificar(in map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       timeHook,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(in)
}

var timeType = reflect.TypeOf(time.Time{})

// timeHook acepta las representaciones de fecha del backend (ISO local, RFC3339 o [y,m,d]).
func timeHook(_ reflect.Type, t reflect.Type, data any) (any, error) {
	if t != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return parseTimeValue(v), nil
	case []any:
		parts := make([]int, 0, len(v))
		for _, p := range v {
			n, ok := p.(float64)
			if !ok {
				return time.Time{}, nil
			}
			parts = append(parts, int(n))
		}
		for len(parts) < 6 {
			if len(parts) < 3 {
				parts = append(parts, 1)
				continue
			}
			parts = append(parts, 0)
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.UTC), nil
	}
	return data, nil
}

func parseTimeValue(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t
		}
	}
	return time.Time{}
}

func mapProceso(raw map[string]any) (models.ProcesoSeleccion, error) {
	var p models.ProcesoSeleccion
	if err := decodificar(normalizar(raw, aliasProceso), &p); err != nil {
		return p, fmt.Errorf("proceso: %w", err)
	}
	if etapa, ok := models.ParseEtapa(string(p.Etapa)); ok {
		p.Etapa = etapa
	}
	p.Estado = models.EstadoProceso(strings.ToUpper(strings.TrimSpace(string(p.Estado))))
	if p.Estado == "" {
		p.Estado = models.EstadoActivo
	}
	if nested, ok := raw["postulante"].(map[string]any); ok {
		if post, err := mapPostulante(nested); err == nil {
			p.Postulante = &post
			if p.PostulanteId == 0 {
				p.PostulanteId = post.Id
			}
		}
	}
	return p, nil
}

func mapPostulante(raw map[string]any) (models.Postulante, error) {
	var p models.Postulante
	if err := decodificar(normalizar(raw, aliasPostulante), &p); err != nil {
		return p, fmt.Errorf("postulante: %w", err)
	}
	p.Habilidades = []models.Habilidad{}
	if list, ok := raw["habilidades"].([]any); ok {
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			var h models.Habilidad
			if err := decodificar(normalizar(m, aliasHabilidad), &h); err != nil {
				continue
			}
			h.Tipo = strings.ToUpper(strings.TrimSpace(h.Tipo))
			p.Habilidades = append(p.Habilidades, h)
		}
	}
	return p, nil
}

func mapVacante(raw map[string]any) (models.Vacante, error) {
	var v models.Vacante
	if err := decodificar(normalizar(raw, aliasVacante), &v); err != nil {
		return v, fmt.Errorf("vacante: %w", err)
	}
	v.Estado = models.ParseEstadoVacante(string(v.Estado))
	return v, nil
}

func mapEntrevista(raw map[string]any) (models.Entrevista, error) {
	var e models.Entrevista
	if err := decodificar(normalizar(raw, aliasEntrevista), &e); err != nil {
		return e, fmt.Errorf("entrevista: %w", err)
	}
	return e, nil
}

func mapOferta(raw map[string]any) (models.Oferta, error) {
	var o models.Oferta
	if err := decodificar(normalizar(raw, aliasOferta), &o); err != nil {
		return o, fmt.Errorf("oferta: %w", err)
	}
	return o, nil
}
