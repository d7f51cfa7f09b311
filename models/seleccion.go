package models

import "time"

// Habilidad es una habilidad declarada por el postulante.
type Habilidad struct {
	Id     int64  `json:"id" mapstructure:"id"`
	Nombre string `json:"nombre" mapstructure:"nombre"`
	Tipo   string `json:"tipo" mapstructure:"tipo"`
}

// Postulante representa a la persona que aplicó. El MID nunca lo modifica.
type Postulante struct {
	Id                    int64            `json:"id" mapstructure:"id"`
	Nombres               string           `json:"nombres" mapstructure:"nombres"`
	ApellidoPaterno       string           `json:"apellido_paterno" mapstructure:"apellido_paterno"`
	ApellidoMaterno       string           `json:"apellido_materno" mapstructure:"apellido_materno"`
	Email                 string           `json:"email" mapstructure:"email"`
	Telefono              string           `json:"telefono" mapstructure:"telefono"`
	Direccion             string           `json:"direccion,omitempty" mapstructure:"direccion"`
	FechaNacimiento       time.Time        `json:"fecha_nacimiento,omitzero" mapstructure:"fecha_nacimiento"`
	Genero                string           `json:"genero,omitempty" mapstructure:"genero"`
	EstadoCivil           string           `json:"estado_civil,omitempty" mapstructure:"estado_civil"`
	Habilidades           []Habilidad      `json:"habilidades" mapstructure:"-"`
	Experiencias          []map[string]any `json:"experiencias,omitempty" mapstructure:"experiencias"`
	FormacionesAcademicas []map[string]any `json:"formaciones_academicas,omitempty" mapstructure:"formaciones_academicas"`
}

// NombreCompleto concatena nombres y apellidos.
func (p Postulante) NombreCompleto() string {
	nombre := p.Nombres
	for _, parte := range []string{p.ApellidoPaterno, p.ApellidoMaterno} {
		if parte == "" {
			continue
		}
		if nombre != "" {
			nombre += " "
		}
		nombre += parte
	}
	return nombre
}

// Vacante es una requisición abierta por reclutamiento.
type Vacante struct {
	Id           int64         `json:"id" mapstructure:"id"`
	Nombre       string        `json:"nombre" mapstructure:"nombre"`
	Departamento string        `json:"departamento" mapstructure:"departamento"`
	Estado       EstadoVacante `json:"estado" mapstructure:"estado"`
}

// Abierta indica si la vacante admite consultas de roster.
func (v Vacante) Abierta() bool {
	return v.Estado == VacanteAbierta
}

// ProcesoSeleccion enlaza un postulante con una vacante durante un ciclo de contratación.
type ProcesoSeleccion struct {
	Id                 int64         `json:"id" mapstructure:"id"`
	ProcesoActualId    int64         `json:"proceso_actual_id" mapstructure:"proceso_actual_id"`
	PostulanteId       int64         `json:"postulante_id" mapstructure:"postulante_id"`
	VacanteId          int64         `json:"vacante_id" mapstructure:"vacante_id"`
	Etapa              Etapa         `json:"etapa" mapstructure:"etapa"`
	Calificacion       *float64      `json:"calificacion" mapstructure:"calificacion"`
	Estado             EstadoProceso `json:"estado" mapstructure:"estado"`
	MotivoRechazo      string        `json:"motivo_rechazo,omitempty" mapstructure:"motivo_rechazo"`
	FechaActualizacion time.Time     `json:"fecha_actualizacion,omitzero" mapstructure:"fecha_actualizacion"`
	Postulante         *Postulante   `json:"postulante,omitempty" mapstructure:"-"`
}

// EtapaEfectiva combina etapa y estado: un proceso descartado está RECHAZADO.
func (p ProcesoSeleccion) EtapaEfectiva() Etapa {
	switch p.Estado {
	case EstadoDescartado:
		return EtapaRechazado
	case EstadoContratado:
		return EtapaContratacion
	}
	if p.Etapa == "" {
		return EtapaRevisionCV
	}
	return p.Etapa
}

// EntradaRoster es una fila del roster de candidatos de una vacante.
type EntradaRoster = ProcesoSeleccion

// Entrevista es el artefacto creado por el colaborador de agenda.
type Entrevista struct {
	Id            int64  `json:"id" mapstructure:"id"`
	ProcesoId     int64  `json:"proceso_id" mapstructure:"proceso_id"`
	Fecha         string `json:"fecha" mapstructure:"fecha"`
	Hora          string `json:"hora" mapstructure:"hora"`
	Lugar         string `json:"lugar,omitempty" mapstructure:"lugar"`
	Entrevistador string `json:"entrevistador,omitempty" mapstructure:"entrevistador"`
	Estado        string `json:"estado,omitempty" mapstructure:"estado"`
}

// Oferta es el artefacto creado por el colaborador de ofertas laborales.
type Oferta struct {
	Id              int64   `json:"id" mapstructure:"id"`
	VacanteId       int64   `json:"vacante_id" mapstructure:"vacante_id"`
	PostulanteId    int64   `json:"postulante_id" mapstructure:"postulante_id"`
	SalarioOfrecido float64 `json:"salario_ofrecido" mapstructure:"salario_ofrecido"`
	FechaInicio     string  `json:"fecha_inicio,omitempty" mapstructure:"fecha_inicio"`
	Estado          string  `json:"estado,omitempty" mapstructure:"estado"`
}
