package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udistrital/reclutamiento_mid/helpers"
	internaldto "github.com/udistrital/reclutamiento_mid/internal/dto"
	internalservices "github.com/udistrital/reclutamiento_mid/internal/services"
)

var procesoCmd = &cobra.Command{
	Use:   "proceso <postulante>",
	Short: "Resuelve el proceso de selección activo de un postulante",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postulanteID, err := parseID(args[0])
		if err != nil {
			return err
		}
		vacanteID, err := vacanteFlag(cmd)
		if err != nil {
			return err
		}
		deps, err := cargarDependencias()
		if err != nil {
			return err
		}
		proceso, err := deps.resolver.Resolver(cmd.Context(), postulanteID, internalservices.OpcionesResolucion{VacanteID: vacanteID})
		if err != nil {
			return err
		}
		return imprimir(cmd.OutOrStdout(), internalservices.DescribirProceso(proceso))
	},
}

var candidatosCmd = &cobra.Command{
	Use:   "candidatos",
	Short: "Lista los postulantes con su etapa",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		filtro, err := filtroFlags(cmd)
		if err != nil {
			return err
		}
		deps, err := cargarDependencias()
		if err != nil {
			return err
		}
		vista, err := deps.vistas.ConstruirListaCandidatos(cmd.Context(), true)
		if err != nil {
			return err
		}
		vista = vista.Filtrar(filtro)
		if vista.Parcial {
			fmt.Fprintln(cmd.ErrOrStderr(), "resultado parcial:", len(vista.Diagnosticos), "fuentes sin respuesta")
		}
		return imprimir(cmd.OutOrStdout(), vista)
	},
}

var tableroCmd = &cobra.Command{
	Use:   "tablero",
	Short: "Agrupa los procesos por etapa",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		vacanteID, err := vacanteFlag(cmd)
		if err != nil {
			return err
		}
		deps, err := cargarDependencias()
		if err != nil {
			return err
		}
		vista, err := deps.vistas.ConstruirTablero(cmd.Context(), vacanteID, true)
		if err != nil {
			return err
		}
		if vista.Parcial {
			fmt.Fprintln(cmd.ErrOrStderr(), "resultado parcial:", len(vista.Diagnosticos), "fuentes sin respuesta")
		}
		return imprimir(cmd.OutOrStdout(), vista)
	},
}

var accionCmd = &cobra.Command{
	Use:   "accion <postulante> <accion>",
	Short: "Ejecuta una acción del revisor (CALIFICAR, AVANZAR, RECHAZAR, ...)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		postulanteID, err := parseID(args[0])
		if err != nil {
			return err
		}
		vacanteID, err := vacanteFlag(cmd)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		req := internaldto.AccionRequest{Accion: args[1], VacanteID: vacanteID}
		req.Destino, _ = f.GetString("destino")
		req.Resultado, _ = f.GetString("resultado")
		req.Motivo, _ = f.GetString("motivo")
		req.Observaciones, _ = f.GetString("observaciones")
		if f.Changed("calificacion") {
			c, _ := f.GetFloat64("calificacion")
			req.Calificacion = &c
		}
		if f.Changed("fecha") || f.Changed("hora") {
			e := &internaldto.DetalleEntrevista{}
			e.Fecha, _ = f.GetString("fecha")
			e.Hora, _ = f.GetString("hora")
			e.Lugar, _ = f.GetString("lugar")
			e.Entrevistador, _ = f.GetString("entrevistador")
			e.Observaciones = req.Observaciones
			req.Entrevista = e
		}
		if f.Changed("salario") {
			o := &internaldto.DetalleOferta{}
			o.SalarioOfrecido, _ = f.GetFloat64("salario")
			o.FechaInicio, _ = f.GetString("fecha-inicio")
			o.Condiciones, _ = f.GetString("condiciones")
			req.Oferta = o
		}
		reclutadorID, _ := f.GetInt64("reclutador")

		deps, err := cargarDependencias()
		if err != nil {
			return err
		}
		res, err := deps.orquestador.Ejecutar(cmd.Context(), postulanteID, req.Accion, internalservices.PayloadDesdeRequest(req, reclutadorID))
		if err != nil {
			return err
		}
		return imprimir(cmd.OutOrStdout(), res)
	},
}

func init() {
	procesoCmd.Flags().Int64("vacante", 0, "limita la búsqueda a una vacante")
	tableroCmd.Flags().Int64("vacante", 0, "muestra solo una vacante")

	cf := candidatosCmd.Flags()
	cf.String("buscar", "", "texto a buscar en nombre, email o vacante")
	cf.String("etapa", "", "etapa (código o etiqueta)")
	cf.Int64("vacante", 0, "solo postulantes de la vacante")
	cf.String("puesto", "", "nombre exacto de la vacante")

	f := accionCmd.Flags()
	f.Int64("vacante", 0, "vacante del proceso cuando el postulante tiene varios")
	f.String("destino", "", "etapa destino (código o etiqueta)")
	f.String("resultado", "", "APROBADO o REPROBADO")
	f.Float64("calificacion", 0, "calificación entre 0 y 5")
	f.String("motivo", "", "motivo de rechazo")
	f.String("observaciones", "", "notas del revisor")
	f.String("fecha", "", "fecha de la entrevista (YYYY-MM-DD)")
	f.String("hora", "", "hora de la entrevista (HH:MM)")
	f.String("lugar", "", "lugar de la entrevista")
	f.String("entrevistador", "", "entrevistador asignado")
	f.Float64("salario", 0, "salario ofrecido")
	f.String("fecha-inicio", "", "fecha de inicio de la oferta")
	f.String("condiciones", "", "condiciones de la oferta")
	f.Int64("reclutador", 0, "id del reclutador que ejecuta la acción")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, helpers.Validacion(fmt.Sprintf("id inválido %q", raw))
	}
	return id, nil
}

func vacanteFlag(cmd *cobra.Command) (*int64, error) {
	if !cmd.Flags().Changed("vacante") {
		return nil, nil
	}
	id, _ := cmd.Flags().GetInt64("vacante")
	if id <= 0 {
		return nil, helpers.Validacion("--vacante debe ser positivo")
	}
	return &id, nil
}

func filtroFlags(cmd *cobra.Command) (internalservices.FiltroCandidatos, error) {
	vacanteID, err := vacanteFlag(cmd)
	if err != nil {
		return internalservices.FiltroCandidatos{}, err
	}
	f := cmd.Flags()
	filtro := internalservices.FiltroCandidatos{VacanteID: vacanteID}
	filtro.Buscar, _ = f.GetString("buscar")
	filtro.Puesto, _ = f.GetString("puesto")
	if raw, _ := f.GetString("etapa"); strings.TrimSpace(raw) != "" {
		etapa, ok := internalservices.EtapaDesdeEtiqueta(raw)
		if !ok {
			return internalservices.FiltroCandidatos{}, helpers.Validacion(fmt.Sprintf("etapa desconocida %q", raw))
		}
		filtro.Etapa = etapa
	}
	return filtro, nil
}

func imprimir(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
