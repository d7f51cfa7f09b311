package main

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/udistrital/reclutamiento_mid/helpers"
	"github.com/udistrital/reclutamiento_mid/internal/clients"
	internalservices "github.com/udistrital/reclutamiento_mid/internal/services"
	rootservices "github.com/udistrital/reclutamiento_mid/services"
)

var rootCmd = &cobra.Command{
	Use:   "seleccion",
	Short: "Consulta y opera el pipeline de selección de candidatos",
	Long: `seleccion habla directamente con el backend de reclutamiento usando las
mismas reglas de etapas que el MID: resolver procesos, armar vistas y
ejecutar acciones del revisor.`,
	SilenceUsage: true,
}

// Execute ejecuta el comando raíz.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("base-url", "", "URL base del backend de reclutamiento")
	rootCmd.PersistentFlags().String("token", "", "token bearer para el backend")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "timeout por petición")
	rootCmd.PersistentFlags().Int("reintentos", 2, "reintentos para lecturas")
	rootCmd.PersistentFlags().Int("concurrencia", 8, "consultas de roster simultáneas")
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("bearer_token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("retry_count", rootCmd.PersistentFlags().Lookup("reintentos"))
	_ = viper.BindPFlag("max_consultas_concurrentes", rootCmd.PersistentFlags().Lookup("concurrencia"))

	rootCmd.AddCommand(procesoCmd, candidatosCmd, tableroCmd, accionCmd)
}

func initConfig() {
	_ = godotenv.Load()

	viper.SetEnvPrefix("RECLUTAMIENTO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

type dependencias struct {
	resolver    *internalservices.ResolverRoster
	vistas      *internalservices.ConstructorVistas
	orquestador *internalservices.Orquestador
}

func cargarDependencias() (*dependencias, error) {
	cfg := rootservices.Config{
		AppName:              "seleccion",
		ReclutamientoBaseURL: strings.TrimSuffix(strings.TrimSpace(viper.GetString("base_url")), "/"),
		BearerToken:          viper.GetString("bearer_token"),
		RequestTimeout:       viper.GetDuration("timeout"),
		RetryCount:           viper.GetInt("retry_count"),
		MaxConcurrencia:      viper.GetInt("max_consultas_concurrentes"),
	}
	if cfg.ReclutamientoBaseURL == "" {
		return nil, errors.New("configure --base-url o RECLUTAMIENTO_BASE_URL")
	}
	if err := cfg.Validar(); err != nil {
		return nil, err
	}
	cfg.Aplicar()

	repo := clients.NewReclutamientoClient(cfg)
	resolver := internalservices.NewResolver(repo)
	vistas := internalservices.NewConstructorVistas(repo, nil, internalservices.OpcionesVistas{
		MaxConcurrencia: cfg.MaxConcurrencia,
		TimeoutConsulta: cfg.RequestTimeout * time.Duration(cfg.RetryCount+1),
	})
	return &dependencias{
		resolver:    resolver,
		vistas:      vistas,
		orquestador: internalservices.NewOrquestador(repo, resolver, vistas),
	}, nil
}

// codigoSalida traduce la taxonomía de errores a códigos de salida estables.
func codigoSalida(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, helpers.ErrValidacion):
		return 2
	case errors.Is(err, helpers.ErrProcesoNoEncontrado):
		return 3
	case errors.Is(err, helpers.ErrTransicionInvalida):
		return 4
	case errors.Is(err, helpers.ErrPersistencia), errors.Is(err, helpers.ErrBackend):
		return 5
	}
	return 1
}
