package services

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/udistrital/reclutamiento_mid/helpers"

	beego "github.com/beego/beego/v2/server/web"
)

// Config centraliza la configuración necesaria para los servicios externos.
type Config struct {
	AppName              string
	HTTPPort             int
	RunMode              string
	LogLevel             string
	AllowOrigins         []string
	ReclutamientoBaseURL string
	BearerToken          string
	RequestTimeout       time.Duration
	RetryCount           int
	MaxConcurrencia      int
	CacheVistasTamano    int
	CacheVistasTTL       time.Duration
}

var (
	cfg  Config
	once sync.Once
)

// GetConfig devuelve la configuración cargada desde variables de entorno o app.conf.
func GetConfig() Config {
	once.Do(func() {
		cfg = Config{
			AppName:              getString("APP_NAME", "appname", "reclutamiento_mid"),
			HTTPPort:             getInt("HTTP_PORT", "httpport", 8080),
			RunMode:              getString("RUN_MODE", "runmode", "dev"),
			LogLevel:             getString("LOG_LEVEL", "log_level", "info"),
			AllowOrigins:         splitList(getString("ALLOW_ORIGINS", "allow_origins", "http://localhost:5173")),
			ReclutamientoBaseURL: normalizeBase(getString("RECLUTAMIENTO_BASE_URL", "reclutamiento_base_url", "")),
			BearerToken:          getString("RECLUTAMIENTO_BEARER_TOKEN", "reclutamiento_bearer_token", ""),
			RequestTimeout:       time.Duration(getInt("REQUEST_TIMEOUT_MS", "request_timeout_ms", 10000)) * time.Millisecond,
			RetryCount:           getInt("RETRY_COUNT", "retry_count", 2),
			MaxConcurrencia:      getInt("MAX_CONSULTAS_CONCURRENTES", "max_consultas_concurrentes", 8),
			CacheVistasTamano:    getInt("CACHE_VISTAS_TAMANO", "cache_vistas_tamano", 32),
			CacheVistasTTL:       time.Duration(getInt("CACHE_VISTAS_TTL_MS", "cache_vistas_ttl_ms", 15000)) * time.Millisecond,
		}

		if err := cfg.Validar(); err != nil {
			panic(err.Error())
		}
		cfg.Aplicar()
	})
	return cfg
}

// Validar verifica los valores mínimos para hablar con el backend.
func (c Config) Validar() error {
	if c.ReclutamientoBaseURL == "" {
		return errors.New("RECLUTAMIENTO_BASE_URL no configurado")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT_MS debe ser positivo")
	}
	return nil
}

// Aplicar propaga al cliente HTTP compartido los parámetros de reintento.
func (c Config) Aplicar() {
	helpers.SetDefaultRetryCount(c.RetryCount)
}

func getString(envKey, confKey, def string) string {
	if val := strings.TrimSpace(os.Getenv(envKey)); val != "" {
		return val
	}
	if val, err := beego.AppConfig.String(confKey); err == nil && strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func getInt(envKey, confKey string, def int) int {
	if val := strings.TrimSpace(os.Getenv(envKey)); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	if val, err := beego.AppConfig.Int(confKey); err == nil {
		return val
	}
	return def
}

func normalizeBase(value string) string {
	return strings.TrimSuffix(strings.TrimSpace(value), "/")
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// BuildURL compone una URL asegurando que no haya dobles slashes.
func BuildURL(base string, elems ...string) string {
	trimmed := strings.TrimSuffix(base, "/")
	for _, e := range elems {
		trimmed += "/" + strings.Trim(e, "/")
	}
	return trimmed
}
