package main

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/udistrital/reclutamiento_mid/controllers/errorhandler"
	"github.com/udistrital/reclutamiento_mid/internal/clients"
	"github.com/udistrital/reclutamiento_mid/internal/middlewares"
	internalservices "github.com/udistrital/reclutamiento_mid/internal/services"
	"github.com/udistrital/reclutamiento_mid/routers"
	rootservices "github.com/udistrital/reclutamiento_mid/services"

	"github.com/beego/beego/v2/core/logs"
	beego "github.com/beego/beego/v2/server/web"
	cors "github.com/beego/beego/v2/server/web/filter/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logs.Debug("sin archivo .env:", err)
	}

	cfg := rootservices.GetConfig()
	logs.SetLevel(nivelLog(cfg.LogLevel))
	beego.BConfig.AppName = cfg.AppName
	beego.BConfig.Listen.HTTPPort = cfg.HTTPPort
	beego.BConfig.RunMode = cfg.RunMode
	beego.BConfig.CopyRequestBody = true
	beego.BConfig.RecoverPanic = true
	beego.BConfig.RecoverFunc = errorhandler.RecoverPanic

	beego.InsertFilter("*", beego.BeforeRouter, cors.Allow(&cors.Options{
		AllowOrigins:     cfg.AllowOrigins, //orígenes permitidos
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Requested-With", "X-Correlation-Id", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "X-Correlation-Id"},
		AllowCredentials: true,
	}))
	middlewares.UseCorrelacion()
	middlewares.UseAuth()

	cache, err := internalservices.NuevoCacheVistas(cfg.CacheVistasTamano)
	if err != nil {
		logs.Critical("no fue posible crear el cache de vistas:", err)
		return
	}
	repo := clients.Reclutamiento()
	resolver := internalservices.NewResolver(repo)
	vistas := internalservices.NewConstructorVistas(repo, cache, internalservices.OpcionesVistas{
		MaxConcurrencia: cfg.MaxConcurrencia,
		TimeoutConsulta: cfg.RequestTimeout * time.Duration(cfg.RetryCount+1),
		CacheTTL:        cfg.CacheVistasTTL,
	})
	routers.Init(routers.Dependencias{
		Resolver:    resolver,
		Orquestador: internalservices.NewOrquestador(repo, resolver, vistas),
		Vistas:      vistas,
	})

	logs.Info("iniciando", cfg.AppName, "backend", cfg.ReclutamientoBaseURL)
	beego.Run()
}

func nivelLog(nivel string) int {
	switch strings.ToLower(strings.TrimSpace(nivel)) {
	case "debug":
		return logs.LevelDebug
	case "warn", "warning":
		return logs.LevelWarn
	case "error":
		return logs.LevelError
	}
	return logs.LevelInfo
}
