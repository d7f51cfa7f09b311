package services

import (
	"context"
	"fmt"

	"github.com/beego/beego/v2/core/logs"

	"github.com/udistrital/reclutamiento_mid/helpers"
	"github.com/udistrital/reclutamiento_mid/internal/clients"
	"github.com/udistrital/reclutamiento_mid/internal/metrics"
	"github.com/udistrital/reclutamiento_mid/models"
)

// ResolverProcesos ubica el proceso de selección activo de un postulante.
type ResolverProcesos interface {
	Resolver(ctx context.Context, postulanteID int64, opciones OpcionesResolucion) (*models.ProcesoSeleccion, error)
}

// OpcionesResolucion acota la búsqueda cuando el llamador ya conoce la vacante.
type OpcionesResolucion struct {
	VacanteID *int64
}

// ResolverRoster recorre los rosters de las vacantes abiertas hasta encontrar al postulante.
type ResolverRoster struct {
	repo clients.ReclutamientoAPI
}

func NewResolver(repo clients.ReclutamientoAPI) *ResolverRoster {
	return &ResolverRoster{repo: repo}
}

// Resolver devuelve la primera coincidencia en el orden de vacantes del backend.
func (r *ResolverRoster) Resolver(ctx context.Context, postulanteID int64, opciones OpcionesResolucion) (*models.ProcesoSeleccion, error) {
	if postulanteID <= 0 {
		return nil, helpers.Validacion("id de postulante inválido")
	}

	var vacantes []int64
	if opciones.VacanteID != nil {
		vacantes = []int64{*opciones.VacanteID}
	} else {
		abiertas, err := r.repo.ListarVacantesAbiertas(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logs.Error("resolver: no fue posible listar vacantes:", err)
			return nil, helpers.Backend("no fue posible consultar las vacantes", err)
		}
		for _, v := range abiertas {
			vacantes = append(vacantes, v.Id)
		}
	}

	for _, vacanteID := range vacantes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		roster, err := r.repo.ListarRoster(ctx, vacanteID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.RosterFallido("resolver")
			if opciones.VacanteID != nil {
				logs.Error("resolver: roster no disponible", "vacante", vacanteID, "err", err)
				return nil, helpers.Backend(fmt.Sprintf("no fue posible consultar el roster de la vacante %d", vacanteID), err)
			}
			logs.Warn("resolver: roster omitido", "vacante", vacanteID, "err", err)
			continue
		}
		for i := range roster {
			if roster[i].PostulanteId == postulanteID {
				proceso := roster[i]
				return &proceso, nil
			}
		}
	}

	logs.Info("resolver: sin proceso activo", "postulante", postulanteID)
	return nil, helpers.NoEncontrado(fmt.Sprintf("el postulante %d no tiene un proceso de selección activo", postulanteID))
}
