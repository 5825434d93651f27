package rest

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"lever/core"
	"lever/handler/render"
)

// Handle handle rest api request
func Handle(engine core.IEngine) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/pool", poolHandler(engine))
	router.Get("/vaults/{user}", vaultHandler(engine))
	router.Get("/vaults/{user}/positions", positionsHandler(engine))
	router.Post("/vaults/{user}/actions", actionsHandler(engine))
	router.Post("/vaults/{user}/liquidate", liquidateHandler(engine))

	return router
}

func poolHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := engine.PoolInfo(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, info)
	}
}

func vaultHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user")

		risk, err := engine.VaultRisk(r.Context(), user)
		if err != nil {
			if err == core.ErrVaultNotFound {
				render.NotFoundRequest(w, err)
				return
			}
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, risk)
	}
}

func positionsHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := chi.URLParam(r, "user")

		state := engine.Snapshot(r.Context())
		v, ok := state.Vaults[user]
		if !ok {
			render.NotFoundRequest(w, core.ErrVaultNotFound)
			return
		}

		positions := make([]*core.RangePosition, 0, len(v.PositionIDs))
		for _, id := range v.PositionIDs {
			if p, ok := state.Positions[id]; ok {
				positions = append(positions, p)
			}
		}

		render.JSON(w, render.H{"positions": positions})
	}
}
