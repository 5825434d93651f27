package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"

	"lever/handler/render"
	"lever/service/oracle"
)

// HandleOracle price observation intake.
func HandleOracle(feed *oracle.PriceFeed) http.Handler {
	router := chi.NewRouter()
	router.Post("/price", postPriceHandler(feed))
	return router
}

func postPriceHandler(feed *oracle.PriceFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Price decimal.Decimal `json:"price"`
		}

		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := feed.Post(body.Price); err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{"ok": true})
	}
}
