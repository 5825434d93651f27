package rest

import (
	"encoding/json"
	"net/http"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"

	"lever/core"
	"lever/handler/render"
)

var actionTypes = map[string]core.ActionType{
	"deposit":  core.ActionDeposit,
	"withdraw": core.ActionWithdraw,
	"mint_fr":  core.ActionMintFR,
	"burn_fr":  core.ActionBurnFR,
	"borrow":   core.ActionBorrow,
	"repay":    core.ActionRepay,
}

func actionsHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := chi.URLParam(r, "user")

		var params struct {
			FollowID string `json:"follow_id,omitempty"`
			Actions  []struct {
				Type    string          `json:"type"`
				AmountA decimal.Decimal `json:"amount_a"`
				AmountB decimal.Decimal `json:"amount_b"`
				Shares  decimal.Decimal `json:"shares"`
			} `json:"actions"`
		}

		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			render.BadRequest(w, err)
			return
		}

		follow, err := uuid.FromString(params.FollowID)
		if err != nil || follow == uuid.Nil {
			follow, _ = uuid.NewV4()
		}

		actions := make([]core.Action, 0, len(params.Actions))
		for _, a := range params.Actions {
			typ, ok := actionTypes[a.Type]
			if !ok {
				render.BadRequest(w, core.ErrOperationForbidden)
				return
			}

			actions = append(actions, core.Action{
				Type:    typ,
				AmountA: a.AmountA,
				AmountB: a.AmountB,
				Shares:  a.Shares,
			})
		}

		log := logger.FromContext(ctx).WithField("follow_id", follow.String())
		if err := engine.Execute(ctx, user, actions); err != nil {
			log.WithError(err).Infoln("composite call rejected")
			render.BadRequest(w, err)
			return
		}

		log.Infoln("composite call applied")

		risk, err := engine.VaultRisk(ctx, user)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{
			"follow_id": follow.String(),
			"vault":     risk,
		})
	}
}

func liquidateHandler(engine core.IEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := chi.URLParam(r, "user")

		result, err := engine.Liquidate(ctx, user)
		if err != nil {
			if err == core.ErrVaultNotFound {
				render.NotFoundRequest(w, err)
				return
			}
			render.BadRequest(w, err)
			return
		}

		logger.FromContext(ctx).
			WithField("user", user).
			WithField("debt_retired", result.DebtRetired).
			Infoln("vault liquidated")

		render.JSON(w, result)
	}
}
