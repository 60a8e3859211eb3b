package controllers

import (
	"net/http"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/api/validators"
	"github.com/franchisely/franchise-backend/internal/topups"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
	"github.com/franchisely/franchise-backend/pkg/pagination"
)

type topupCreateRequest struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	DepositorName string `json:"depositor_name,omitempty" validate:"omitempty,max=120"`
}

type topupCreateResponse struct {
	Topup        topupView           `json:"topup"`
	DepositCode  string              `json:"deposit_code"`
	DepositGuide topups.DepositGuide `json:"deposit_guide"`
}

// TopupCreate opens a top-up request and hands back the deposit code the
// depositor must put in the transfer memo.
func TopupCreate(svc topups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "topup service unavailable"))
			return
		}

		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req topupCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Request(r.Context(), topups.RequestInput{
			StoreID:       storeID,
			Amount:        req.Amount,
			DepositorName: req.DepositorName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, topupCreateResponse{
			Topup:        newTopupView(result.Topup),
			DepositCode:  result.Topup.DepositCode,
			DepositGuide: result.Guide,
		})
	}
}

// TopupList returns the store's top-up requests newest first.
func TopupList(svc topups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "topup service unavailable"))
			return
		}

		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByStore(r.Context(), storeID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTopupViews(list))
	}
}
