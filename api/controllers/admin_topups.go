package controllers

import (
	"net/http"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/api/validators"
	"github.com/franchisely/franchise-backend/internal/topups"
	"github.com/franchisely/franchise-backend/pkg/enums"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
)

type topupApproveRequest struct {
	Memo string `json:"memo,omitempty" validate:"omitempty,max=500"`
}

// AdminTopupApprove marks a top-up paid and credits the store wallet.
// Replaying an approval is safe: the response reports already_paid and the
// wallet is credited exactly once.
func AdminTopupApprove(svc topups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "topup service unavailable"))
			return
		}

		topupID, err := parseURLID(r, "topupId", "topup id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req topupApproveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		memo := req.Memo
		if memo == "" {
			memo = "manual approval"
		}

		result, err := svc.ApplyPaid(r.Context(), topupID, memo, enums.LedgerRefTypeTopup)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminTopupGet returns one top-up request by id.
func AdminTopupGet(svc topups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "topup service unavailable"))
			return
		}

		topupID, err := parseURLID(r, "topupId", "topup id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		topup, err := svc.Get(r.Context(), topupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTopupView(topup))
	}
}
