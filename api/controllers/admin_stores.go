package controllers

import (
	"net/http"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/api/validators"
	"github.com/franchisely/franchise-backend/internal/ledger"
	"github.com/franchisely/franchise-backend/internal/stores"
	"github.com/franchisely/franchise-backend/pkg/enums"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
	"github.com/franchisely/franchise-backend/pkg/pagination"
)

type storeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminStoreList returns the stores of one head office oldest first.
func AdminStoreList(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		officeID, err := parseURLID(r, "headOfficeId", "head office id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByHeadOffice(r.Context(), officeID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStoreViews(list))
	}
}

// AdminStoreSetStatus suspends or reactivates a store. A suspended store can
// no longer authenticate or settle orders.
func AdminStoreSetStatus(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		storeID, err := parseURLID(r, "storeId", "store id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req storeStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.SetStatus(r.Context(), storeID, enums.StoreStatus(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStoreView(store))
	}
}

// AdminStoreReconcile compares the store wallet balance against the sum of
// its ledger entries.
func AdminStoreReconcile(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		storeID, err := parseURLID(r, "storeId", "store id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Reconcile(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
