package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/api/middleware"
	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/api/validators"
	"github.com/franchisely/franchise-backend/internal/stores"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
)

type storeJoinRequest struct {
	InviteCode string `json:"invite_code" validate:"required"`
	Name       string `json:"name" validate:"required,min=1,max=120"`
}

type storeJoinResponse struct {
	Store    storeView `json:"store"`
	AuthCode string    `json:"auth_code"`
}

// StoreJoin redeems an invite code and returns the one-time auth code. The
// plaintext code appears only in this response; afterwards only its hash
// exists server side.
func StoreJoin(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		var req storeJoinRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, authCode, err := svc.Join(r.Context(), stores.JoinInput{
			InviteCode: req.InviteCode,
			Name:       req.Name,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, storeJoinResponse{
			Store:    newStoreView(store),
			AuthCode: authCode,
		})
	}
}

// StoreProfile returns the authenticated store's own record.
func StoreProfile(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.Get(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newStoreView(store))
	}
}

func storeIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.StoreIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}
	return id, nil
}

func headOfficeIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.HeadOfficeIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid head office id")
	}
	return id, nil
}
