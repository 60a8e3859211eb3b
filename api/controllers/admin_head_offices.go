package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/api/validators"
	"github.com/franchisely/franchise-backend/internal/headoffices"
	"github.com/franchisely/franchise-backend/pkg/enums"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
	"github.com/franchisely/franchise-backend/pkg/pagination"
)

type headOfficeCreateRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=120"`
	DepositBank    string `json:"deposit_bank" validate:"required"`
	DepositAccount string `json:"deposit_account" validate:"required"`
	DepositHolder  string `json:"deposit_holder" validate:"required"`
}

type headOfficeUpdateRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Status         *string `json:"status,omitempty"`
	DepositBank    *string `json:"deposit_bank,omitempty"`
	DepositAccount *string `json:"deposit_account,omitempty"`
	DepositHolder  *string `json:"deposit_holder,omitempty"`
}

// AdminHeadOfficeCreate registers a new franchise head office tenant.
func AdminHeadOfficeCreate(svc headoffices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "head office service unavailable"))
			return
		}

		var req headOfficeCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		office, err := svc.Create(r.Context(), headoffices.CreateInput{
			Name:           req.Name,
			DepositBank:    req.DepositBank,
			DepositAccount: req.DepositAccount,
			DepositHolder:  req.DepositHolder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newHeadOfficeView(office))
	}
}

// AdminHeadOfficeList returns head offices oldest first.
func AdminHeadOfficeList(svc headoffices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "head office service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offices, err := svc.List(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]headOfficeView, 0, len(offices))
		for i := range offices {
			views = append(views, newHeadOfficeView(&offices[i]))
		}
		responses.WriteSuccess(w, views)
	}
}

// AdminHeadOfficeGet returns one head office by id.
func AdminHeadOfficeGet(svc headoffices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "head office service unavailable"))
			return
		}

		officeID, err := parseURLID(r, "headOfficeId", "head office id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		office, err := svc.Get(r.Context(), officeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newHeadOfficeView(office))
	}
}

// AdminHeadOfficeUpdate applies a partial update to a head office.
func AdminHeadOfficeUpdate(svc headoffices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "head office service unavailable"))
			return
		}

		officeID, err := parseURLID(r, "headOfficeId", "head office id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req headOfficeUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := headoffices.UpdateInput{
			Name:           req.Name,
			DepositBank:    req.DepositBank,
			DepositAccount: req.DepositAccount,
			DepositHolder:  req.DepositHolder,
		}
		if req.Status != nil {
			status := enums.HeadOfficeStatus(*req.Status)
			input.Status = &status
		}

		office, err := svc.Update(r.Context(), officeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newHeadOfficeView(office))
	}
}

func parseURLID(r *http.Request, param, label string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, label+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}
