package controllers

import (
	"net/http"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/api/validators"
	"github.com/franchisely/franchise-backend/internal/products"
	"github.com/franchisely/franchise-backend/pkg/enums"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
	"github.com/franchisely/franchise-backend/pkg/pagination"
)

type productCreateRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Price int64  `json:"price" validate:"required,gt=0"`
}

type productUpdateRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Price  *int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Status *string `json:"status,omitempty"`
}

// AdminProductCreate adds a product to a head office catalog.
func AdminProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		officeID, err := parseURLID(r, "headOfficeId", "head office id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req productCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), products.CreateInput{
			HeadOfficeID: officeID,
			Name:         req.Name,
			Price:        req.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newProductView(product))
	}
}

// AdminProductList returns all products of a head office regardless of
// status, unlike the store-facing catalog.
func AdminProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
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

		list, err := svc.ListAll(r.Context(), officeID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductViews(list))
	}
}

// AdminProductUpdate applies a partial update to one product.
func AdminProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parseURLID(r, "productId", "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req productUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.UpdateInput{
			Name:  req.Name,
			Price: req.Price,
		}
		if req.Status != nil {
			status := enums.ProductStatus(*req.Status)
			input.Status = &status
		}

		product, err := svc.Update(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductView(product))
	}
}
