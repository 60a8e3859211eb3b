package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/pkg/db/models"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
)

const storeCodeHeader = "X-Store-Code"

// StoreVerifier resolves a presented auth code to an active store.
type StoreVerifier interface {
	VerifyCode(ctx context.Context, presented string) (*models.Store, error)
}

// StoreAuth validates the store auth code and seeds the request context with
// the store and head office identifiers.
func StoreAuth(verifier StoreVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := strings.TrimSpace(r.Header.Get(storeCodeHeader))
			if code == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			store, err := verifier.VerifyCode(r.Context(), code)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithStoreID(r.Context(), store.ID.String())
			ctx = WithHeadOfficeID(ctx, store.HeadOfficeID.String())
			if logg != nil {
				ctx = logg.WithStoreID(ctx, store.ID.String())
				ctx = logg.WithHeadOfficeID(ctx, store.HeadOfficeID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StoreContext guards store-scoped routes against a missing store identity.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if StoreIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
