package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/pkg/config"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
)

const adminTokenHeader = "X-Admin-Token"

// AdminAuth gates privileged routes behind the out-of-band shared secret.
// Missing, empty and wrong tokens all yield the same unauthorized response.
func AdminAuth(cfg config.AdminConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := strings.TrimSpace(r.Header.Get(adminTokenHeader))
			if cfg.Token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.Token)) != 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid admin token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
