package controllers

import (
	"net/http"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/pkg/config"
	"github.com/franchisely/franchise-backend/pkg/db"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
)

const envHeader = "X-Franchise-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies before reporting ready. A nil
// pinger is treated as not wired and skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]db.Pinger{
			"database": dbP,
			"redis":    redisP,
		}
		for name, pinger := range checks {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(r.Context()); err != nil {
				typed := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "readiness check failed").
					WithDetails(map[string]any{"dependency": name})
				responses.WriteError(r.Context(), logg, w, typed)
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
