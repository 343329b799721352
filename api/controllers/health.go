package controllers

import (
	"net/http"

	"github.com/squareeyes/backend/api/responses"
	"github.com/squareeyes/backend/internal/catalog"
	"github.com/squareeyes/backend/pkg/config"
	"github.com/squareeyes/backend/pkg/kv"
	"github.com/squareeyes/backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SquareEyes-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness. Storage must answer; the catalog primary
// being down is reported in the checks but does not fail readiness since
// the fallback source still serves.
func HealthReady(cfg *config.Config, logg *logger.Logger, store kv.Store, catalogClient *catalog.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SquareEyes-Env", cfg.App.Env)

		checks := map[string]string{"storage": "ok", "catalog_primary": "ok"}
		status := http.StatusOK

		if store == nil {
			checks["storage"] = "not configured"
			status = http.StatusServiceUnavailable
		} else if err := store.Ping(r.Context()); err != nil {
			if logg != nil {
				logg.Error(r.Context(), "storage ping failed", err)
			}
			checks["storage"] = err.Error()
			status = http.StatusServiceUnavailable
		}

		if catalogClient == nil {
			checks["catalog_primary"] = "not configured"
		} else if err := catalogClient.PingPrimary(r.Context()); err != nil {
			if logg != nil {
				logg.Warn(r.Context(), "catalog primary ping failed: "+err.Error())
			}
			checks["catalog_primary"] = err.Error()
		}

		state := "ready"
		if status != http.StatusOK {
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
