package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/farmgatehq/farmgate-backend/api/responses"
	"github.com/farmgatehq/farmgate-backend/pkg/config"
	"github.com/farmgatehq/farmgate-backend/pkg/db"
	"github.com/farmgatehq/farmgate-backend/pkg/logger"
	"github.com/farmgatehq/farmgate-backend/pkg/redis"
)

const envHeader = "X-Farmgate-Env"

type pubsubPinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency. A nil pinger is skipped so
// optional integrations do not fail readiness when disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, pubsubP pubsubPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true

		check := func(name string, err error) {
			if err != nil {
				if logg != nil {
					logg.Error(ctx, "readiness check failed: "+name, err)
				}
				checks[name] = "down"
				ready = false
				return
			}
			checks[name] = "up"
		}

		if dbP != nil {
			check("database", dbP.Ping(ctx))
		} else {
			checks["database"] = "skipped"
		}
		if redisP != nil {
			check("redis", redisP.Ping(ctx))
		} else {
			checks["redis"] = "skipped"
		}
		if pubsubP != nil {
			check("pubsub", pubsubP.Ping(ctx))
		} else {
			checks["pubsub"] = "skipped"
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
