package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/livroelivro/sebo/pkg/logger"
)

// Check probes one dependency.
type Check func(context.Context) error

// HealthCheckHandler reports {"status":"ok"} with 200 when every check
// passes, or {"status":"unavailable","failed":[names]} with 503 otherwise.
// With no checks it is a plain liveness probe.
func HealthCheckHandler(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var failed []string
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", slog.String("check", name), logger.Error(err))
				failed = append(failed, name)
			}
		}

		body := map[string]any{"status": "ok"}
		status := http.StatusOK
		if len(failed) > 0 {
			body = map[string]any{"status": "unavailable", "failed": failed}
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
