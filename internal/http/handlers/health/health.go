// Package health serves the liveness endpoint.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/students-api/internal/utils/response"
)

// Pinger is the part of storage.Storage the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// pingTimeout bounds how long a slow store can hold the probe.
const pingTimeout = 2 * time.Second

// Check handles GET /healthz: 200 {"status":"ok"} when the store answers,
// 503 otherwise.
func Check(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Warn("health check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusServiceUnavailable, response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	}
}
