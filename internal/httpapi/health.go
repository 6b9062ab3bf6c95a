package httpapi

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

// HealthChecker reports whether a dependency can serve requests.
type HealthChecker interface {
	Name() string
	HealthCheck(ctx context.Context) error
}

type healthHandler struct {
	checkers []HealthChecker
}

func (h *healthHandler) live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ready runs every checker and answers 503 if any failed.
func (h *healthHandler) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checkers))
	for _, c := range h.checkers {
		if err := c.HealthCheck(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[c.Name()] = err.Error()
			continue
		}
		checks[c.Name()] = "ok"
	}
	writeJSON(w, status, checks)
}
