package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/hongminglow/void-bio-be/internal/http/respond"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns uptime and basic status.
type HealthHandler struct {
	startedAt time.Time
	store     Pinger
}

// NewHealthHandler creates a health endpoint handler. store may be nil when
// the driver has nothing to ping.
func NewHealthHandler(startedAt time.Time, store Pinger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, store: store}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":  "ok",
		"storage": "ok",
		"uptime":  time.Since(h.startedAt).Truncate(time.Second).String(),
	}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			status["status"] = "degraded"
			status["storage"] = "unreachable"
			log.Printf("health: ping storage: %v", err)
			respond.JSON(w, http.StatusServiceUnavailable, "storage unreachable", status)
			return
		}
	}
	respond.JSON(w, http.StatusOK, "ok", status)
}
