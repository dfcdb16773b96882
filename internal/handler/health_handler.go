package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler probing db.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

// Check handles GET /health. The process is alive whenever it can answer,
// so the status stays ok and the database state is reported alongside.
func (h *HealthHandler) Check(c echo.Context) error {
	resp := HealthResponse{Status: "ok", Database: "connected"}
	if h.db == nil {
		resp.Database = "disconnected"
		return Success(c, http.StatusOK, resp)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		resp.Database = "disconnected"
	}
	return Success(c, http.StatusOK, resp)
}
