package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/k8s-demo/order-service/internal/models"
)

type healthChecker interface {
	Health(ctx context.Context) models.HealthResponse
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	checker healthChecker
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker healthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger,
	}
}

// ServeHTTP handles GET /api/orders/health and GET /health
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.checker.Health(r.Context()), h.logger)
}
