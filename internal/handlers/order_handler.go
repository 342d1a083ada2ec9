package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/k8s-demo/order-service/internal/models"
	"github.com/k8s-demo/order-service/internal/service"
)

// maxBodyBytes caps the size of a create request body
const maxBodyBytes = 1 << 20

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.log.Error("failed to list orders", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// GetOrder handles GET /api/orders/{id}
// Any integer ID succeeds; a non-integer ID is rejected with 400.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		h.log.Warn("invalid order ID format", "id", rawID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.log)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		h.log.Error("failed to get order", "id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var payload models.OrderPayload

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	resp, err := h.orderService.CreateOrder(r.Context(), payload)
	if err != nil {
		h.log.Error("failed to create order", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, resp, h.log)
	h.log.Info("order created", "order_id", resp.ID, "fields", len(payload))
}
