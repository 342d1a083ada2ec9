package repository

import (
	"context"

	"github.com/k8s-demo/order-service/internal/models"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
}

// SampleOrderRepository serves fixed sample orders from memory.
// It is read-only and safe for concurrent use.
type SampleOrderRepository struct {
	orders   []models.Order
	template models.Order
}

// NewSampleOrderRepository creates a repository seeded with the demo orders
func NewSampleOrderRepository() *SampleOrderRepository {
	orders := []models.Order{
		{ID: 1, UserID: 1, ProductID: 1, Quantity: 2, Status: models.StatusCompleted, Total: models.NewMoney("29.98")},
		{ID: 2, UserID: 2, ProductID: 2, Quantity: 1, Status: models.StatusPending, Total: models.NewMoney("19.99")},
	}

	return &SampleOrderRepository{
		orders:   orders,
		template: orders[0],
	}
}

// GetAll returns a copy of the sample orders in fixed order
func (r *SampleOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, len(r.orders))
	copy(orders, r.orders)
	return orders, nil
}

// GetByID returns the sample order template carrying the requested ID.
// No existence check is made: every ID resolves.
func (r *SampleOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order := r.template
	order.ID = id
	return &order, nil
}
