package service

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/k8s-demo/order-service/internal/models"
	"github.com/k8s-demo/order-service/internal/repository"
)

const (
	// ServiceName is reported by the health check
	ServiceName = "order-service"

	// CreatedMessage is the confirmation returned when an order is created
	CreatedMessage = "Order created successfully"

	healthyStatus = "healthy"

	// DefaultNotifyBacklog bounds the notifications in flight at once
	DefaultNotifyBacklog = 64
)

// IDGenerator supplies identifiers for newly created orders
type IDGenerator interface {
	NextID() int
}

// Notifier announces created orders to downstream consumers
type Notifier interface {
	NotifyOrderCreated(ctx context.Context, n models.OrderNotification) error
}

// Recorder counts order events for metrics
type Recorder interface {
	OrderCreated()
}

// OrderService handles order operations. It keeps no per-request state.
type OrderService struct {
	repo     repository.OrderRepository
	ids      IDGenerator
	notifier Notifier
	recorder Recorder
	now      func() time.Time
	log      *slog.Logger

	pending chan struct{}
	wg      sync.WaitGroup
}

// Option configures an OrderService
type Option func(*OrderService)

// WithNotifier sets the notifier used after an order is created
func WithNotifier(n Notifier) Option {
	return func(s *OrderService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithNotifyBacklog sets how many notifications may be in flight before new ones are dropped
func WithNotifyBacklog(n int) Option {
	return func(s *OrderService) {
		if n > 0 {
			s.pending = make(chan struct{}, n)
		}
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *OrderService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *OrderService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(s *OrderService) {
		if log != nil {
			s.log = log
		}
	}
}

// NewOrderService creates a new order service
func NewOrderService(repo repository.OrderRepository, ids IDGenerator, opts ...Option) *OrderService {
	s := &OrderService{
		repo:     repo,
		ids:      ids,
		notifier: noopNotifier{},
		recorder: noopRecorder{},
		now:      time.Now,
		log:      slog.Default(),
		pending:  make(chan struct{}, DefaultNotifyBacklog),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Health reports the service as healthy
func (s *OrderService) Health(ctx context.Context) models.HealthResponse {
	return models.HealthResponse{
		Status:    healthyStatus,
		Service:   ServiceName,
		Timestamp: s.now().UTC(),
	}
}

// ListOrders returns the sample orders
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.repo.GetAll(ctx)
}

// GetOrder returns the order with the given ID. Any ID resolves.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateOrder builds a creation confirmation for the payload.
// Nothing is stored; the payload is echoed back over the generated fields.
func (s *OrderService) CreateOrder(ctx context.Context, payload models.OrderPayload) (*models.CreateOrderResponse, error) {
	resp := &models.CreateOrderResponse{
		ID:      s.ids.NextID(),
		Status:  models.StatusCreated,
		Message: CreatedMessage,
		Extra:   maps.Clone(payload),
	}

	s.recorder.OrderCreated()

	notification := models.OrderNotification{
		Type:      "order",
		Event:     "order.created",
		OrderID:   resp.ID,
		Timestamp: s.now().UTC(),
	}
	s.notify(ctx, notification)

	return resp, nil
}

// notify hands n to a background publisher so the caller never waits on the broker.
// Notifications beyond the backlog are dropped.
func (s *OrderService) notify(ctx context.Context, n models.OrderNotification) {
	select {
	case s.pending <- struct{}{}:
	default:
		s.log.Warn("notification backlog full, dropping order notification", "order_id", n.OrderID)
		return
	}

	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { <-s.pending }()

		if err := s.notifier.NotifyOrderCreated(ctx, n); err != nil {
			s.log.Warn("failed to publish order notification", "order_id", n.OrderID, "error", err)
		}
	}()
}

// Drain waits for in-flight notifications to finish or for ctx to be done
func (s *OrderService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type noopNotifier struct{}

func (noopNotifier) NotifyOrderCreated(context.Context, models.OrderNotification) error { return nil }

type noopRecorder struct{}

func (noopRecorder) OrderCreated() {}
