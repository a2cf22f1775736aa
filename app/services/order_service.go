package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/savannah/app/models"
	"github.com/shashiranjanraj/savannah/app/repositories"
	"github.com/shashiranjanraj/savannah/pkg/apperr"
	"github.com/shashiranjanraj/savannah/pkg/event"
	"github.com/shashiranjanraj/savannah/pkg/logger"
	"github.com/shashiranjanraj/savannah/pkg/metrics"
	"github.com/shashiranjanraj/savannah/pkg/validate"
)

// Event topics published by the order workflow.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload published on the order topics and broadcast to
// feed subscribers.
type OrderEvent struct {
	OrderID    uint               `json:"order_id"`
	CustomerID uint               `json:"customer_id"`
	Item       string             `json:"item"`
	Amount     float64            `json:"amount"`
	Status     models.OrderStatus `json:"status"`
}

// JSON renders the event as a broadcast frame.
func (e OrderEvent) JSON() []byte {
	data, _ := json.Marshal(e)
	return data
}

// OrderCreateInput is the payload for placing an order. Amount is the unit
// price; the persisted total is computed here.
type OrderCreateInput struct {
	CustomerID uint    `json:"customer_id" validate:"required"`
	Item       string  `json:"item" validate:"required,min=1,max=100"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Quantity   int     `json:"quantity" validate:"nullable,integer,gt=0"`
}

// OrderStatusInput carries the new status for an update.
type OrderStatusInput struct {
	Status models.OrderStatus `json:"status" validate:"required,in=Pending|Active|Cancelled|Delivered"`
}

// OrderNotifier schedules the post-commit confirmation message.
type OrderNotifier interface {
	OrderPlaced(order models.Order, customer models.Customer)
}

// OrderService implements the order workflow.
type OrderService struct {
	db        *gorm.DB
	cache     Cache
	orders    *repositories.OrderRepository
	customers *repositories.CustomerRepository
	notifier  OrderNotifier
	events    *event.Bus
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewOrderService wires the order workflow. notifier, events and m may not
// be nil; pass no-op implementations in tests that do not care. store
// backs GetByID reads; pass cache.Disabled() when Redis is unavailable.
func NewOrderService(db *gorm.DB, store Cache, notifier OrderNotifier, events *event.Bus, m *metrics.Metrics, log *slog.Logger) *OrderService {
	return &OrderService{
		db:        db,
		cache:     store,
		orders:    repositories.NewOrderRepository(),
		customers: repositories.NewCustomerRepository(),
		notifier:  notifier,
		events:    events,
		metrics:   m,
		log:       log,
	}
}

// Create places an order for an existing customer. The customer lookup
// runs before any order row is written, inside the same transaction as the
// insert. The confirmation SMS is scheduled only after the transaction has
// committed; nothing the notifier does can fail or roll back the order.
func (s *OrderService) Create(ctx context.Context, in OrderCreateInput) (models.Order, error) {
	log := logger.WithCtx(ctx, s.log)

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Order{}, apperr.Fail(log, apperr.Validation, firstError(errs), nil)
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}

	var (
		order    models.Order
		customer models.Customer
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		customer, err = s.customers.FindByID(tx, in.CustomerID)
		if err != nil {
			return err
		}

		order = models.Order{
			CustomerID: customer.ID,
			Item:       in.Item,
			Amount:     in.Amount * float64(quantity),
			Quantity:   quantity,
			Status:     models.StatusPending,
		}
		return s.orders.Create(tx, &order)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, apperr.Fail(log, apperr.NotFound, "customer not found", err)
		}
		return models.Order{}, apperr.Fail(log, apperr.Internal, "create order", err)
	}

	log.Info("order created",
		"order_id", order.ID, "customer_id", customer.ID, "amount", order.Amount)
	s.metrics.OrdersCreated.Inc()
	s.events.Publish(EventOrderCreated, OrderEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Item:       order.Item,
		Amount:     order.Amount,
		Status:     order.Status,
	})
	s.notifier.OrderPlaced(order, customer)

	return order, nil
}

// GetByID returns the order or NotFound.
func (s *OrderService) GetByID(ctx context.Context, id uint) (models.Order, error) {
	log := logger.WithCtx(ctx, s.log)

	var order models.Order
	if s.cache.Get(ctx, orderCacheKey(id), &order) {
		return order, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orders.FindByID(tx, id)
		return err
	})
	if err != nil {
		return models.Order{}, s.notFoundOr(log, err, "get order")
	}

	if err := s.cache.Set(ctx, orderCacheKey(id), order, cacheTTL); err != nil {
		log.Warn("cache order", "order_id", id, "error", err)
	}
	return order, nil
}

// List returns a page of all orders ordered by id.
func (s *OrderService) List(ctx context.Context, skip, limit int) ([]models.Order, error) {
	log := logger.WithCtx(ctx, s.log)

	var orders []models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		orders, err = s.orders.List(tx, skip, limit)
		return err
	})
	if err != nil {
		return nil, apperr.Fail(log, apperr.Internal, "list orders", err)
	}
	return orders, nil
}

// ListByCustomer returns a page of one customer's orders. The customer's
// existence is not checked; an unknown id yields an empty page, matching
// OrderCount.
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uint, skip, limit int) ([]models.Order, error) {
	log := logger.WithCtx(ctx, s.log)

	var orders []models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		orders, err = s.orders.ListByCustomer(tx, customerID, skip, limit)
		return err
	})
	if err != nil {
		return nil, apperr.Fail(log, apperr.Internal, "list customer orders", err)
	}
	return orders, nil
}

// UpdateStatus overwrites the order's status. Any status may follow any
// other; the lifecycle documents an expected flow but nothing enforces it.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, in OrderStatusInput) (models.Order, error) {
	log := logger.WithCtx(ctx, s.log)

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Order{}, apperr.Fail(log, apperr.Validation, firstError(errs), nil)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orders.FindByID(tx, id)
		if err != nil {
			return err
		}
		order.Status = in.Status
		// Save refreshes updated_at; status changes are the only order
		// mutation so the touch is explicit here rather than trigger-side.
		return s.orders.Save(tx, &order)
	})
	if err != nil {
		return models.Order{}, s.notFoundOr(log, err, "update order status")
	}

	if err := s.cache.Del(ctx, orderCacheKey(id)); err != nil {
		log.Warn("invalidate order cache", "order_id", id, "error", err)
	}
	log.Info("order status updated", "order_id", order.ID, "status", order.Status)
	s.metrics.OrderStatusChanges.WithLabelValues(string(order.Status)).Inc()
	s.events.Publish(EventOrderStatusChanged, OrderEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Item:       order.Item,
		Amount:     order.Amount,
		Status:     order.Status,
	})
	return order, nil
}

// Delete removes the order. Hard delete, no status gating.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	log := logger.WithCtx(ctx, s.log)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.FindByID(tx, id)
		if err != nil {
			return err
		}
		return s.orders.Delete(tx, &order)
	})
	if err != nil {
		return s.notFoundOr(log, err, "delete order")
	}

	if err := s.cache.Del(ctx, orderCacheKey(id)); err != nil {
		log.Warn("invalidate order cache", "order_id", id, "error", err)
	}
	log.Info("order deleted", "order_id", id)
	return nil
}

func (s *OrderService) notFoundOr(log *slog.Logger, err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Fail(log, apperr.NotFound, "order not found", err)
	}
	return apperr.Fail(log, apperr.Internal, op, err)
}
