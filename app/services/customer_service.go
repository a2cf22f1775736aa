// Package services holds the workflow layer. Each operation validates its
// input, runs inside one database transaction, and returns either plain
// data or an error tagged with an apperr kind. Raw store errors never
// escape this package.
package services

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/savannah/app/models"
	"github.com/shashiranjanraj/savannah/app/repositories"
	"github.com/shashiranjanraj/savannah/pkg/apperr"
	"github.com/shashiranjanraj/savannah/pkg/logger"
	"github.com/shashiranjanraj/savannah/pkg/refcode"
	"github.com/shashiranjanraj/savannah/pkg/validate"
)

// CustomerCreateInput is the payload for creating a customer. SubjectRef
// comes from the verified identity, not the request body.
type CustomerCreateInput struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Phone      string `json:"phone_number" validate:"required,phone"`
	SubjectRef string `json:"-" validate:"required"`
}

// CustomerUpdateInput carries the mutable customer fields. Nil pointers
// mean "leave unchanged"; code and subject reference have no update path.
type CustomerUpdateInput struct {
	Name  *string `json:"name" validate:"nullable,min=1,max=100"`
	Phone *string `json:"phone_number" validate:"nullable,phone"`
}

// CustomerWithOrders is the aggregate returned by RecentOrders.
type CustomerWithOrders struct {
	models.Customer
	RecentOrders []models.Order `json:"recent_orders"`
}

// CustomerService implements the customer workflow.
type CustomerService struct {
	db        *gorm.DB
	cache     Cache
	customers *repositories.CustomerRepository
	orders    *repositories.OrderRepository
	log       *slog.Logger
}

// NewCustomerService wires the customer workflow. store backs GetByID
// reads; pass cache.Disabled() when Redis is unavailable.
func NewCustomerService(db *gorm.DB, store Cache, log *slog.Logger) *CustomerService {
	return &CustomerService{
		db:        db,
		cache:     store,
		customers: repositories.NewCustomerRepository(),
		orders:    repositories.NewOrderRepository(),
		log:       log,
	}
}

// Create validates in, generates the customer code from the subject
// reference and persists the record. A second customer for the same
// subject fails with Conflict.
func (s *CustomerService) Create(ctx context.Context, in CustomerCreateInput) (models.Customer, error) {
	log := logger.WithCtx(ctx, s.log)

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Customer{}, apperr.Fail(log, apperr.Validation, firstError(errs), nil)
	}

	customer := models.Customer{
		SubjectRef: in.SubjectRef,
		Name:       in.Name,
		Phone:      in.Phone,
		Code:       refcode.Generate(in.SubjectRef),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.customers.Create(tx, &customer)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Customer{}, apperr.Fail(log, apperr.Conflict,
				"customer already exists for this identity", err)
		}
		return models.Customer{}, apperr.Fail(log, apperr.Internal,
			"create customer", err)
	}

	log.Info("customer created", "customer_id", customer.ID, "code", customer.Code)
	return customer, nil
}

// GetByID returns the customer or NotFound.
func (s *CustomerService) GetByID(ctx context.Context, id uint) (models.Customer, error) {
	log := logger.WithCtx(ctx, s.log)

	var customer models.Customer
	if s.cache.Get(ctx, customerCacheKey(id), &customer) {
		return customer, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		customer, err = s.customers.FindByID(tx, id)
		return err
	})
	if err != nil {
		return models.Customer{}, s.notFoundOr(log, err, "get customer", id)
	}

	if err := s.cache.Set(ctx, customerCacheKey(id), customer, cacheTTL); err != nil {
		log.Warn("cache customer", "customer_id", id, "error", err)
	}
	return customer, nil
}

// List returns a page of customers ordered by id.
func (s *CustomerService) List(ctx context.Context, skip, limit int) ([]models.Customer, error) {
	log := logger.WithCtx(ctx, s.log)

	var customers []models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		customers, err = s.customers.List(tx, skip, limit)
		return err
	})
	if err != nil {
		return nil, apperr.Fail(log, apperr.Internal, "list customers", err)
	}
	return customers, nil
}

// Update applies the non-nil fields of in to the customer. Code and
// subject reference are untouched by design.
func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerUpdateInput) (models.Customer, error) {
	log := logger.WithCtx(ctx, s.log)

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Customer{}, apperr.Fail(log, apperr.Validation, firstError(errs), nil)
	}

	var customer models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		customer, err = s.customers.FindByID(tx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			customer.Name = *in.Name
		}
		if in.Phone != nil {
			customer.Phone = *in.Phone
		}
		return s.customers.Save(tx, &customer)
	})
	if err != nil {
		return models.Customer{}, s.notFoundOr(log, err, "update customer", id)
	}

	if err := s.cache.Del(ctx, customerCacheKey(id)); err != nil {
		log.Warn("invalidate customer cache", "customer_id", id, "error", err)
	}
	log.Info("customer updated", "customer_id", customer.ID)
	return customer, nil
}

// Delete removes the customer. The store's foreign key rejects the delete
// while orders still reference the row, surfacing as Conflict.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	log := logger.WithCtx(ctx, s.log)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.FindByID(tx, id)
		if err != nil {
			return err
		}
		return s.customers.Delete(tx, &customer)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Fail(log, apperr.NotFound, "customer not found", err)
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperr.Fail(log, apperr.Conflict,
				"customer still has orders", err)
		}
		return apperr.Fail(log, apperr.Internal, "delete customer", err)
	}

	if err := s.cache.Del(ctx, customerCacheKey(id)); err != nil {
		log.Warn("invalidate customer cache", "customer_id", id, "error", err)
	}
	log.Info("customer deleted", "customer_id", id)
	return nil
}

// OrderCount returns how many orders the customer owns. An unknown
// customer id yields 0, not NotFound; this mirrors the permissive
// behaviour of ListByCustomer.
func (s *CustomerService) OrderCount(ctx context.Context, id uint) (int64, error) {
	log := logger.WithCtx(ctx, s.log)

	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		count, err = s.orders.CountByCustomer(tx, id)
		return err
	})
	if err != nil {
		return 0, apperr.Fail(log, apperr.Internal, "count customer orders", err)
	}
	return count, nil
}

// RecentOrders returns the customer with their newest orders embedded,
// newest first, at most limit. Unlike OrderCount this fails with NotFound
// for an unknown customer.
func (s *CustomerService) RecentOrders(ctx context.Context, id uint, limit int) (CustomerWithOrders, error) {
	log := logger.WithCtx(ctx, s.log)

	var out CustomerWithOrders
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.FindByID(tx, id)
		if err != nil {
			return err
		}
		orders, err := s.orders.RecentByCustomer(tx, id, limit)
		if err != nil {
			return err
		}
		out = CustomerWithOrders{Customer: customer, RecentOrders: orders}
		return nil
	})
	if err != nil {
		return CustomerWithOrders{}, s.notFoundOr(log, err, "recent customer orders", id)
	}
	return out, nil
}

func (s *CustomerService) notFoundOr(log *slog.Logger, err error, op string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Fail(log, apperr.NotFound, "customer not found", err)
	}
	return apperr.Fail(log, apperr.Internal, op, err)
}

// firstError picks a deterministic message out of a validation error map.
func firstError(errs map[string]string) string {
	first := ""
	for _, msg := range errs {
		if first == "" || msg < first {
			first = msg
		}
	}
	return first
}
