package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/savannah/app/services"
	"github.com/shashiranjanraj/savannah/pkg/bind"
	"github.com/shashiranjanraj/savannah/pkg/response"
)

// OrderController serves the /api/orders routes.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Create places an order. The confirmation SMS is scheduled after commit;
// the response never waits for it.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderCreateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Create(r.Context(), in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, order)
}

// Get returns one order by id.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	order, err := c.orders.GetByID(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, order)
}

// List returns a page of all orders.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	orders, err := c.orders.List(r.Context(), skip, limit)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, orders)
}

// ListByCustomer returns a page of one customer's orders. An unknown
// customer id yields an empty page rather than a 404.
func (c *OrderController) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	skip, limit := pagination(r)

	orders, err := c.orders.ListByCustomer(r.Context(), customerID, skip, limit)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, orders)
}

// UpdateStatus overwrites the order's status.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in services.OrderStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), id, in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, order)
}

// Delete removes an order.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := c.orders.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
