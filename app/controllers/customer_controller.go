// Package controllers translates HTTP requests into workflow calls and
// workflow results into JSON responses. No business rules live here.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/savannah/app/services"
	"github.com/shashiranjanraj/savannah/pkg/bind"
	"github.com/shashiranjanraj/savannah/pkg/middleware"
	"github.com/shashiranjanraj/savannah/pkg/response"
)

// CustomerController serves the /api/customers routes.
type CustomerController struct {
	customers *services.CustomerService
}

func NewCustomerController(customers *services.CustomerService) *CustomerController {
	return &CustomerController{customers: customers}
}

type createCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Phone string `json:"phone_number" validate:"required,phone"`
}

// Create registers a customer for the authenticated caller. The subject
// reference comes from the verified token, never from the body.
func (c *CustomerController) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	var req createCustomerRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customer, err := c.customers.Create(r.Context(), services.CustomerCreateInput{
		Name:       req.Name,
		Phone:      req.Phone,
		SubjectRef: id.Subject,
	})
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, customer)
}

// Get returns one customer by id.
func (c *CustomerController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	customer, err := c.customers.GetByID(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, customer)
}

// List returns a page of customers; ?skip= and ?limit= control the page.
func (c *CustomerController) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)

	customers, err := c.customers.List(r.Context(), skip, limit)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, customers)
}

// Update applies a partial update; absent fields stay unchanged.
func (c *CustomerController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in services.CustomerUpdateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customer, err := c.customers.Update(r.Context(), id, in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, customer)
}

// Delete removes a customer that has no orders.
func (c *CustomerController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := c.customers.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}

// OrderCount returns how many orders the customer owns.
func (c *CustomerController) OrderCount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	count, err := c.customers.OrderCount(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, map[string]int64{"order_count": count})
}

// RecentOrders returns the customer with their newest orders embedded;
// ?limit= caps the embedded list (default 5).
func (c *CustomerController) RecentOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 5)
	aggregate, err := c.customers.RecentOrders(r.Context(), id, limit)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, aggregate)
}

// pathID parses the named path parameter as an id, writing a 400 on
// failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid id "+strconv.Quote(raw))
		return 0, false
	}
	return uint(id), true
}

func queryInt(r *http.Request, name string, fallback int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil && n >= 0 {
		return n
	}
	return fallback
}

func pagination(r *http.Request) (skip, limit int) {
	return queryInt(r, "skip", 0), queryInt(r, "limit", 10)
}
