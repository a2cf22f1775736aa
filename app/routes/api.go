// Package routes wires controllers onto the named router.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/savannah/app/controllers"
	"github.com/shashiranjanraj/savannah/pkg/auth"
	"github.com/shashiranjanraj/savannah/pkg/metrics"
	"github.com/shashiranjanraj/savannah/pkg/middleware"
	"github.com/shashiranjanraj/savannah/pkg/rbac"
	"github.com/shashiranjanraj/savannah/pkg/router"
	"github.com/shashiranjanraj/savannah/pkg/ws"
)

// Controllers bundles everything RegisterAPI mounts.
type Controllers struct {
	Health    *controllers.HealthController
	Customers *controllers.CustomerController
	Orders    *controllers.OrderController
	Export    *controllers.ExportController
	GraphQL   *controllers.GraphQLController
}

// RoleAdmin gates destructive and bulk operations.
const RoleAdmin = "admin"

// RegisterAPI mounts every route. All /api routes require a valid bearer
// token; deletes and exports additionally require the admin role.
func RegisterAPI(r *router.Router, c Controllers, verifier *auth.Verifier, m *metrics.Metrics, feed *ws.Hub) {
	r.Get("/health", "health", c.Health.Check)
	r.Get("/metrics", "metrics", m.Handler())
	r.Get("/ws/orders", "orders.feed", func(w http.ResponseWriter, req *http.Request) {
		feed.Upgrade(w, req)
	})

	api := r.Group("/api", middleware.Auth(verifier))
	admin := rbac.HasRole(RoleAdmin)

	customers := api.Group("/customers")
	customers.Post("/", "customers.create", c.Customers.Create)
	customers.Get("/", "customers.list", c.Customers.List)
	customers.Get("/{id}", "customers.get", c.Customers.Get)
	customers.Patch("/{id}", "customers.update", c.Customers.Update)
	customers.Delete("/{id}", "customers.delete", c.Customers.Delete, admin)
	customers.Get("/{id}/order_count", "customers.order_count", c.Customers.OrderCount)
	customers.Get("/{id}/recent_orders", "customers.recent_orders", c.Customers.RecentOrders)

	orders := api.Group("/orders")
	orders.Post("/", "orders.create", c.Orders.Create)
	orders.Get("/", "orders.list", c.Orders.List)
	orders.Get("/{id}", "orders.get", c.Orders.Get)
	orders.Patch("/{id}", "orders.update_status", c.Orders.UpdateStatus)
	orders.Delete("/{id}", "orders.delete", c.Orders.Delete, admin)
	orders.Get("/customers/{id}", "orders.by_customer", c.Orders.ListByCustomer)
	orders.Get("/export", "orders.export", c.Export.Orders, admin)

	api.Post("/graphql", "graphql", c.GraphQL.Query)
}
