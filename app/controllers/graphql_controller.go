package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/savannah/app/services"
	"github.com/shashiranjanraj/savannah/pkg/response"
)

// GraphQLController serves a read-only query surface over customers and
// orders. There are deliberately no mutations: all writes go through the
// REST workflow endpoints.
type GraphQLController struct {
	schema graphql.Schema
}

func NewGraphQLController(customers *services.CustomerService, orders *services.OrderService) (*GraphQLController, error) {
	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.Int},
			"customerId": &graphql.Field{Type: graphql.Int},
			"item":       &graphql.Field{Type: graphql.String},
			"quantity":   &graphql.Field{Type: graphql.Int},
			"amount":     &graphql.Field{Type: graphql.Float},
			"status":     &graphql.Field{Type: graphql.String},
		},
	})

	customerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.Int},
			"name":  &graphql.Field{Type: graphql.String},
			"code":  &graphql.Field{Type: graphql.String},
			"phone": &graphql.Field{Type: graphql.String},
		},
	})

	pageArgs := graphql.FieldConfigArgument{
		"skip":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
		"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
	}

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"customer": &graphql.Field{
				Type: customerType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					c, err := customers.GetByID(p.Context, uint(p.Args["id"].(int)))
					if err != nil {
						return nil, err
					}
					return graphqlCustomer(c.ID, c.Name, c.Code, c.Phone), nil
				},
			},
			"customers": &graphql.Field{
				Type: graphql.NewList(customerType),
				Args: pageArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					list, err := customers.List(p.Context, p.Args["skip"].(int), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, c := range list {
						out[i] = graphqlCustomer(c.ID, c.Name, c.Code, c.Phone)
					}
					return out, nil
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					o, err := orders.GetByID(p.Context, uint(p.Args["id"].(int)))
					if err != nil {
						return nil, err
					}
					return graphqlOrder(o.ID, o.CustomerID, o.Item, o.Quantity, o.Amount, string(o.Status)), nil
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: pageArgs,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					list, err := orders.List(p.Context, p.Args["skip"].(int), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, o := range list {
						out[i] = graphqlOrder(o.ID, o.CustomerID, o.Item, o.Quantity, o.Amount, string(o.Status))
					}
					return out, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: rootQuery})
	if err != nil {
		return nil, err
	}
	return &GraphQLController{schema: schema}, nil
}

func graphqlCustomer(id uint, name, code, phone string) map[string]any {
	return map[string]any{"id": int(id), "name": name, "code": code, "phone": phone}
}

func graphqlOrder(id, customerID uint, item string, quantity int, amount float64, status string) map[string]any {
	return map[string]any{
		"id": int(id), "customerId": int(customerID), "item": item,
		"quantity": quantity, "amount": amount, "status": status,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Query executes a GraphQL query posted as {"query": ..., "variables": ...}.
func (c *GraphQLController) Query(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         c.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result) //nolint:errcheck
}
