// Package rbac gates routes on provider roles. It reads the identity that
// middleware.Auth stored, so Auth must run earlier in the chain.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/savannah/pkg/middleware"
	"github.com/shashiranjanraj/savannah/pkg/response"
)

// HasRole allows the request through when the caller carries at least one
// of the given roles.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := middleware.IdentityFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			for _, role := range roles {
				if id.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w)
		})
	}
}
