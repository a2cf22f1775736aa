package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/savannah/pkg/auth"
	"github.com/shashiranjanraj/savannah/pkg/response"
)

type identityKey struct{}

// IdentityFromCtx returns the authenticated caller stored by Auth.
func IdentityFromCtx(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*auth.Identity)
	return id, ok
}

// Auth validates the bearer token and stores the caller identity in the
// request context. Requests without a valid token get a 401.
func Auth(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				response.Unauthorized(w)
				return
			}

			id, err := verifier.Verify(token)
			if err != nil {
				response.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
