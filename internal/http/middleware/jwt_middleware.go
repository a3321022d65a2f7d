package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lagoon/bookings/internal/http/response"
	"github.com/lagoon/bookings/pkg/auth"
	"github.com/lagoon/bookings/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequirePermission verifies the bearer token and the required permission on
// every call. Client-side gating is never sufficient; each privileged route
// re-checks here.
func RequirePermission(secret string, perm auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "missing or invalid authorization header")
				return
			}

			raw := strings.TrimPrefix(authz, "Bearer ")
			claims, err := auth.Parse(raw, secret)
			if err != nil {
				response.Unauthorized(w, "invalid token")
				return
			}

			if !claims.Can(perm) {
				response.Forbidden(w, "insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			ctx = context.WithValue(ctx, logger.AdminIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
