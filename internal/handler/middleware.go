package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const (
	employeeIDKey contextKey = "employeeID"
	roleKey       contextKey = "role"
	branchIDKey   contextKey = "branchID"
)

// JWTAuthMiddleware validates Bearer tokens and injects the employee's
// identity, role and branch into the request context.
func JWTAuthMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "authentication token not provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			claims, err := authSvc.ValidateAccessToken(parts[1])
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), employeeIDKey, claims.Sub)
			ctx = context.WithValue(ctx, roleKey, claims.Role)
			ctx = context.WithValue(ctx, branchIDKey, claims.Branch)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group behind a minimum role.
// Admin > Manager > Employee.
func RequireRole(min domain.Role, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role.Level() < min.Level() {
				logger.Warn("auth: insufficient role",
					zap.String("path", r.URL.Path),
					zap.String("role", string(role)),
					zap.String("required", string(min)),
				)
				writeError(w, http.StatusForbidden, "insufficient role for this operation")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EmployeeIDFromContext extracts the authenticated employee id.
func EmployeeIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(employeeIDKey).(string)
	return v
}

// RoleFromContext extracts the authenticated employee's role.
func RoleFromContext(ctx context.Context) domain.Role {
	v, _ := ctx.Value(roleKey).(domain.Role)
	return v
}

// BranchIDFromContext extracts the authenticated employee's branch.
func BranchIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(branchIDKey).(string)
	return v
}
