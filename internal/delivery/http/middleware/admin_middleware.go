package middleware

import (
	"net/http"

	"tienda-backend/internal/domain"
	"tienda-backend/pkg/utils"
)

// AdminMiddleware ensures the authenticated caller has the 'admin' role.
// MUST be used AFTER AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, ok := r.Context().Value(domain.AdminContextKey).(*domain.Admin)
		if !ok || admin == nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No user found in context")
			return
		}

		if admin.Role != domain.RoleAdmin {
			utils.WriteError(w, http.StatusForbidden, "Forbidden: Admins only")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminOnly chains AuthMiddleware and AdminMiddleware around h.
func AdminOnly(h http.HandlerFunc) http.Handler {
	return AuthMiddleware(AdminMiddleware(h))
}
