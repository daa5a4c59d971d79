package middleware

import (
	"context"
	"net/http"

	"tienda-backend/internal/domain"
	"tienda-backend/pkg/logger"
	"tienda-backend/pkg/utils"
)

// AuthMiddleware validates the bearer token and stores the caller in the context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := utils.TokenFromRequest(r)
		if tokenString == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		// Token claims are trusted as-is; there is no local user table.
		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		admin := &domain.Admin{ID: sub, Email: email, Role: role}

		ctx := context.WithValue(r.Context(), domain.AdminContextKey, admin)
		reqLogger := logger.WithUserID(*logger.WithContext(ctx), sub)
		ctx = logger.NewContext(ctx, &reqLogger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
