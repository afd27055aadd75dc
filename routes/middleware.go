package routes

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelmate_server/utils"
)

// AuthMiddleware validates the Bearer token on protected routes and
// attaches the caller's identity to the request context. Handlers
// never trust a client-supplied user id where the token identity is
// available.
func AuthMiddleware(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ParseToken(strings.TrimPrefix(auth, "Bearer "), secret)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := utils.WithIdentity(r.Context(), utils.Identity{
				UserID: claims.Subject,
				Email:  claims.Email,
				Name:   claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
