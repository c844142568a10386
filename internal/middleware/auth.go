package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// Auth validates the Bearer token and loads the account it names. The user
// is re-read from the store on every request, so deactivating an account
// locks it out immediately instead of when its token expires.
func Auth(validator JWTValidator, users domain.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "provide a valid Bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil || claims.Subject == "" {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			u, err := users.GetByID(r.Context(), claims.Subject)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}
			if !u.IsActive {
				writeUnauthorized(w, "user account is disabled")
				return
			}

			ctx := domain.WithUser(r.Context(), domain.ContextUser{
				ID:          u.ID,
				Email:       u.Email,
				Username:    u.Username,
				IsSuperuser: u.IsSuperuser,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized: " + message,
	})
}
