package middleware

import (
	"context"
	"net/http"
	"strings"

	helper "github.com/TpPoom/POS-System/helper"
	"github.com/TpPoom/POS-System/models"
)

// Context keys to store user information
type contextKey string

const (
	UsernameKey contextKey = "username"
	NameKey     contextKey = "name"
	RoleKey     contextKey = "role"
	UidKey      contextKey = "uid"
)

// Authentication middleware for Gorilla Mux
func Authentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientToken := r.Header.Get("Authorization")
		if clientToken == "" {
			http.Error(w, "No Authorization header provided", http.StatusUnauthorized)
			return
		}

		// Token format should be "Bearer <token>"
		tokenParts := strings.Split(clientToken, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization format", http.StatusUnauthorized)
			return
		}

		claims, errMsg := helper.ValidateToken(tokenParts[1])
		if errMsg != "" {
			http.Error(w, errMsg, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
		ctx = context.WithValue(ctx, NameKey, claims.Name)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)
		ctx = context.WithValue(ctx, UidKey, claims.Uid)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManager gates routes that only the manager role may call.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(RoleKey).(string)
		if role != models.RoleManager {
			http.Error(w, "Manager role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext retrieves user data from the request context
func GetUserFromContext(r *http.Request) (username, name, role, uid string) {
	username, _ = r.Context().Value(UsernameKey).(string)
	name, _ = r.Context().Value(NameKey).(string)
	role, _ = r.Context().Value(RoleKey).(string)
	uid, _ = r.Context().Value(UidKey).(string)
	return
}
