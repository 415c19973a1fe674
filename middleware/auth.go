package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/mvavassori/digital-mall/models"
	"github.com/mvavassori/digital-mall/utils"
)

// added because of type complains
type contextKey string

const UserIdKey contextKey = "userId"
const RoleKey contextKey = "role"

func bearerToken(r *http.Request) (string, bool) {
	tokenString := r.Header.Get("Authorization")
	if tokenString == "" {
		return "", false
	}

	parts := strings.Split(tokenString, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

func claimsFromToken(tokenString string) (jwt.MapClaims, error) {
	token, err := utils.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return token.Claims.(jwt.MapClaims), nil
}

// AuthMiddleware requires a valid token and puts the caller's id and role on
// the request context for downstream handlers.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := claimsFromToken(raw)
		if err != nil {
			log.Println(err.Error())
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userId, _ := claims["userId"].(string)
		role, _ := claims["role"].(string)

		ctx := context.WithValue(r.Context(), UserIdKey, userId)
		ctx = context.WithValue(ctx, RoleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware additionally requires the admin role. The dashboard
// aggregation and management routes all sit behind it.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := claimsFromToken(raw)
		if err != nil {
			log.Println(err.Error())
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		userId, _ := claims["userId"].(string)
		role, _ := claims["role"].(string)
		if role != models.RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), UserIdKey, userId)
		ctx = context.WithValue(ctx, RoleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthMiddleware attaches the caller's identity when a valid token is
// present and lets the request through either way. The public ingestion
// endpoint uses it so events from logged-in staff get attributed, while
// anonymous traffic is never rejected.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := claimsFromToken(raw)
		if err != nil {
			// A broken token on a public route is not an error condition.
			next.ServeHTTP(w, r)
			return
		}

		userId, _ := claims["userId"].(string)
		role, _ := claims["role"].(string)

		ctx := context.WithValue(r.Context(), UserIdKey, userId)
		ctx = context.WithValue(ctx, RoleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
