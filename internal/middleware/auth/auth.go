package auth

import (
	"context"
	"net/http"

	resp "dealtracker/internal/lib/api/response"
	"dealtracker/internal/lib/jwt"

	"github.com/go-chi/render"
)

type contextKey string

// ExternalIDKey carries the identity-provider subject of the caller.
const ExternalIDKey contextKey = "external_id"

// New authenticates every request on the wrapped routes and stores the
// caller's external id in the request context.
func New(jwtParser *jwt.JWTParser) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			externalID, err := jwtParser.ParseToken(r.Header.Get("Authorization"))
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ExternalIDKey, externalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission additionally checks a permission claim, for the
// moderator-only routes.
func RequirePermission(jwtParser *jwt.JWTParser, permission string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := jwtParser.CheckPermission(r.Header.Get("Authorization"), permission); err != nil {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, resp.Error("Forbidden"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
