package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	jwttoken "foodbridge/internal/jwt_token"
	id "foodbridge/pkg/domain"
	"foodbridge/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// RequireAuth validates the bearer token and injects the actor's typed ID and
// role into the request context. Donor and NGO subjects become DonorID/NGOID
// respectively; handlers downstream read them via requestcontext.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				unauthorized(w)
				return
			}

			ctx = requestcontext.WithActorRole(ctx, claims.Role)
			switch claims.Role {
			case requestcontext.RoleDonor:
				donorID, err := id.ParseDonorID(claims.Subject)
				if err != nil {
					unauthorized(w)
					return
				}
				ctx = requestcontext.WithDonorID(ctx, donorID)
			case requestcontext.RoleNGO:
				ngoID, err := id.ParseNGOID(claims.Subject)
				if err != nil {
					unauthorized(w)
					return
				}
				ctx = requestcontext.WithNGOID(ctx, ngoID)
			default:
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose authenticated actor has a different role.
// Must run after RequireAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requestcontext.ActorRole(r.Context()) != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
}
