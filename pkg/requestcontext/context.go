// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
// The request-scoped time is load-bearing: a match computation or a claim
// decision must evaluate "now" exactly once per operation, so every consumer
// reads Now(ctx) instead of calling time.Now directly.
package requestcontext

import (
	"context"
	"time"

	id "foodbridge/pkg/domain"
)

// Actor roles as carried in JWT claims.
const (
	RoleDonor = "donor"
	RoleNGO   = "ngo"
)

// Context key types (unexported for encapsulation).
type (
	donorIDKey     struct{}
	ngoIDKey       struct{}
	actorRoleKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// DonorID retrieves the authenticated donor ID from the context.
// Returns the zero value (nil UUID) if not set.
func DonorID(ctx context.Context) id.DonorID {
	if v, ok := ctx.Value(donorIDKey{}).(id.DonorID); ok {
		return v
	}
	return id.DonorID{}
}

// WithDonorID injects a donor ID into the context.
func WithDonorID(ctx context.Context, donorID id.DonorID) context.Context {
	return context.WithValue(ctx, donorIDKey{}, donorID)
}

// NGOID retrieves the authenticated NGO ID from the context.
// Returns the zero value (nil UUID) if not set.
func NGOID(ctx context.Context) id.NGOID {
	if v, ok := ctx.Value(ngoIDKey{}).(id.NGOID); ok {
		return v
	}
	return id.NGOID{}
}

// WithNGOID injects an NGO ID into the context.
func WithNGOID(ctx context.Context, ngoID id.NGOID) context.Context {
	return context.WithValue(ctx, ngoIDKey{}, ngoID)
}

// ActorRole retrieves the authenticated actor's role ("donor" or "ngo").
func ActorRole(ctx context.Context) string {
	if v, ok := ctx.Value(actorRoleKey{}).(string); ok {
		return v
	}
	return ""
}

// WithActorRole injects the actor role into the context.
func WithActorRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, actorRoleKey{}, role)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Used by the request-time
// middleware and by tests that need a fixed clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
