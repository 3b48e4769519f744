package testutil

import (
	"net/http"
	"time"

	id "foodbridge/pkg/domain"
	"foodbridge/pkg/requestcontext"
)

// AsDonor injects an authenticated donor into the request context, simulating
// what the auth middleware does for real requests.
func AsDonor(req *http.Request, donorID id.DonorID) *http.Request {
	ctx := requestcontext.WithActorRole(req.Context(), requestcontext.RoleDonor)
	ctx = requestcontext.WithDonorID(ctx, donorID)
	return req.WithContext(ctx)
}

// AsNGO injects an authenticated NGO into the request context.
func AsNGO(req *http.Request, ngoID id.NGOID) *http.Request {
	ctx := requestcontext.WithActorRole(req.Context(), requestcontext.RoleNGO)
	ctx = requestcontext.WithNGOID(ctx, ngoID)
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped clock, as the request-time
// middleware does, so expiry checks in handlers are deterministic.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
