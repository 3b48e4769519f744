// Package matching computes which available donations an NGO can reach.
//
// Matching is a read path: results are recomputed per call from current store
// state and may race with concurrent claims. A stale match surfaces later as
// a conflict on claim; only the claim transition needs exclusivity.
package matching

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	donationmetrics "foodbridge/internal/donation/metrics"
	"foodbridge/internal/donation/models"
	donationstore "foodbridge/internal/donation/store"
	ngomodels "foodbridge/internal/ngo/models"
	ngoservice "foodbridge/internal/ngo/service"
	id "foodbridge/pkg/domain"
	"foodbridge/pkg/geo"
	"foodbridge/pkg/requestcontext"
)

// Match pairs a donation with its distance from the NGO. DistanceKm is zero
// and meaningless when proximity is inactive.
type Match struct {
	Donation   *models.Donation
	DistanceKm float64
}

// Result is one matching computation. When ProximityActive is false the NGO
// has no saved coordinates, so Matches holds every claimable donation
// unfiltered and unordered by distance.
type Result struct {
	Matches         []Match
	ProximityActive bool
	RadiusKm        int
}

// ProfileReader is the slice of the NGO service the engine needs.
type ProfileReader interface {
	GetProfile(ctx context.Context, ngoID id.NGOID) (*ngomodels.Profile, error)
}

var _ ProfileReader = (*ngoservice.Service)(nil)

// Engine matches available donations against NGO locations.
type Engine struct {
	donations donationstore.Store
	profiles  ProfileReader
	metrics   *donationmetrics.Metrics
	tracer    trace.Tracer
}

func New(donations donationstore.Store, profiles ProfileReader, metrics *donationmetrics.Metrics) *Engine {
	return &Engine{
		donations: donations,
		profiles:  profiles,
		metrics:   metrics,
		tracer:    otel.Tracer("foodbridge/matching"),
	}
}

// FindForNGO loads the NGO's profile and the available donations concurrently,
// then matches against the profile's saved location. radiusOverride, when
// non-nil, replaces the profile radius for this call only.
func (e *Engine) FindForNGO(ctx context.Context, ngoID id.NGOID, radiusOverride *int) (*Result, error) {
	// Range-check the override before touching the store.
	if radiusOverride != nil {
		if err := ngomodels.ValidateRadius(*radiusOverride); err != nil {
			return nil, err
		}
	}

	ctx, span := e.tracer.Start(ctx, "matching.find_for_ngo",
		trace.WithAttributes(attribute.String("ngo.id", ngoID.String())))
	defer span.End()

	var (
		profile   *ngomodels.Profile
		available []*models.Donation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = e.profiles.GetProfile(gctx, ngoID)
		return err
	})
	g.Go(func() error {
		var err error
		available, err = e.donations.ListByStatus(gctx, models.StatusAvailable)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	radiusKm := profile.OperationalRadiusKm
	if radiusOverride != nil {
		radiusKm = *radiusOverride
	}
	return e.match(ctx, available, profile.Coordinates, radiusKm, requestcontext.Now(ctx))
}

// FindAvailable matches against an explicit location, bypassing the stored
// profile. Per-request lat/lng query parameters use this path.
func (e *Engine) FindAvailable(ctx context.Context, ngoLocation geo.Coordinates, radiusKm int, now time.Time) (*Result, error) {
	if err := ngomodels.ValidateRadius(radiusKm); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "matching.find_available")
	defer span.End()

	available, err := e.donations.ListByStatus(ctx, models.StatusAvailable)
	if err != nil {
		return nil, err
	}
	return e.match(ctx, available, ngoLocation, radiusKm, now)
}

func (e *Engine) match(ctx context.Context, available []*models.Donation, ngoLocation geo.Coordinates, radiusKm int, now time.Time) (*Result, error) {
	start := time.Now()

	res := &Result{
		ProximityActive: ngoLocation.IsSet(),
		RadiusKm:        radiusKm,
	}
	for _, d := range available {
		// ListByStatus already filters on status; expiry and the donation's
		// own coordinates are evaluated here against the one request clock.
		if d.IsExpired(now) || !d.HasCoordinates() {
			continue
		}
		if !res.ProximityActive {
			res.Matches = append(res.Matches, Match{Donation: d})
			continue
		}
		dist := geo.DistanceKm(ngoLocation, d.Location.Coordinates)
		if dist <= float64(radiusKm) {
			res.Matches = append(res.Matches, Match{Donation: d, DistanceKm: dist})
		}
	}

	if res.ProximityActive {
		sort.SliceStable(res.Matches, func(i, j int) bool {
			if res.Matches[i].DistanceKm != res.Matches[j].DistanceKm {
				return res.Matches[i].DistanceKm < res.Matches[j].DistanceKm
			}
			return res.Matches[i].Donation.CreatedAt.Before(res.Matches[j].Donation.CreatedAt)
		})
	}

	e.metrics.ObserveMatch(start, len(res.Matches))
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("match.results", len(res.Matches)))
	return res, nil
}
