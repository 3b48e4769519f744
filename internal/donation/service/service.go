// Package service orchestrates the donation lifecycle: validation, atomic
// state transitions, claim serialization, event emission and metrics.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"foodbridge/internal/donation/claimlock"
	"foodbridge/internal/donation/events"
	donationmetrics "foodbridge/internal/donation/metrics"
	"foodbridge/internal/donation/models"
	"foodbridge/internal/donation/store"
	id "foodbridge/pkg/domain"
	dErrors "foodbridge/pkg/domain-errors"
	"foodbridge/pkg/platform/sentinel"
	"foodbridge/pkg/requestcontext"
)

// Service owns every donation state transition. Reads for matching go through
// the store directly (internal/matching); writes come through here.
type Service struct {
	donations store.Store
	locker    claimlock.Locker
	publisher events.Publisher
	metrics   *donationmetrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

type serviceConfig struct {
	locker    claimlock.Locker
	publisher events.Publisher
	metrics   *donationmetrics.Metrics
	logger    *slog.Logger
}

// Option customizes the service.
type Option func(*serviceConfig)

func WithLocker(l claimlock.Locker) Option {
	return func(c *serviceConfig) { c.locker = l }
}

func WithPublisher(p events.Publisher) Option {
	return func(c *serviceConfig) { c.publisher = p }
}

func WithMetrics(m *donationmetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = l }
}

func New(donations store.Store, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.locker == nil {
		cfg.locker = claimlock.NewMemory()
	}
	if cfg.publisher == nil {
		cfg.publisher = events.Nop{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		donations: donations,
		locker:    cfg.locker,
		publisher: cfg.publisher,
		metrics:   cfg.metrics,
		logger:    cfg.logger,
		tracer:    otel.Tracer("foodbridge/donation"),
	}
}

// Create validates a donor submission and stores it as available.
func (s *Service) Create(ctx context.Context, donorID id.DonorID, in models.CreateDonationInput) (*models.Donation, error) {
	if donorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "donor id is required")
	}

	d, err := models.NewDonation(id.NewDonationID(), donorID, in, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.donations.Create(ctx, d); err != nil {
		return nil, s.translate(err, "create donation")
	}

	s.metrics.IncCreated()
	s.emit(ctx, events.Event{
		Type:       events.TypeCreated,
		DonationID: d.ID,
		DonorID:    d.DonorID,
		OccurredAt: d.CreatedAt,
	})
	return d, nil
}

// Get fetches one donation.
func (s *Service) Get(ctx context.Context, donationID id.DonationID) (*models.Donation, error) {
	d, err := s.donations.FindByID(ctx, donationID)
	if err != nil {
		return nil, s.translate(err, "get donation")
	}
	return d, nil
}

// ListByDonor returns every donation owned by the donor, newest first
// guaranteed only by the store's ordering.
func (s *Service) ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.Donation, error) {
	out, err := s.donations.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, s.translate(err, "list donations by donor")
	}
	return out, nil
}

// ListClaimedBy returns the donations currently claimed (or picked) by the NGO.
func (s *Service) ListClaimedBy(ctx context.Context, ngoID id.NGOID) ([]*models.Donation, error) {
	out, err := s.donations.ListClaimedBy(ctx, ngoID)
	if err != nil {
		return nil, s.translate(err, "list claims")
	}
	return out, nil
}

// Update edits descriptive fields while the donation is still available.
func (s *Service) Update(ctx context.Context, donationID id.DonationID, requesterID id.DonorID, in models.UpdateDonationInput) (*models.Donation, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	d, err := s.donations.Execute(ctx, donationID,
		func(cur *models.Donation) error { return cur.CanUpdate(requesterID) },
		func(cur *models.Donation) { cur.ApplyUpdate(in, now) },
	)
	if err != nil {
		return nil, s.translate(err, "update donation")
	}

	s.emit(ctx, events.Event{
		Type:       events.TypeUpdated,
		DonationID: d.ID,
		DonorID:    d.DonorID,
		OccurredAt: now,
	})
	return d, nil
}

// Claim reserves an available, non-expired donation for the NGO. The
// per-donation lock plus the store's Execute guarantee that under N
// concurrent attempts exactly one succeeds and the rest get a conflict.
func (s *Service) Claim(ctx context.Context, donationID id.DonationID, ngoID id.NGOID) (*models.Donation, error) {
	if ngoID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ngo id is required")
	}

	ctx, span := s.tracer.Start(ctx, "donation.claim",
		trace.WithAttributes(attribute.String("donation.id", donationID.String())))
	defer span.End()

	start := time.Now()
	defer s.metrics.ObserveClaim(start)

	release, err := s.locker.Acquire(ctx, donationID)
	if err != nil {
		return nil, s.translate(err, "acquire claim lock")
	}
	defer release()

	now := requestcontext.Now(ctx)
	d, err := s.donations.Execute(ctx, donationID,
		func(cur *models.Donation) error { return cur.CanClaim(now) },
		func(cur *models.Donation) { cur.ApplyClaim(ngoID, now) },
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.metrics.IncClaimConflict()
		}
		return nil, s.translate(err, "claim donation")
	}

	s.metrics.IncClaimed()
	s.emit(ctx, events.Event{
		Type:       events.TypeClaimed,
		DonationID: d.ID,
		DonorID:    d.DonorID,
		NGOID:      d.ClaimedBy,
		OccurredAt: now,
	})
	s.logger.InfoContext(ctx, "donation claimed",
		"donation_id", d.ID.String(),
		"ngo_id", ngoID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return d, nil
}

// MarkPicked confirms the physical pickup by the claiming NGO.
func (s *Service) MarkPicked(ctx context.Context, donationID id.DonationID, claimantID id.NGOID) (*models.Donation, error) {
	if claimantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ngo id is required")
	}

	now := requestcontext.Now(ctx)
	d, err := s.donations.Execute(ctx, donationID,
		func(cur *models.Donation) error { return cur.CanMarkPicked(claimantID) },
		func(cur *models.Donation) { cur.ApplyPicked(now) },
	)
	if err != nil {
		return nil, s.translate(err, "mark donation picked")
	}

	s.metrics.IncPicked()
	s.emit(ctx, events.Event{
		Type:       events.TypePicked,
		DonationID: d.ID,
		DonorID:    d.DonorID,
		NGOID:      d.ClaimedBy,
		OccurredAt: now,
	})
	return d, nil
}

// Delete hard-removes a donation. Only the owner may delete, and only while
// the donation is available (including expired-but-available). The claim lock
// is held so a delete cannot interleave with a concurrent claim.
func (s *Service) Delete(ctx context.Context, donationID id.DonationID, requesterID id.DonorID) error {
	release, err := s.locker.Acquire(ctx, donationID)
	if err != nil {
		return s.translate(err, "acquire claim lock")
	}
	defer release()

	d, err := s.donations.FindByID(ctx, donationID)
	if err != nil {
		return s.translate(err, "delete donation")
	}
	if err := d.CanDelete(requesterID); err != nil {
		return err
	}

	if err := s.donations.Delete(ctx, donationID); err != nil {
		return s.translate(err, "delete donation")
	}

	s.metrics.IncDeleted()
	s.emit(ctx, events.Event{
		Type:       events.TypeDeleted,
		DonationID: d.ID,
		DonorID:    d.DonorID,
		OccurredAt: requestcontext.Now(ctx),
	})
	return nil
}

// emit publishes best-effort: a transition never fails because the broker is
// down, but the loss is logged.
func (s *Service) emit(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish donation event",
			"event_type", string(event.Type),
			"donation_id", event.DonationID.String(),
			"error", err,
		)
	}
}

// translate turns store sentinels into coded domain errors. Domain errors
// from transition validators pass through unchanged.
func (s *Service) translate(err error, op string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "donation not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "donation was modified concurrently")
	case errors.Is(err, sentinel.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, op)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, op)
	}
}
