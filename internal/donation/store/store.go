// Package store persists donations. Implementations return
// pkg/platform/sentinel errors; the service layer translates them into coded
// domain errors.
package store

import (
	"context"

	"foodbridge/internal/donation/models"
	id "foodbridge/pkg/domain"
)

// Store is the narrow contract the lifecycle and matching engines depend on.
//
// Execute is the claim-critical primitive: it loads the donation, runs
// validate and mutate while holding an exclusive lock on that record (mutex in
// memory, SELECT ... FOR UPDATE in Postgres), and persists the result. At most
// one concurrent caller observes a state change; the rest fail validation
// against the already-mutated record.
type Store interface {
	Create(ctx context.Context, d *models.Donation) error
	FindByID(ctx context.Context, donationID id.DonationID) (*models.Donation, error)
	ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.Donation, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Donation, error)
	ListClaimedBy(ctx context.Context, ngoID id.NGOID) ([]*models.Donation, error)
	Update(ctx context.Context, d *models.Donation) error
	Delete(ctx context.Context, donationID id.DonationID) error
	Execute(ctx context.Context, donationID id.DonationID,
		validate func(*models.Donation) error,
		mutate func(*models.Donation)) (*models.Donation, error)
}
