// Package store persists NGO profiles.
package store

import (
	"context"

	"foodbridge/internal/ngo/models"
	id "foodbridge/pkg/domain"
)

// Store is the NGO profile persistence contract. Implementations return
// sentinel errors (pkg/platform/sentinel); services translate them.
type Store interface {
	// FindByID returns the stored profile or sentinel.ErrNotFound.
	FindByID(ctx context.Context, ngoID id.NGOID) (*models.Profile, error)
	// Save inserts or replaces the profile keyed by its ID.
	Save(ctx context.Context, profile *models.Profile) error
}
