// Package models defines the NGO operational profile.
package models

import (
	"time"

	id "foodbridge/pkg/domain"
	dErrors "foodbridge/pkg/domain-errors"
	"foodbridge/pkg/geo"
)

// Operational radius bounds in kilometers.
const (
	DefaultRadiusKm = 20
	MinRadiusKm     = 1
	MaxRadiusKm     = 100
)

// Profile is an NGO's matching configuration: where it operates from and how
// far it is willing to travel for a pickup.
type Profile struct {
	ID                  id.NGOID
	Name                string
	Address             string
	Coordinates         geo.Coordinates
	OperationalRadiusKm int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasCoordinates reports whether the profile carries a usable location.
// Exact (0,0) means "never set"; proximity matching is inactive without it.
func (p *Profile) HasCoordinates() bool {
	return p.Coordinates.IsSet()
}

// DefaultProfile is what an NGO looks like before it ever saves settings.
func DefaultProfile(ngoID id.NGOID, now time.Time) *Profile {
	return &Profile{
		ID:                  ngoID,
		OperationalRadiusKm: DefaultRadiusKm,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// ValidateRadius enforces the integer kilometer bounds shared by profile
// updates and per-request radius overrides.
func ValidateRadius(radiusKm int) error {
	if radiusKm < MinRadiusKm || radiusKm > MaxRadiusKm {
		return dErrors.Newf(dErrors.CodeInvalidInput,
			"radius must be between %d and %d km, got %d", MinRadiusKm, MaxRadiusKm, radiusKm)
	}
	return nil
}
