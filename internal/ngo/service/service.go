// Package service manages NGO operational profiles.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"foodbridge/internal/ngo/models"
	"foodbridge/internal/ngo/store"
	id "foodbridge/pkg/domain"
	dErrors "foodbridge/pkg/domain-errors"
	"foodbridge/pkg/geo"
	"foodbridge/pkg/platform/sentinel"
	"foodbridge/pkg/requestcontext"
)

type Service struct {
	profiles store.Store
	logger   *slog.Logger
}

func New(profiles store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{profiles: profiles, logger: logger}
}

// GetProfile returns the stored profile, or the defaults for an NGO that has
// never saved settings. An NGO always has a usable profile.
func (s *Service) GetProfile(ctx context.Context, ngoID id.NGOID) (*models.Profile, error) {
	if ngoID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ngo id is required")
	}
	p, err := s.profiles.FindByID(ctx, ngoID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.DefaultProfile(ngoID, requestcontext.Now(ctx)), nil
		}
		return nil, translate(err, "get ngo profile")
	}
	return p, nil
}

// UpdateRadius changes the operational radius, creating the profile on first
// write.
func (s *Service) UpdateRadius(ctx context.Context, ngoID id.NGOID, radiusKm int) (*models.Profile, error) {
	if err := models.ValidateRadius(radiusKm); err != nil {
		return nil, err
	}
	p, err := s.GetProfile(ctx, ngoID)
	if err != nil {
		return nil, err
	}

	p.OperationalRadiusKm = radiusKm
	p.UpdatedAt = requestcontext.Now(ctx)
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, translate(err, "save ngo profile")
	}
	return p, nil
}

// UpdateProfileInput carries an NGO settings edit.
type UpdateProfileInput struct {
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	Coordinates geo.Coordinates `json:"coordinates"`
}

// UpdateProfile replaces name, address and location. The radius is managed
// separately so a settings save cannot silently reset it.
func (s *Service) UpdateProfile(ctx context.Context, ngoID id.NGOID, in UpdateProfileInput) (*models.Profile, error) {
	p, err := s.GetProfile(ctx, ngoID)
	if err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Address = strings.TrimSpace(in.Address)
	p.Coordinates = in.Coordinates
	p.UpdatedAt = requestcontext.Now(ctx)
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, translate(err, "save ngo profile")
	}
	return p, nil
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, op)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, op)
	}
}
