package store

import (
	"context"
	"sync"

	"foodbridge/internal/donation/models"
	id "foodbridge/pkg/domain"
	"foodbridge/pkg/platform/sentinel"
)

// InMemory is the development and test implementation of Store.
// All reads return copies so callers can never mutate stored state without
// going through Update or Execute.
type InMemory struct {
	mu        sync.RWMutex
	donations map[id.DonationID]*models.Donation
}

func NewInMemory() *InMemory {
	return &InMemory{donations: make(map[id.DonationID]*models.Donation)}
}

func (s *InMemory) Create(_ context.Context, d *models.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.donations[d.ID]; exists {
		return sentinel.ErrConflict
	}
	s.donations[d.ID] = clone(d)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, donationID id.DonationID) (*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donations[donationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(d), nil
}

func (s *InMemory) ListByDonor(_ context.Context, donorID id.DonorID) ([]*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Donation
	for _, d := range s.donations {
		if d.DonorID == donorID {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Donation
	for _, d := range s.donations {
		if d.Status == status {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (s *InMemory) ListClaimedBy(_ context.Context, ngoID id.NGOID) ([]*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Donation
	for _, d := range s.donations {
		if d.ClaimedBy != nil && *d.ClaimedBy == ngoID {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (s *InMemory) Update(_ context.Context, d *models.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.donations[d.ID] = clone(d)
	return nil
}

func (s *InMemory) Delete(_ context.Context, donationID id.DonationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[donationID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.donations, donationID)
	return nil
}

// Execute holds the store lock across validate and mutate so concurrent
// transitions against the same donation serialize here.
func (s *InMemory) Execute(_ context.Context, donationID id.DonationID,
	validate func(*models.Donation) error,
	mutate func(*models.Donation)) (*models.Donation, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.donations[donationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	working := clone(d)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.donations[donationID] = working

	return clone(working), nil
}

func clone(d *models.Donation) *models.Donation {
	cp := *d
	if d.ClaimedBy != nil {
		claimedBy := *d.ClaimedBy
		cp.ClaimedBy = &claimedBy
	}
	if d.PickupWin != nil {
		win := *d.PickupWin
		cp.PickupWin = &win
	}
	return &cp
}
