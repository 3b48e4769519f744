package store

import (
	"context"
	"sync"

	"foodbridge/internal/ngo/models"
	id "foodbridge/pkg/domain"
	"foodbridge/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and single-node deployments.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[id.NGOID]*models.Profile
}

func NewInMemory() *InMemory {
	return &InMemory{profiles: make(map[id.NGOID]*models.Profile)}
}

func (s *InMemory) FindByID(_ context.Context, ngoID id.NGOID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[ngoID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(p), nil
}

func (s *InMemory) Save(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = clone(profile)
	return nil
}

// clone keeps callers from mutating stored state through returned pointers.
func clone(p *models.Profile) *models.Profile {
	cp := *p
	return &cp
}
