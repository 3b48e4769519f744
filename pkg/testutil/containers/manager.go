//go:build integration

package containers

import (
	"context"
	"sync"
	"testing"

	_ "github.com/lib/pq"

	donationstore "foodbridge/internal/donation/store"
	ngostore "foodbridge/internal/ngo/store"
)

// Manager shares one container per backend across every integration suite in
// the package run. Containers are reaped by Ryuk when the run ends.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
}

var manager = &Manager{}

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	return manager
}

// GetPostgres returns the shared Postgres container, starting it and applying
// the application schema on first use.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.postgres == nil {
		pc := NewPostgresContainer(t)
		if err := pc.ApplySchema(context.Background(),
			donationstore.Schema, ngostore.Schema); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
		m.postgres = pc
	}
	return m.postgres
}

// GetRedis returns the shared Redis container, starting it on first use.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.redis == nil {
		m.redis = NewRedisContainer(t)
	}
	return m.redis
}
