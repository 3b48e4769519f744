// Package claimlock serializes claim attempts per donation.
//
// The store's Execute callback already makes a single transition atomic; the
// locker in front of it keeps concurrent claimants for the SAME donation in a
// deterministic queue (first acquires, commits, the rest observe the claimed
// record and fail with a conflict) without ever blocking claims on other
// donations. The Redis locker extends the same guarantee across server
// instances that do not share an in-process mutex.
package claimlock

import (
	"context"
	"sync"

	id "foodbridge/pkg/domain"
)

// Locker grants a per-donation exclusive section. Acquire blocks until the
// section is free or ctx is done; the returned release function must be called
// unconditionally, on success and failure alike.
type Locker interface {
	Acquire(ctx context.Context, donationID id.DonationID) (release func(), err error)
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Memory is the single-process Locker. Entries are reference-counted so the
// map does not grow with every donation ever claimed.
type Memory struct {
	mu    sync.Mutex
	locks map[id.DonationID]*lockEntry
}

func NewMemory() *Memory {
	return &Memory{locks: make(map[id.DonationID]*lockEntry)}
}

func (m *Memory) Acquire(ctx context.Context, donationID id.DonationID) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	entry, ok := m.locks[donationID]
	if !ok {
		entry = &lockEntry{}
		m.locks[donationID] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			entry.mu.Unlock()
			m.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(m.locks, donationID)
			}
			m.mu.Unlock()
		})
	}
	return release, nil
}
