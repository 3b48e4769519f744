package claimlock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "foodbridge/pkg/domain"
)

func TestMemoryLocker_MutualExclusion(t *testing.T) {
	locker := NewMemory()
	donationID := id.NewDonationID()
	ctx := context.Background()

	var inside int32
	var maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Acquire(ctx, donationID)
			require.NoError(t, err)
			defer release()

			cur := atomic.AddInt32(&inside, 1)
			for {
				prev := atomic.LoadInt32(&maxInside)
				if cur <= prev || atomic.CompareAndSwapInt32(&maxInside, prev, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside, "at most one holder inside the section")
}

func TestMemoryLocker_IndependentDonationsDoNotBlock(t *testing.T) {
	locker := NewMemory()
	ctx := context.Background()

	releaseA, err := locker.Acquire(ctx, id.NewDonationID())
	require.NoError(t, err)
	defer releaseA()

	// A second donation's lock must be acquirable while the first is held.
	done := make(chan struct{})
	go func() {
		releaseB, err := locker.Acquire(ctx, id.NewDonationID())
		assert.NoError(t, err)
		releaseB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent donation lock blocked")
	}
}

func TestMemoryLocker_ReleaseIsIdempotent(t *testing.T) {
	locker := NewMemory()
	donationID := id.NewDonationID()

	release, err := locker.Acquire(context.Background(), donationID)
	require.NoError(t, err)
	release()
	release() // second call must not panic or unlock someone else's section

	again, err := locker.Acquire(context.Background(), donationID)
	require.NoError(t, err)
	again()
}

func TestMemoryLocker_CleansUpEntries(t *testing.T) {
	locker := NewMemory()
	donationID := id.NewDonationID()

	release, err := locker.Acquire(context.Background(), donationID)
	require.NoError(t, err)
	release()

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Empty(t, locker.locks, "released entries must not accumulate")
}

func TestMemoryLocker_CancelledContext(t *testing.T) {
	locker := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := locker.Acquire(ctx, id.NewDonationID())
	assert.Error(t, err)
}
