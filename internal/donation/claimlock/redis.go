package claimlock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	id "foodbridge/pkg/domain"
	"foodbridge/pkg/platform/sentinel"
)

const (
	lockTTL       = 10 * time.Second
	acquirePoll   = 20 * time.Millisecond
	lockKeyPrefix = "foodbridge:claim-lock:"
)

// releaseScript deletes the lock only if this holder still owns it, so a
// slow holder whose TTL lapsed cannot release a lock re-acquired by another.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis is the multi-instance Locker. The TTL bounds how long a crashed
// holder can block a donation's claims.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Acquire(ctx context.Context, donationID id.DonationID) (func(), error) {
	key := lockKeyPrefix + donationID.String()
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire claim lock: %w: %w", sentinel.ErrUnavailable, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire claim lock: %w: %w", sentinel.ErrUnavailable, ctx.Err())
		case <-time.After(acquirePoll):
		}
	}

	release := func() {
		// Release on a fresh context: the request context may already be done.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err()
	}
	return release, nil
}
