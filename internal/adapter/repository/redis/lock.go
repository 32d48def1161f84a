package redis

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotHeld is returned by Unlock when the token no longer owns the key.
var ErrLockNotHeld = errors.New("lock not held")

// unlockScript deletes the key only if it still holds the caller's token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SyncLock implements usecase.JobLock with SET NX PX and a token checked on
// release, so only one process runs the recurring sync at a time.
type SyncLock struct {
	client *redis.Client
	prefix string
}

// NewSyncLock creates a new SyncLock.
func NewSyncLock(client *redis.Client) *SyncLock {
	return &SyncLock{
		client: client,
		prefix: "billcycle:lock:",
	}
}

// TryLock acquires key for ttl without blocking.
func (l *SyncLock) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := ulid.Make().String()

	ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

// Unlock releases key if token still owns it.
func (l *SyncLock) Unlock(ctx context.Context, key, token string) error {
	n, err := unlockScript.Run(ctx, l.client, []string{l.prefix + key}, token).Int64()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLockNotHeld
	}

	return nil
}
