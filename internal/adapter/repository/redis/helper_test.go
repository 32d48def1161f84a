package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

// requireNamespaced fails unless every key on mr lives under billcycle:.
func requireNamespaced(t *testing.T, mr *miniredis.Miniredis) {
	t.Helper()

	for _, key := range mr.Keys() {
		if !strings.HasPrefix(key, "billcycle:") {
			t.Fatalf("key %q is outside the billcycle namespace", key)
		}
	}
}

func TestSyncLockAndIdempotencyShareServer(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	lock := NewSyncLock(client)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	// Same caller-visible key, different namespaces.
	if _, ok, err := lock.TryLock(ctx, "recurring-sync", time.Minute); err != nil || !ok {
		t.Fatalf("TryLock failed: ok=%v err=%v", ok, err)
	}
	if exists, _, err := store.CheckAndSet(ctx, "recurring-sync", nil, time.Hour); err != nil || exists {
		t.Fatalf("CheckAndSet failed: exists=%v err=%v", exists, err)
	}

	requireNamespaced(t, mr)
	if len(mr.Keys()) != 2 {
		t.Fatalf("expected 2 keys, got %v", mr.Keys())
	}
	if ttl := mr.TTL("billcycle:lock:recurring-sync"); ttl != time.Minute {
		t.Fatalf("expected lock ttl 1m, got %v", ttl)
	}
	if ttl := mr.TTL("billcycle:idempotency:recurring-sync"); ttl != time.Hour {
		t.Fatalf("expected idempotency ttl 1h, got %v", ttl)
	}
}
