package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIdempotencyGetMiss(t *testing.T) {
	idem := NewIdempotency(testClient(t))

	val, err := idem.Get(context.Background(), "idempotency:p1:k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != nil {
		t.Errorf("expected nil on miss, got %q", val)
	}
}

func TestIdempotencyPutGet(t *testing.T) {
	idem := NewIdempotency(testClient(t))
	ctx := context.Background()

	if err := idem.Put(ctx, "idempotency:p1:k1", []byte(`[{"id":"x"}]`), time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}
	val, err := idem.Get(ctx, "idempotency:p1:k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(val) != `[{"id":"x"}]` {
		t.Errorf("Get = %q", val)
	}
}

func TestIdempotencyClaimIsExclusive(t *testing.T) {
	idem := NewIdempotency(testClient(t))
	ctx := context.Background()

	ok, err := idem.Claim(ctx, "idempotency:p1:k1:claim", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first claim: ok=%v err=%v", ok, err)
	}
	ok, err = idem.Claim(ctx, "idempotency:p1:k1:claim", time.Minute)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if ok {
		t.Error("second claim succeeded, want exclusion")
	}
}

func TestIdempotencyReleaseFreesClaim(t *testing.T) {
	idem := NewIdempotency(testClient(t))
	ctx := context.Background()

	if ok, _ := idem.Claim(ctx, "k", time.Minute); !ok {
		t.Fatal("claim failed")
	}
	if err := idem.Release(ctx, "k"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if ok, _ := idem.Claim(ctx, "k", time.Minute); !ok {
		t.Error("claim after release failed")
	}
}

func TestIdempotencyClaimExpires(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	idem := NewIdempotency(client)
	ctx := context.Background()

	if ok, _ := idem.Claim(ctx, "k", time.Minute); !ok {
		t.Fatal("claim failed")
	}
	srv.FastForward(2 * time.Minute)
	if ok, _ := idem.Claim(ctx, "k", time.Minute); !ok {
		t.Error("claim after expiry failed")
	}
}
