// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// idempotency.go stores completed operation results under caller-supplied
// idempotency keys, and holds short-lived claims so two concurrent first
// requests cannot both execute.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Idempotency is a Valkey-backed result store with atomic claims.
type Idempotency struct {
	client *redis.Client
}

// NewIdempotency creates an idempotency store on the given client.
func NewIdempotency(client *redis.Client) *Idempotency {
	return &Idempotency{client: client}
}

// Get returns the stored result for key, or nil when none exists.
func (i *Idempotency) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := i.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency get: %w", err)
	}
	return val, nil
}

// Put stores a result under key for ttl.
func (i *Idempotency) Put(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := i.client.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency put: %w", err)
	}
	return nil
}

// Claim atomically marks key as in-flight. It returns false when another
// holder already has the claim. The claim expires after ttl so a crashed
// holder does not wedge the key forever.
func (i *Idempotency) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := i.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency claim: %w", err)
	}
	return ok, nil
}

// Release frees a claim so the key can be retried.
func (i *Idempotency) Release(ctx context.Context, key string) error {
	if err := i.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}
