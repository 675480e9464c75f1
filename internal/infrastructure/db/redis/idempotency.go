package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/concert-booking/internal/core/ports"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	claimAttempts         = 2
)

// IdempotencyStore guards booking submissions by Idempotency-Key. A request
// claims its key before touching inventory, so a retry arriving while the
// first attempt is still running sees a pending record instead of booking
// again.
// Key format: idem:book:<subject_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
// If ttl <= 0, defaultIdempotencyTTL is used.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim stores a pending record for key with SETNX. When the key is already
// held, the existing record is returned and claimed is false.
func (s *IdempotencyStore) Claim(ctx context.Context, scope, key, fingerprint string) (*ports.IdempotencyRecord, bool, error) {
	pending, err := json.Marshal(ports.IdempotencyRecord{Fingerprint: fingerprint})
	if err != nil {
		return nil, false, fmt.Errorf("idempotency encode: %w", err)
	}
	k := idempotencyKey(scope, key)

	// The holder may expire between SETNX and GET; claim again in that case.
	for i := 0; i < claimAttempts; i++ {
		ok, err := s.client.SetNX(ctx, k, pending, s.ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("idempotency claim: %w", err)
		}
		if ok {
			return nil, true, nil
		}

		raw, err := s.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("idempotency lookup: %w", err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, false, err
		}
		return rec, false, nil
	}
	return nil, false, fmt.Errorf("idempotency claim: key %q kept expiring", key)
}

// Complete replaces the pending record with the finished result.
func (s *IdempotencyStore) Complete(ctx context.Context, scope, key string, record *ports.IdempotencyRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("idempotency encode: %w", err)
	}
	if err := s.client.Set(ctx, idempotencyKey(scope, key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops the claim so the client can retry after a failed booking.
func (s *IdempotencyStore) Release(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func decodeRecord(raw []byte) (*ports.IdempotencyRecord, error) {
	var rec ports.IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &rec, nil
}

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("idem:book:%s:%s", scope, key)
}
