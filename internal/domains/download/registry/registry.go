package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"homelibrary-backend/internal/domains/download/model"
)

const keyPrefix = "transfer:"

// Registry lưu transfer records trong Redis, keyed by correlation id.
// Records expire via TTL so the registry never needs manual GC.
type Registry struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRegistry(client *redis.Client, ttl time.Duration) *Registry {
	return &Registry{
		client: client,
		ttl:    ttl,
	}
}

// Put writes (or overwrites) the record for its correlation id.
func (r *Registry) Put(ctx context.Context, t *model.Transfer) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal transfer: %w", err)
	}

	if err := r.client.Set(ctx, keyPrefix+t.CorrelationID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store transfer %s: %w", t.CorrelationID, err)
	}
	return nil
}

// Get returns the record for a correlation id.
// Unknown or expired ids map to ErrTransferNotFound.
func (r *Registry) Get(ctx context.Context, correlationID string) (*model.Transfer, error) {
	data, err := r.client.Get(ctx, keyPrefix+correlationID).Bytes()
	if err == redis.Nil {
		return nil, model.ErrTransferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load transfer %s: %w", correlationID, err)
	}

	var t model.Transfer
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode transfer %s: %w", correlationID, err)
	}
	return &t, nil
}

// MarkDone flips a pending record to its terminal status.
// A record that already reached a terminal status is left untouched.
func (r *Registry) MarkDone(ctx context.Context, correlationID string, successful bool, detail string) error {
	t, err := r.Get(ctx, correlationID)
	if err != nil {
		return err
	}
	if t.Status != model.StatusPending {
		return nil
	}

	now := time.Now()
	t.Status = model.StatusFailed
	if successful {
		t.Status = model.StatusSuccessful
	}
	t.Detail = detail
	t.FinishedAt = &now

	return r.Put(ctx, t)
}

// ListPending scans for records still in pending state.
// Dùng cho sweep job: pending records older than a cutoff get failed.
func (r *Registry) ListPending(ctx context.Context) ([]*model.Transfer, error) {
	var (
		cursor  uint64
		pending []*model.Transfer
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan transfers: %w", err)
		}

		for _, key := range keys {
			data, err := r.client.Get(ctx, key).Bytes()
			if err == redis.Nil {
				continue // expired between SCAN and GET
			}
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", key, err)
			}

			var t model.Transfer
			if err := json.Unmarshal(data, &t); err != nil {
				continue // skip corrupt records, the TTL will clear them
			}
			if t.Status == model.StatusPending {
				pending = append(pending, &t)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return pending, nil
}
