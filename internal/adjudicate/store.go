package adjudicate

import (
	"context"
)

// Store persists finalized payload snapshots keyed by document id.
// Put is an idempotent upsert; Get returns common.ErrNotFound (wrapped) for
// unknown ids.
type Store interface {
	Put(ctx context.Context, payload *ParsedPayload) error
	Get(ctx context.Context, docID string) (*ParsedPayload, error)
	Close() error
}
