package domain

import (
	"context"

	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
)

// Source looks a snapshot up by subscription id or number. Sources return
// ErrNotFound when they do not know the key.
type Source interface {
	Fetch(ctx context.Context, key string) (*Snapshot, error)
}

// Cache stores recently fetched snapshots.
type Cache interface {
	Get(ctx context.Context, key string) (*Snapshot, error)
	Set(ctx context.Context, snap *Snapshot) error
}

type Service interface {
	// Load resolves key through fixtures, the cache and the billing API.
	Load(ctx context.Context, key string) (Resolved, error)
	// Subscription loads and normalizes key.
	Subscription(ctx context.Context, key string) (timelinedomain.Subscription, Resolved, error)
	Normalize(snap *Snapshot) (timelinedomain.Subscription, error)
	Versions(ctx context.Context, key string) ([]SnapshotVersion, error)
}
