package cache

import (
	"context"
	"time"
)

// Store is the key-value capability the listing cache is built on.
//
// Implementations are expected to be shared and lossy; nothing here is
// a source of truth.
type Store interface {
	// Get returns (value, true, nil) when key holds a value,
	// ("", false, nil) when it does not.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. Zero ttl means no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del drops keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error
}

// ListCache keeps a serialized snapshot of each user's notebook listing.
//
// A snapshot is paired with a freshness timestamp under a sibling key;
// snapshots older than the TTL are treated as absent. Losing or evicting
// an entry only costs a recomputation, never correctness.
type ListCache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*ListCache)

// WithClock replaces the wall clock. For tests.
func WithClock(now func() time.Time) Option {
	return func(c *ListCache) {
		c.now = now
	}
}

func New(store Store, ttl time.Duration, options ...Option) *ListCache {
	c := &ListCache{store: store, ttl: ttl, now: time.Now}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func snapshotKey(userId string) string {
	return "user_" + userId + "_notebook_details"
}

func timestampKey(userId string) string {
	return snapshotKey(userId) + "_timestamp"
}

// Lookup returns the cached snapshot of userId's listing, if one exists
// and is fresher than the TTL. Store errors count as misses.
func (c *ListCache) Lookup(ctx context.Context, userId string) (string, bool) {
	stamp, ok, err := c.store.Get(ctx, timestampKey(userId))
	if err != nil || !ok {
		return "", false
	}
	writtenAt, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return "", false
	}
	if c.ttl < c.now().Sub(writtenAt) {
		return "", false
	}

	snapshot, ok, err := c.store.Get(ctx, snapshotKey(userId))
	if err != nil || !ok {
		return "", false
	}
	return snapshot, true
}

// Save writes a fresh snapshot and its timestamp.
//
// Best-effort: an error is returned for logging, but callers should not
// fail their request over it.
func (c *ListCache) Save(ctx context.Context, userId string, snapshot string) error {
	if err := c.store.Set(ctx, snapshotKey(userId), snapshot, c.ttl); err != nil {
		return err
	}
	return c.store.Set(
		ctx, timestampKey(userId),
		c.now().UTC().Format(time.RFC3339Nano),
		0,
	)
}

// Invalidate drops the snapshot of userId so the next listing recomputes.
func (c *ListCache) Invalidate(ctx context.Context, userId string) error {
	return c.store.Del(ctx, snapshotKey(userId), timestampKey(userId))
}
