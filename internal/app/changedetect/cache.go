// Package changedetect skips downstream pushes whose content has not changed
// since the last confirmed push. It fails open: when the store cannot answer,
// every item counts as changed.
package changedetect

import (
	"context"
	"log/slog"
	"time"

	"roomrates/internal/app/policies"
	"roomrates/internal/domain/syncstate"
)

const DefaultChunkSize = 5000

// Cache compares item digests with those held by Store. A Cache without a Store
// is the disabled variant.
type Cache struct {
	Store     policies.HashStore
	ChunkSize int
	TTL       time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

var _ policies.ChangeDetector = (*Cache)(nil)

// Disabled reports every item as changed and stores nothing.
func Disabled() *Cache {
	return &Cache{}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.Store != nil
}

// FilterChanged returns items whose stored digest is missing or different, in
// input order. Chunks the store fails on are returned whole.
func (c *Cache) FilterChanged(ctx context.Context, items []syncstate.Item) []syncstate.Item {
	if !c.Enabled() || len(items) == 0 {
		return items
	}
	out := make([]syncstate.Item, 0, len(items))
	for _, chunk := range chunks(items, c.chunkSize()) {
		keys := make([]string, len(chunk))
		for i, it := range chunk {
			keys[i] = it.Key
		}
		stored, err := c.Store.Lookup(ctx, keys)
		if err != nil {
			c.logger().Warn("change detection lookup failed; treating chunk as changed", "keys", len(keys), "error", err)
			out = append(out, chunk...)
			continue
		}
		for _, it := range chunk {
			if digest, ok := stored[it.Key]; ok && digest == it.Digest {
				continue
			}
			out = append(out, it)
		}
	}
	return out
}

// SetHashes remembers the digests of items that were just pushed.
func (c *Cache) SetHashes(ctx context.Context, items []syncstate.Item) error {
	if !c.Enabled() || len(items) == 0 {
		return nil
	}
	expires := c.now().Add(c.ttl())
	for _, chunk := range chunks(items, c.chunkSize()) {
		entries := make([]syncstate.Entry, len(chunk))
		for i, it := range chunk {
			entries[i] = syncstate.Entry{Key: it.Key, Digest: it.Digest, ExpiresAt: expires}
		}
		if err := c.Store.Store(ctx, entries); err != nil {
			return err
		}
	}
	return nil
}

func chunks(items []syncstate.Item, size int) [][]syncstate.Item {
	var out [][]syncstate.Item
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

func (c *Cache) chunkSize() int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	return DefaultChunkSize
}

func (c *Cache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return syncstate.TTL
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

func (c *Cache) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
