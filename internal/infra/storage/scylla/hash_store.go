package scylla

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"

	"roomrates/internal/app/policies"
	"roomrates/internal/domain/syncstate"
)

// batchSize caps statements per unlogged batch.
const batchSize = 100

var errNoSession = errors.New("scylla session not initialized")

// HashStore keeps digests in Scylla; rows expire through per-write TTLs.
type HashStore struct {
	session *gocql.Session
	now     func() time.Time
}

var _ policies.HashStore = (*HashStore)(nil)

func NewHashStore(session *gocql.Session) *HashStore {
	return &HashStore{session: session, now: time.Now}
}

func (s *HashStore) Lookup(ctx context.Context, keys []string) (map[string]string, error) {
	if s.session == nil {
		return nil, errNoSession
	}
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	iter := s.session.
		Query(`SELECT cache_key, digest FROM sync_hashes WHERE cache_key IN ?`, keys).
		WithContext(ctx).
		Consistency(gocql.LocalOne).
		Iter()
	var key, digest string
	for iter.Scan(&key, &digest) {
		out[key] = digest
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *HashStore) Store(ctx context.Context, entries []syncstate.Entry) error {
	if s.session == nil {
		return errNoSession
	}
	now := s.now()
	for start := 0; start < len(entries); start += batchSize {
		end := min(start+batchSize, len(entries))
		batch := s.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
		for _, e := range entries[start:end] {
			ttl := ttlSeconds(now, e.ExpiresAt)
			if ttl <= 0 {
				continue
			}
			batch.Query(`INSERT INTO sync_hashes (cache_key, digest) VALUES (?, ?) USING TTL ?`, e.Key, e.Digest, ttl)
		}
		if batch.Size() == 0 {
			continue
		}
		if err := s.session.ExecuteBatch(batch); err != nil {
			return err
		}
	}
	return nil
}

// ttlSeconds rounds the remaining lifetime up to whole seconds.
func ttlSeconds(now, expiresAt time.Time) int {
	d := expiresAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
