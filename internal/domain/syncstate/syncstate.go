// Package syncstate defines what the change-detection cache stores: deterministic
// keys built from business identifiers and digests of canonical numeric fields.
package syncstate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindRate         Kind = "rate"
	KindAvailability Kind = "avail"
)

const (
	keyPrefix = "sm"
	// TTL is how long a stored digest is trusted.
	TTL = 400 * 24 * time.Hour
)

var ErrUnsupportedValue = errors.New("syncstate: unsupported field value")

// Key joins business identifiers into the cache key sm:{kind}:{parts...}.
func Key(kind Kind, parts ...string) string {
	return keyPrefix + ":" + string(kind) + ":" + strings.Join(parts, ":")
}

// Entity is anything whose pushed state can be remembered.
type Entity interface {
	CacheKey() string
	Fields() map[string]any
}

// Item is an entity paired with its key and digest.
type Item struct {
	Key    string
	Digest string
	Entity Entity
}

func NewItem(e Entity) (Item, error) {
	digest, err := Digest(e.Fields())
	if err != nil {
		return Item{}, fmt.Errorf("digest %s: %w", e.CacheKey(), err)
	}
	return Item{Key: e.CacheKey(), Digest: digest, Entity: e}, nil
}

// Entry is a persisted digest.
type Entry struct {
	Key       string
	Digest    string
	ExpiresAt time.Time
}

// Digest hashes the canonical JSON form of fields. Map keys are sorted and every
// numeric value is rewritten as a normalized decimal string, so 1.50 and 1.5 hash
// alike.
func Digest(fields map[string]any) (string, error) {
	canonical, err := normalize(fields)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool:
		return t, nil
	case decimal.Decimal:
		return t.String(), nil
	case *decimal.Decimal:
		if t == nil {
			return nil, nil
		}
		return t.String(), nil
	case int:
		return decimal.NewFromInt(int64(t)).String(), nil
	case int32:
		return decimal.NewFromInt32(t).String(), nil
	case int64:
		return decimal.NewFromInt(t).String(), nil
	case float32:
		return decimal.NewFromFloat32(t).String(), nil
	case float64:
		return decimal.NewFromFloat(t).String(), nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			n, err := normalize(inner)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			n, err := normalize(inner)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
