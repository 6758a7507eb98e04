package accounts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "accounts:select:"

// CachedStore is a Redis read-through cache in front of another Store.
// Only successful results are cached; a failing next store is never masked by the cache,
// and a failing cache never hides a healthy next store.
type CachedStore struct {
	next Store
	rdb  *redis.Client
	ttl  time.Duration
	log  *slog.Logger
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedStore{next: next, rdb: rdb, ttl: ttl, log: log}
}

// Unwrap returns the uncached store.
func (s *CachedStore) Unwrap() Store {
	return s.next
}

func (s *CachedStore) Select(ctx context.Context, q Query) ([]Record, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if s.rdb == nil {
		return s.next.Select(ctx, q)
	}

	key, err := cacheKey(q)
	if err != nil {
		return s.next.Select(ctx, q)
	}

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rows []Record
		if jerr := json.Unmarshal(raw, &rows); jerr == nil {
			return rows, nil
		}
		s.log.Warn("account cache entry undecodable", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		s.log.Warn("account cache read failed", "err", err)
	}

	rows, err := s.next.Select(ctx, q)
	if err != nil {
		return nil, err
	}

	if payload, jerr := json.Marshal(rows); jerr == nil {
		if serr := s.rdb.Set(ctx, key, payload, s.ttl).Err(); serr != nil {
			s.log.Warn("account cache write failed", "err", serr)
		}
	}
	return rows, nil
}

// cacheKey hashes the full query so distinct filters never share an entry.
func cacheKey(q Query) (string, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}
