package linkcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisClient is the subset of redis.Cmdable that RedisStore needs.
// Narrowing the dependency to this interface, rather than the full
// redis.Cmdable surface, keeps the type trivially fakeable in tests.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore is the "possibly remote" cache backend: a title's link set
// is stored as a JSON-encoded array of titles, keyed by the title
// verbatim, with no TTL. Any error talking to Redis degrades to a
// cache miss on Get and a silent no-op on Set; the search must never
// fail because the cache backend is unavailable.
type RedisStore struct {
	client redisClient
	logger *zap.Logger
}

// NewRedisStore wraps an existing Redis client (*redis.Client satisfies
// redisClient, as does any fake used in tests).
func NewRedisStore(client redisClient, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, title string) ([]string, bool) {
	raw, err := s.client.Get(ctx, title).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("linkcache redis get failed, treating as miss",
				zap.String("title", title), zap.Error(err))
		}
		return nil, false
	}

	var links []string
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		s.logger.Debug("linkcache redis value corrupt, treating as miss",
			zap.String("title", title), zap.Error(err))
		return nil, false
	}
	return links, true
}

func (s *RedisStore) Set(ctx context.Context, title string, links []string) {
	encoded, err := json.Marshal(links)
	if err != nil {
		s.logger.Debug("linkcache marshal failed, dropping write",
			zap.String("title", title), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, title, encoded, 0).Err(); err != nil {
		s.logger.Debug("linkcache redis set failed, dropping write",
			zap.String("title", title), zap.Error(err))
	}
}
