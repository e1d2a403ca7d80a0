package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rao305/boilerai-transcript/internal/domain"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
	"github.com/rao305/boilerai-transcript/internal/utils"
)

// ExtractionCache memoizes extraction results keyed by a hash of the raw
// input, so a re-upload of identical text does not pay the AI call again.
type ExtractionCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewExtractionCache(ttl time.Duration, baseLog *logger.Logger) (*ExtractionCache, error) {
	log := baseLog.With("service", "ExtractionCache")

	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", baseLog))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &ExtractionCache{log: log, rdb: rdb, ttl: ttl}, nil
}

func (c *ExtractionCache) Get(ctx context.Context, key string) ([]domain.RawRow, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []domain.RawRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.log.Warn("dropping undecodable cache entry", "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return nil, false
	}
	return rows, true
}

func (c *ExtractionCache) Set(ctx context.Context, key string, rows []domain.RawRow) {
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("extraction cache set failed", "error", err)
	}
}

func (c *ExtractionCache) Close() error {
	return c.rdb.Close()
}
