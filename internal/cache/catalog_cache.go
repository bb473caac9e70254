package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/config"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
)

const (
	catalogKeyPrefix     = "catalog:frame"
	catalogScanBatchSize = 100
)

// CatalogCache holds fetched catalog frames for the freshness window so a
// burst of uploads does not hammer the spreadsheet export endpoint. Keys
// include the spreadsheet ID and sheet GID; freshness is TTL-based with no
// invalidation on upload. The demand ledger is never cached.
type CatalogCache interface {
	GetFrame(ctx context.Context, spreadsheetID, gid string) (*frame.Frame, bool, error)
	SetFrame(ctx context.Context, spreadsheetID, gid string, fr *frame.Frame) error
	InvalidateAll(ctx context.Context) error
}

type redisCatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopCatalogCache struct{}

func NewCatalogCache(cfg config.CacheConfig) (CatalogCache, error) {
	if !cfg.Enabled {
		return &noopCatalogCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisCatalogCache{client: client, ttl: ttl}, nil
}

func NewNoopCatalogCache() CatalogCache {
	return &noopCatalogCache{}
}

func (c *redisCatalogCache) GetFrame(ctx context.Context, spreadsheetID, gid string) (*frame.Frame, bool, error) {
	payload, err := c.client.Get(ctx, buildCatalogKey(spreadsheetID, gid)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var fr frame.Frame
	if err := json.Unmarshal(payload, &fr); err != nil {
		return nil, false, fmt.Errorf("decode catalog frame cache: %w", err)
	}
	return &fr, true, nil
}

func (c *redisCatalogCache) SetFrame(ctx context.Context, spreadsheetID, gid string, fr *frame.Frame) error {
	payload, err := json.Marshal(fr)
	if err != nil {
		return fmt.Errorf("encode catalog frame cache: %w", err)
	}

	if err := c.client.Set(ctx, buildCatalogKey(spreadsheetID, gid), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisCatalogCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, catalogKeyPrefix, catalogScanBatchSize)
}

func (n *noopCatalogCache) GetFrame(ctx context.Context, spreadsheetID, gid string) (*frame.Frame, bool, error) {
	return nil, false, nil
}

func (n *noopCatalogCache) SetFrame(ctx context.Context, spreadsheetID, gid string, fr *frame.Frame) error {
	return nil
}

func (n *noopCatalogCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildCatalogKey(spreadsheetID, gid string) string {
	return fmt.Sprintf("%s:%s:%s", catalogKeyPrefix, spreadsheetID, gid)
}
