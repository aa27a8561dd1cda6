package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/metrics"
	"github.com/iliyamo/flight-transfer-admin/internal/middleware"
	"github.com/iliyamo/flight-transfer-admin/internal/queue"
)

// CacheInvalidator drops cached API responses when a transfer changes.
type CacheInvalidator struct {
	rdb     *redis.Client
	prefix  string
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewCacheInvalidator(rdb *redis.Client, prefix string, m *metrics.Metrics, logger *zap.Logger) *CacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidator{rdb: rdb, prefix: prefix, metrics: m, logger: logger}
}

// Handle satisfies queue.Handler.  Without a Redis client it does nothing.
func (ci *CacheInvalidator) Handle(ctx context.Context, ev queue.TransferChangedEvent) error {
	if ci.rdb == nil {
		return nil
	}
	n, err := middleware.FlushCache(ctx, ci.rdb, ci.prefix)
	if err != nil {
		return err
	}
	if ci.metrics != nil {
		ci.metrics.CacheFlushes.Inc()
	}
	ci.logger.Debug("response cache flushed",
		zap.String("action", ev.Action),
		zap.Uint64("transfer_id", ev.TransferID),
		zap.Int("keys", n))
	return nil
}
