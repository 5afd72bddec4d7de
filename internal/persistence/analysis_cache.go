package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/helpdesk-labs/support-insights/internal/analysis"
)

const analysisKeyPrefix = "insights:analysis:"

// AnalysisCache stores the latest full analysis per ticket.
type AnalysisCache interface {
	Get(ctx context.Context, ticketID string) (*analysis.TicketAnalysis, bool)
	Set(ctx context.Context, result analysis.TicketAnalysis)
	Invalidate(ctx context.Context, ticketID string)
}

// layeredAnalysisCache keeps a process-local LRU in front of Redis. Redis
// failures are logged and treated as misses, so the local layer keeps serving.
type layeredAnalysisCache struct {
	local  *expirable.LRU[string, analysis.TicketAnalysis]
	remote *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewAnalysisCache builds the cache. A nil Redis disables the remote layer.
func NewAnalysisCache(rdb *Redis, size int, ttl time.Duration, logger *zap.Logger) AnalysisCache {
	if size <= 0 {
		size = 128
	}
	c := &layeredAnalysisCache{
		local:  expirable.NewLRU[string, analysis.TicketAnalysis](size, nil, ttl),
		ttl:    ttl,
		logger: logger,
	}
	if rdb != nil {
		c.remote = rdb.Client
	}
	return c
}

func (c *layeredAnalysisCache) Get(ctx context.Context, ticketID string) (*analysis.TicketAnalysis, bool) {
	if cached, ok := c.local.Get(ticketID); ok {
		return &cached, true
	}
	if c.remote == nil {
		return nil, false
	}

	raw, err := c.remote.Get(ctx, analysisKeyPrefix+ticketID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("analysis cache read failed", zap.String("ticket_id", ticketID), zap.Error(err))
		}
		return nil, false
	}

	var result analysis.TicketAnalysis
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("analysis cache entry corrupt", zap.String("ticket_id", ticketID), zap.Error(err))
		return nil, false
	}
	c.local.Add(ticketID, result)
	return &result, true
}

func (c *layeredAnalysisCache) Set(ctx context.Context, result analysis.TicketAnalysis) {
	c.local.Add(result.TicketID, result)
	if c.remote == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("analysis cache encode failed", zap.String("ticket_id", result.TicketID), zap.Error(err))
		return
	}
	if err := c.remote.Set(ctx, analysisKeyPrefix+result.TicketID, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("analysis cache write failed", zap.String("ticket_id", result.TicketID), zap.Error(err))
	}
}

func (c *layeredAnalysisCache) Invalidate(ctx context.Context, ticketID string) {
	c.local.Remove(ticketID)
	if c.remote == nil {
		return
	}
	if err := c.remote.Del(ctx, analysisKeyPrefix+ticketID).Err(); err != nil {
		c.logger.Warn("analysis cache delete failed", zap.String("ticket_id", ticketID), zap.Error(err))
	}
}
