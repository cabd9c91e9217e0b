package redisstore

import (
	"context"
	"time"

	"document-bot-be/internal/pkg/logger"
	"document-bot-be/pkg/assistant"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "flagged:"

// FlaggedTracker stores per-user moderation-flag state in Redis, for
// deployments where multiple instances must share the recovery window.
// Expiry is delegated to Redis key TTLs, which satisfies the same
// contract: no entry is ever readable past its TTL.
//
// Tracker failures are deliberately swallowed: losing a flag only costs a
// missed recovery tag, and the pipeline must not fail because the flag
// store is down.
type FlaggedTracker struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.ILogger
}

var _ assistant.FlaggedTracker = &FlaggedTracker{}

func NewFlaggedTracker(client *redis.Client, ttl time.Duration, log logger.ILogger) *FlaggedTracker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FlaggedTracker{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (t *FlaggedTracker) RecordFlagged(ctx context.Context, userKey string) {
	if err := t.client.Set(ctx, keyPrefix+userKey, time.Now().UnixMilli(), t.ttl).Err(); err != nil {
		t.warn("record flagged failed", err)
	}
}

func (t *FlaggedTracker) CheckRecovery(ctx context.Context, userKey string) bool {
	n, err := t.client.Exists(ctx, keyPrefix+userKey).Result()
	if err != nil {
		t.warn("check recovery failed", err)
		return false
	}
	return n > 0
}

func (t *FlaggedTracker) RecordSuccess(ctx context.Context, userKey string) bool {
	_, err := t.client.GetDel(ctx, keyPrefix+userKey).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		t.warn("record success failed", err)
		return false
	}
	return true
}

func (t *FlaggedTracker) warn(msg string, err error) {
	if t.log != nil {
		t.log.Warn("flagged-tracker", msg, map[string]interface{}{"error": err.Error()})
	}
}
