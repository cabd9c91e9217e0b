package memory

import (
	"context"
	"time"

	"document-bot-be/pkg/assistant"

	"github.com/patrickmn/go-cache"
)

// DefaultFlaggedTTL bounds how long a moderation flag stays live.
const DefaultFlaggedTTL = 5 * time.Minute

// FlaggedTracker keeps per-user moderation-flag state in process memory.
// The cache janitor is disabled; expiry runs lazily on every tracker call,
// so no entry outlives the TTL by more than one operation on the tracker.
type FlaggedTracker struct {
	cache *cache.Cache
	ttl   time.Duration
}

var _ assistant.FlaggedTracker = &FlaggedTracker{}

func NewFlaggedTracker(ttl time.Duration) *FlaggedTracker {
	if ttl <= 0 {
		ttl = DefaultFlaggedTTL
	}
	// Cleanup interval -1 disables the background janitor; DeleteExpired is
	// invoked explicitly instead.
	return &FlaggedTracker{
		cache: cache.New(ttl, -1),
		ttl:   ttl,
	}
}

// RecordFlagged marks now as the flag time for userKey, overwriting any
// previous flag (last write wins).
func (t *FlaggedTracker) RecordFlagged(ctx context.Context, userKey string) {
	t.cache.SetDefault(userKey, time.Now())
	t.cache.DeleteExpired()
}

// CheckRecovery reports whether an unexpired flagged entry exists for
// userKey. Read-only apart from the lazy cleanup pass.
func (t *FlaggedTracker) CheckRecovery(ctx context.Context, userKey string) bool {
	t.cache.DeleteExpired()
	_, found := t.cache.Get(userKey)
	return found
}

// RecordSuccess reports whether this successful validation is a recovery
// and, if so, clears the flag. A user with no live flag is a no-op
// returning false.
func (t *FlaggedTracker) RecordSuccess(ctx context.Context, userKey string) bool {
	t.cache.DeleteExpired()
	if _, found := t.cache.Get(userKey); !found {
		return false
	}
	t.cache.Delete(userKey)
	return true
}
