package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFlaggedLifecycle(t *testing.T) {
	tracker := NewFlaggedTracker(time.Minute)
	ctx := context.Background()

	assert.False(t, tracker.CheckRecovery(ctx, "user-1"))
	assert.False(t, tracker.RecordSuccess(ctx, "user-1"), "success without a prior flag is not a recovery")

	tracker.RecordFlagged(ctx, "user-1")
	assert.True(t, tracker.CheckRecovery(ctx, "user-1"))
	assert.False(t, tracker.CheckRecovery(ctx, "user-2"), "flags are per user")

	assert.True(t, tracker.RecordSuccess(ctx, "user-1"), "first success after a flag is a recovery")
	assert.False(t, tracker.RecordSuccess(ctx, "user-1"), "the flag clears after one recovery")
	assert.False(t, tracker.CheckRecovery(ctx, "user-1"))
}

func TestFlagExpires(t *testing.T) {
	tracker := NewFlaggedTracker(50 * time.Millisecond)
	ctx := context.Background()

	tracker.RecordFlagged(ctx, "user-1")
	assert.True(t, tracker.CheckRecovery(ctx, "user-1"))

	time.Sleep(80 * time.Millisecond)

	assert.False(t, tracker.CheckRecovery(ctx, "user-1"), "expired flags must not be visible")
	assert.False(t, tracker.RecordSuccess(ctx, "user-1"), "an expired flag is not a recovery")
}

func TestReflaggingResetsTheClock(t *testing.T) {
	tracker := NewFlaggedTracker(200 * time.Millisecond)
	ctx := context.Background()

	tracker.RecordFlagged(ctx, "user-1")
	time.Sleep(150 * time.Millisecond)
	tracker.RecordFlagged(ctx, "user-1")
	time.Sleep(150 * time.Millisecond)

	// 300ms after the first flag, but only 150ms after the second.
	assert.True(t, tracker.CheckRecovery(ctx, "user-1"))
}

func TestConcurrentAccess(t *testing.T) {
	tracker := NewFlaggedTracker(time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "user-a"
			if n%2 == 0 {
				key = "user-b"
			}
			tracker.RecordFlagged(ctx, key)
			tracker.CheckRecovery(ctx, key)
			tracker.RecordSuccess(ctx, key)
		}(i)
	}
	wg.Wait()
}
