package usecases

import (
	"context"
	"sync"
	"time"

	"verifybot/pkg/log"
)

// MessageCounter increments per-user message counts without ever blocking
// the caller. Store failures are logged and the update is lost.
type MessageCounter struct {
	store   CounterStore
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewMessageCounter(store CounterStore, timeout time.Duration) *MessageCounter {
	return &MessageCounter{store: store, timeout: timeout}
}

// Record dispatches the increment on its own goroutine and returns at once.
// After Close it does nothing.
func (c *MessageCounter) Record(guildID, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.store.Increment(ctx, guildID, userID); err != nil {
			log.WarnCtx(ctx, "message count update lost", "guild_id", guildID, "user_id", userID, "error", err)
		}
	}()
}

// Wait blocks until all dispatched increments have finished. It must not
// race with Record; shutdown uses Close.
func (c *MessageCounter) Wait() {
	c.wg.Wait()
}

// Close rejects further increments and waits for the pending ones.
func (c *MessageCounter) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}
