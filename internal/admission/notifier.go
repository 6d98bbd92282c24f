package admission

import (
	"context"
	"fmt"

	"github.com/ghsss/real-time-translator-client/internal/logger"
	"github.com/ghsss/real-time-translator-client/internal/timing"
)

const noticeCapacityAvailable = "<b><em>Bot active running chats decreased: (%d/%d)\n\nNow you can try again and start your translation! ✅</em></b>"

// RunDrainNotifier watches the active count once per tick and, whenever it
// has dropped below the limit while sessions are waiting, runs one drain
// pass over the queue. Passes run inline in this goroutine, so a second
// capacity drop during a pass is simply observed on the next tick.
func (c *Controller) RunDrainNotifier(ctx context.Context, notify NotifyFunc) {
	last := c.Active()

	for {
		if err := timing.Wait(ctx, drainTick); err != nil {
			logger.Debug("drain notifier stopping")
			return
		}

		cur := c.Active()
		changed := cur != last
		last = cur

		if changed && cur < c.limit && c.QueueLen() > 0 {
			c.drainWaiting(ctx, notify)
			last = c.Active()
		}
	}
}

// drainWaiting notifies every queued session in FIFO order that capacity is
// available again. After the pass the whole queue is dropped, including ids
// enqueued while the pass was running. Those never get a notice; the behavior
// is deliberate (a fresh request re-queues them) but worth knowing about.
func (c *Controller) drainWaiting(ctx context.Context, notify NotifyFunc) {
	logger.Info("draining waiting queue", "waiting", c.QueueLen(), "active", c.Active())

	if err := timing.Wait(ctx, c.drainGrace); err != nil {
		return
	}

	for _, sessionID := range c.waitingSnapshot() {
		if err := timing.Wait(ctx, c.drainPacing); err != nil {
			return
		}

		text := fmt.Sprintf(noticeCapacityAvailable, c.Active(), c.limit)
		if err := notify(sessionID, text); err != nil {
			logger.Error("queue drain notice failed", "session", sessionID, "error", err)
		}

		c.removeWaiting(sessionID)
	}

	c.clearWaiting()
}
