package admission

import (
	"time"

	"github.com/ghsss/real-time-translator-client/internal/logger"
	"github.com/ghsss/real-time-translator-client/internal/session"
)

func NewController(cfg Config, registry *session.Registry, inflight *session.InFlight) *Controller {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.MinRequestInterval <= 0 {
		cfg.MinRequestInterval = defaultMinRequestInterval
	}
	if cfg.DrainGrace <= 0 {
		cfg.DrainGrace = defaultDrainGrace
	}
	if cfg.DrainPacing <= 0 {
		cfg.DrainPacing = defaultDrainPacing
	}

	return &Controller{
		limit:       cfg.Limit,
		minInterval: cfg.MinRequestInterval,
		drainGrace:  cfg.DrainGrace,
		drainPacing: cfg.DrainPacing,
		registry:    registry,
		inflight:    inflight,
		now:         time.Now,
	}
}

// Decide runs the admission ladder for one inbound job request. Checks apply
// in order, first match wins:
//
//  1. session already in-flight -> RejectedBusy, session entry reset
//  2. last accepted activity under the minimum interval -> RejectedRateLimited,
//     nothing mutated
//  3. at capacity -> Queued (id appended) or RejectedAlreadyQueued; the
//     session entry is reset either way, queued sessions are not active
//  4. otherwise the entry is created/touched, a slot is consumed, Accepted
//
// The whole ladder runs under the controller mutex so two concurrent requests
// can never both observe spare capacity. Callers send notices after Decide
// returns.
func (c *Controller) Decide(sessionID string, interactive bool) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight.Contains(sessionID) {
		c.registry.Delete(sessionID)
		return c.result(RejectedBusy)
	}

	if entry, ok := c.registry.Lookup(sessionID); ok {
		if c.now().Sub(entry.LastInteraction) < c.minInterval {
			return c.result(RejectedRateLimited)
		}
	}

	if c.active >= c.limit {
		c.registry.Delete(sessionID)

		if c.isWaiting(sessionID) {
			return c.result(RejectedAlreadyQueued)
		}

		c.waiting = append(c.waiting, sessionID)
		return c.result(Queued)
	}

	c.registry.Touch(sessionID, interactive)
	c.active++

	return c.result(Accepted)
}

// Release frees the admission slot held by a finished job and clears the
// session's in-flight membership. Called on every terminal pipeline
// transition, success or failure.
func (c *Controller) Release(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active > 0 {
		c.active--
	}

	c.inflight.Remove(sessionID)
	logger.Debug("admission slot released", "session", sessionID, "active", c.active)
}

func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.active
}

func (c *Controller) Limit() int {
	return c.limit
}

func (c *Controller) QueueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.waiting)
}

// result must be called with the mutex held.
func (c *Controller) result(d Decision) Result {
	return Result{Decision: d, Active: c.active, Limit: c.limit}
}

// isWaiting must be called with the mutex held.
func (c *Controller) isWaiting(sessionID string) bool {
	for _, id := range c.waiting {
		if id == sessionID {
			return true
		}
	}

	return false
}

func (c *Controller) waitingSnapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := make([]string, len(c.waiting))
	copy(copied, c.waiting)

	return copied
}

// removeWaiting drops the first occurrence of sessionID from the queue.
// The found check matters: an id at index 0 must still be removed.
func (c *Controller) removeWaiting(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, id := range c.waiting {
		if id == sessionID {
			c.waiting = append(c.waiting[:i], c.waiting[i+1:]...)
			return
		}
	}
}

func (c *Controller) clearWaiting() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.waiting = nil
}
