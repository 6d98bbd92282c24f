package admission

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghsss/real-time-translator-client/internal/session"
)

func newTestController(limit int) (*Controller, *session.Registry, *session.InFlight) {
	registry := session.NewRegistry()
	inflight := session.NewInFlight()

	c := NewController(Config{
		Limit:              limit,
		MinRequestInterval: 30 * time.Second,
		DrainGrace:         time.Nanosecond,
		DrainPacing:        time.Nanosecond,
	}, registry, inflight)

	return c, registry, inflight
}

func TestDecideFillsCapacityThenQueues(t *testing.T) {
	c, _, _ := newTestController(10)

	for i := 1; i <= 10; i++ {
		res := c.Decide(fmt.Sprintf("telegram:%d", i), true)
		require.Equal(t, Accepted, res.Decision, "request %d", i)
	}

	require.Equal(t, 10, c.Active())

	res := c.Decide("telegram:11", true)
	assert.Equal(t, Queued, res.Decision)
	assert.Equal(t, 10, res.Active)
	assert.Equal(t, 10, res.Limit)
	assert.Equal(t, 1, c.QueueLen())

	// re-requesting while queued must not add a duplicate entry
	res = c.Decide("telegram:11", true)
	assert.Equal(t, RejectedAlreadyQueued, res.Decision)
	assert.Equal(t, 1, c.QueueLen())
}

func TestDecideNeverExceedsLimit(t *testing.T) {
	c, _, _ := newTestController(10)

	for i := 0; i < 100; i++ {
		c.Decide(fmt.Sprintf("telegram:%d", i), true)
		require.LessOrEqual(t, c.Active(), 10)
	}

	assert.Equal(t, 10, c.Active())
	assert.Equal(t, 90, c.QueueLen())
}

func TestDecideRejectsInFlight(t *testing.T) {
	c, registry, inflight := newTestController(10)

	res := c.Decide("telegram:1", true)
	require.Equal(t, Accepted, res.Decision)

	inflight.Add("telegram:1")

	res = c.Decide("telegram:1", true)
	assert.Equal(t, RejectedBusy, res.Decision)

	// busy rejection resets the session entry
	_, ok := registry.Lookup("telegram:1")
	assert.False(t, ok)

	// but does not consume or free a slot
	assert.Equal(t, 1, c.Active())
}

func TestDecideRateLimited(t *testing.T) {
	c, registry, _ := newTestController(10)

	base := time.Now()
	c.now = func() time.Time { return base }

	res := c.Decide("telegram:1", true)
	require.Equal(t, Accepted, res.Decision)

	entryBefore, ok := registry.Lookup("telegram:1")
	require.True(t, ok)

	// 10s later: under the 30s minimum interval
	c.now = func() time.Time { return base.Add(10 * time.Second) }

	res = c.Decide("telegram:1", true)
	assert.Equal(t, RejectedRateLimited, res.Decision)

	// nothing mutated: slot still held, entry untouched, queue empty
	assert.Equal(t, 1, c.Active())
	assert.Equal(t, 0, c.QueueLen())

	entryAfter, ok := registry.Lookup("telegram:1")
	require.True(t, ok)
	assert.Equal(t, entryBefore, entryAfter)

	// past the interval the request goes through again
	c.now = func() time.Time { return base.Add(31 * time.Second) }

	res = c.Decide("telegram:1", true)
	assert.Equal(t, Accepted, res.Decision)
}

func TestQueuedSessionIsReset(t *testing.T) {
	c, registry, _ := newTestController(1)

	require.Equal(t, Accepted, c.Decide("telegram:1", true).Decision)

	res := c.Decide("telegram:2", true)
	require.Equal(t, Queued, res.Decision)

	// queued sessions are not counted as active and hold no registry entry
	assert.Equal(t, 1, c.Active())
	_, ok := registry.Lookup("telegram:2")
	assert.False(t, ok)
}

func TestReleaseFreesSlotAndInFlight(t *testing.T) {
	c, _, inflight := newTestController(10)

	require.Equal(t, Accepted, c.Decide("telegram:1", true).Decision)
	inflight.Add("telegram:1")

	c.Release("telegram:1")

	assert.Equal(t, 0, c.Active())
	assert.False(t, inflight.Contains("telegram:1"))
}

func TestReleaseFloorsAtZero(t *testing.T) {
	c, _, _ := newTestController(10)

	c.Release("telegram:1")
	c.Release("telegram:1")

	assert.Equal(t, 0, c.Active())
}

func TestRemoveWaitingHandlesHeadOfQueue(t *testing.T) {
	c, _, _ := newTestController(1)

	require.Equal(t, Accepted, c.Decide("telegram:1", true).Decision)
	require.Equal(t, Queued, c.Decide("telegram:2", true).Decision)
	require.Equal(t, Queued, c.Decide("telegram:3", true).Decision)

	// index 0 must be removable; a truthiness check on the index would skip it
	c.removeWaiting("telegram:2")

	assert.Equal(t, []string{"telegram:3"}, c.waitingSnapshot())
}
