package admission

import (
	"sync"
	"time"

	"github.com/ghsss/real-time-translator-client/internal/session"
)

// Decision is the outcome of an admission request.
type Decision int

const (
	Accepted Decision = iota
	Queued
	RejectedBusy
	RejectedAlreadyQueued
	RejectedRateLimited
)

func (d Decision) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case Queued:
		return "queued"
	case RejectedBusy:
		return "rejected_busy"
	case RejectedAlreadyQueued:
		return "rejected_already_queued"
	case RejectedRateLimited:
		return "rejected_rate_limited"
	default:
		return "unknown"
	}
}

// Result carries the decision plus the counters observed at decision time,
// so callers can format "(active/limit)" notices without racing the state.
type Result struct {
	Decision Decision
	Active   int
	Limit    int
}

// Config tunes the controller. Zero values fall back to the defaults the
// bot has always run with.
type Config struct {
	Limit              int
	MinRequestInterval time.Duration
	DrainGrace         time.Duration
	DrainPacing        time.Duration
}

const (
	defaultLimit              = 10
	defaultMinRequestInterval = 30 * time.Second
	defaultDrainGrace         = 15 * time.Second
	defaultDrainPacing        = 300 * time.Millisecond

	// drainTick is how often the notifier loop checks for a capacity change.
	drainTick = time.Second
)

// Controller tracks the active-session count against a fixed capacity and
// keeps the FIFO waiting queue. All decisions run under one mutex from first
// read to final mutation; no I/O happens while it is held.
type Controller struct {
	mu      sync.Mutex
	active  int
	limit   int
	waiting []string

	minInterval time.Duration
	drainGrace  time.Duration
	drainPacing time.Duration

	registry *session.Registry
	inflight *session.InFlight

	now func() time.Time
}

// NotifyFunc delivers a notice to a session's chat. Errors are the caller's
// to log; the controller never fails an admission decision on send errors.
type NotifyFunc func(sessionID, text string) error
