// Package reaper evicts sessions that have gone idle, freeing their
// registry entries so the bot does not accumulate dead chats.
package reaper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ghsss/real-time-translator-client/internal/logger"
	"github.com/ghsss/real-time-translator-client/internal/session"
	"github.com/ghsss/real-time-translator-client/internal/timing"
)

const noticeInactivity = "<b><em>Reseting chat because of inactivity . . .</em></b>"

const (
	defaultIdleTimeout   = 10 * time.Minute
	defaultSweepInterval = 10 * time.Second
	defaultPacing        = 100 * time.Millisecond
)

// NotifyFunc sends a notice to a session's chat.
type NotifyFunc func(ctx context.Context, sessionID, text string) error

// ResetFunc destroys the session entry; for interactive sessions it also
// tells the user the chat was restarted.
type ResetFunc func(ctx context.Context, sessionID string)

type Config struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	Pacing        time.Duration
}

type Reaper struct {
	registry *session.Registry
	notify   NotifyFunc
	reset    ResetFunc

	idleTimeout   time.Duration
	sweepInterval time.Duration
	pacing        time.Duration

	cron *cron.Cron
	now  func() time.Time
}

func New(cfg Config, registry *session.Registry, notify NotifyFunc, reset ResetFunc) *Reaper {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.Pacing <= 0 {
		cfg.Pacing = defaultPacing
	}

	return &Reaper{
		registry:      registry,
		notify:        notify,
		reset:         reset,
		idleTimeout:   cfg.IdleTimeout,
		sweepInterval: cfg.SweepInterval,
		pacing:        cfg.Pacing,
		now:           time.Now,
	}
}

// Start schedules the periodic sweep. Stop with Stop.
func (r *Reaper) Start(ctx context.Context) error {
	c := cron.New(cron.WithSeconds())

	spec := fmt.Sprintf("@every %s", r.sweepInterval)
	if _, err := c.AddFunc(spec, func() { r.Sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}

	c.Start()
	r.cron = c

	logger.Info("idle reaper started", "interval", r.sweepInterval, "timeout", r.idleTimeout)
	return nil
}

func (r *Reaper) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// Sweep resets every session idle past the timeout. Interactive sessions get
// an inactivity notice first; group sessions are reset silently. One
// session's failure never aborts the sweep for the rest.
func (r *Reaper) Sweep(ctx context.Context) {
	now := r.now()

	for sessionID, entry := range r.registry.Snapshot() {
		if now.Sub(entry.LastInteraction) < r.idleTimeout {
			continue
		}

		logger.Info("evicting idle session", "session", sessionID, "interactive", entry.Interactive)

		if entry.Interactive {
			if err := r.notify(ctx, sessionID, noticeInactivity); err != nil {
				logger.Error("inactivity notice failed", "session", sessionID, "error", err)
			}
		}

		r.reset(ctx, sessionID)

		if err := timing.Wait(ctx, r.pacing); err != nil {
			return
		}
	}
}
