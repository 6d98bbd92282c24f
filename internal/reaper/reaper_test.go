package reaper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghsss/real-time-translator-client/internal/session"
)

type sweepRecorder struct {
	notified  []string
	reset     []string
	failFirst bool
}

func (s *sweepRecorder) notify(_ context.Context, sessionID, _ string) error {
	if s.failFirst && len(s.notified) == 0 && len(s.reset) == 0 {
		s.notified = append(s.notified, sessionID)
		return errors.New("transport down")
	}

	s.notified = append(s.notified, sessionID)
	return nil
}

func newTestReaper(registry *session.Registry, rec *sweepRecorder) *Reaper {
	r := New(Config{
		IdleTimeout:   10 * time.Minute,
		SweepInterval: 10 * time.Second,
		Pacing:        time.Nanosecond,
	}, registry, rec.notify, func(_ context.Context, id string) {
		rec.reset = append(rec.reset, id)
		registry.Delete(id)
	})

	return r
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	registry := session.NewRegistry()
	rec := &sweepRecorder{}
	r := newTestReaper(registry, rec)

	registry.Touch("telegram:1", true)

	// exactly at the timeout boundary the session is evicted
	base := time.Now()
	r.now = func() time.Time { return base.Add(10 * time.Minute) }

	r.Sweep(context.Background())

	if _, ok := registry.Lookup("telegram:1"); ok {
		t.Error("idle session should be evicted")
	}

	if len(rec.reset) != 1 || rec.reset[0] != "telegram:1" {
		t.Errorf("expected reset of telegram:1, got %v", rec.reset)
	}
}

func TestSweepNotifiesInteractiveOnly(t *testing.T) {
	registry := session.NewRegistry()
	rec := &sweepRecorder{}
	r := newTestReaper(registry, rec)

	registry.Touch("telegram:123", true)
	registry.Touch("telegram:-456", false)

	base := time.Now()
	r.now = func() time.Time { return base.Add(time.Hour) }

	r.Sweep(context.Background())

	if len(rec.notified) != 1 || rec.notified[0] != "telegram:123" {
		t.Errorf("only the interactive session should be notified, got %v", rec.notified)
	}

	if len(rec.reset) != 2 {
		t.Errorf("both sessions should be reset, got %v", rec.reset)
	}

	if registry.Len() != 0 {
		t.Errorf("registry should be empty after sweep, has %d", registry.Len())
	}
}

func TestSweepIsolatesFailures(t *testing.T) {
	registry := session.NewRegistry()
	rec := &sweepRecorder{failFirst: true}
	r := newTestReaper(registry, rec)

	registry.Touch("telegram:1", true)
	registry.Touch("telegram:2", true)

	base := time.Now()
	r.now = func() time.Time { return base.Add(time.Hour) }

	r.Sweep(context.Background())

	// the failed notice must not stop either session's reset
	if len(rec.reset) != 2 {
		t.Errorf("expected both sessions reset despite notify failure, got %v", rec.reset)
	}
}

func TestSweepLeavesFreshSessionsAlone(t *testing.T) {
	registry := session.NewRegistry()
	rec := &sweepRecorder{}
	r := newTestReaper(registry, rec)

	registry.Touch("telegram:1", true)

	r.Sweep(context.Background())

	if len(rec.reset) != 0 || len(rec.notified) != 0 {
		t.Error("fresh session must not be touched")
	}
}
