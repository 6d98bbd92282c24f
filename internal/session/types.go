package session

import (
	"sync"
	"time"
)

// Entry is the per-session state tracked while a chat is active.
type Entry struct {
	LastInteraction time.Time
	// Interactive marks a 1:1 conversation. Group chats are reset silently;
	// interactive chats get a notice first.
	Interactive bool
}

// Registry holds all active sessions keyed by session id. A session id
// appears at most once; presence means the session is active.
type Registry struct {
	mu      sync.Mutex
	entries map[string]Entry
	now     func() time.Time
}

// InFlight is the set of session ids currently running a job through the
// pipeline. Membership means new job requests for the id are rejected busy.
type InFlight struct {
	mu  sync.Mutex
	ids map[string]struct{}
}
