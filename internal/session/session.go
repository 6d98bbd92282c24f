package session

import "time"

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Touch refreshes the session's last-interaction timestamp, creating the
// entry if it does not exist yet.
func (r *Registry) Touch(id string, interactive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[id] = Entry{
		LastInteraction: r.now(),
		Interactive:     interactive,
	}
}

func (r *Registry) Lookup(id string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	return e, ok
}

// Delete removes the session entry. Deleting an absent id is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, id)
}

// Snapshot returns a copy of all entries so sweeps can iterate without
// holding the registry lock across notification sends.
func (r *Registry) Snapshot() map[string]Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make(map[string]Entry, len(r.entries))
	for id, e := range r.entries {
		copied[id] = e
	}

	return copied
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

func NewInFlight() *InFlight {
	return &InFlight{ids: make(map[string]struct{})}
}

func (f *InFlight) Add(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ids[id] = struct{}{}
}

func (f *InFlight) Contains(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.ids[id]
	return ok
}

// Remove clears the id from the set. Safe to call repeatedly; every pipeline
// exit path removes unconditionally.
func (f *InFlight) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.ids, id)
}

func (f *InFlight) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.ids)
}
