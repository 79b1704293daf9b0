package reminder

import (
	"strings"
	"sync"
)

// Destination is an opaque delivery address, e.g. a chat ID.
type Destination string

// String returns the raw address.
func (d Destination) String() string { return string(d) }

// IsZero reports whether no address is set.
func (d Destination) IsZero() bool { return d == "" }

// Target holds the currently configured destination. Reminders are skipped
// while it is empty.
type Target struct {
	mu   sync.RWMutex
	dest Destination
}

// NewTarget creates a target, optionally preset to initial.
func NewTarget(initial string) *Target {
	return &Target{dest: Destination(strings.TrimSpace(initial))}
}

// Set replaces the destination. An empty value clears it.
func (t *Target) Set(dest string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dest = Destination(strings.TrimSpace(dest))
}

// Clear removes the destination.
func (t *Target) Clear() { t.Set("") }

// Get returns the destination and whether one is configured.
func (t *Target) Get() (Destination, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dest, !t.dest.IsZero()
}
