// Package participant tracks who has opted in to daily reminders.
package participant

import (
	"sort"
	"sync"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// Registry is the set of opted-in participants. Membership is independent of
// submissions and is not persisted: a restart starts with an empty set.
type Registry struct {
	mu      sync.RWMutex
	members map[shared.ParticipantID]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{members: make(map[shared.ParticipantID]struct{})}
}

// Register adds id. Reports whether membership changed.
func (r *Registry) Register(id shared.ParticipantID) bool {
	if id.IsZero() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; ok {
		return false
	}
	r.members[id] = struct{}{}
	return true
}

// Unregister removes id. Reports whether membership changed.
func (r *Registry) Unregister(id shared.ParticipantID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	return true
}

// IsRegistered reports membership.
func (r *Registry) IsRegistered(id shared.ParticipantID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

// Members returns a sorted copy of the member set.
func (r *Registry) Members() []shared.ParticipantID {
	r.mu.RLock()
	out := make([]shared.ParticipantID, 0, len(r.members))
	for id := range r.members {
		out = append(out, id)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of members.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
