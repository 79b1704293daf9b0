// Package ledger owns the durable record of daily updates: for every day,
// which participants submitted and what they wrote.
package ledger

import (
	"time"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// SubmissionRecord is one participant's update for one day.
// The display label is captured at submission time, not looked up live.
type SubmissionRecord struct {
	ParticipantID shared.ParticipantID
	DisplayLabel  string
	Body          string
	SubmittedAt   time.Time
}

// DayKey returns the day the record belongs to, in the record's own location.
func (r SubmissionRecord) DayKey() shared.DayKey {
	return shared.DayKeyOf(r.SubmittedAt)
}

// Entry pairs a participant with their record, as returned by per-day listings.
type Entry struct {
	ParticipantID shared.ParticipantID
	Record        SubmissionRecord
}

// dayBucket holds one day's records plus the order of first submission.
type dayBucket struct {
	order   []shared.ParticipantID
	records map[shared.ParticipantID]SubmissionRecord
}

func newDayBucket() *dayBucket {
	return &dayBucket{records: make(map[shared.ParticipantID]SubmissionRecord)}
}

// put inserts or overwrites. Overwrites keep the original position.
func (b *dayBucket) put(rec SubmissionRecord) {
	if _, exists := b.records[rec.ParticipantID]; !exists {
		b.order = append(b.order, rec.ParticipantID)
	}
	b.records[rec.ParticipantID] = rec
}

// removeLast undoes the most recent insert of id.
func (b *dayBucket) removeLast(id shared.ParticipantID) {
	delete(b.records, id)
	if n := len(b.order); n > 0 && b.order[n-1] == id {
		b.order = b.order[:n-1]
	}
}

func (b *dayBucket) entries() []Entry {
	out := make([]Entry, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, Entry{ParticipantID: id, Record: b.records[id]})
	}
	return out
}
