package ledger

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// The snapshot codec cannot carry invalid UTF-8 without rewriting it.
var errInvalidText = shared.NewDomainError("ledger", "RecordSubmission", shared.ErrInvalidInput,
	"display label and body must be valid UTF-8")

// Ledger maps day key → participant → submission record.
//
// All mutations hold the write lock through the snapshot save, so saves
// are totally ordered and readers never observe a half-applied write. A
// mutation whose save fails is rolled back before the lock is released.
type Ledger struct {
	mu       sync.RWMutex
	days     map[shared.DayKey]*dayBucket
	dayOrder []shared.DayKey

	store SnapshotStore
	loc   *time.Location
}

// New creates an empty ledger. Day keys are derived in loc.
func New(store SnapshotStore, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.Local
	}
	return &Ledger{
		days:  make(map[shared.DayKey]*dayBucket),
		store: store,
		loc:   loc,
	}
}

// Location returns the location day keys are derived in.
func (l *Ledger) Location() *time.Location { return l.loc }

// DayKey returns the day key of now in the ledger location.
func (l *Ledger) DayKey(now time.Time) shared.DayKey {
	return shared.DayKeyIn(now, l.loc)
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITES
// ══════════════════════════════════════════════════════════════════════════════

// RecordSubmission creates or overwrites the record for (dayKey(now), id)
// and persists the ledger before returning. Label and body must be valid
// UTF-8. Persistence failures surface as
// errors matching shared.ErrPersistence and leave the ledger unchanged.
func (l *Ledger) RecordSubmission(ctx context.Context, id shared.ParticipantID, displayLabel, body string, now time.Time) (SubmissionRecord, error) {
	if id.IsZero() {
		return SubmissionRecord{}, shared.ErrEmptyParticipantID
	}
	if !utf8.ValidString(displayLabel) || !utf8.ValidString(body) {
		return SubmissionRecord{}, errInvalidText
	}

	rec := SubmissionRecord{
		ParticipantID: id,
		DisplayLabel:  displayLabel,
		Body:          body,
		SubmittedAt:   now.In(l.loc),
	}
	day := l.DayKey(now)

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, dayExisted := l.days[day]
	if !dayExisted {
		bucket = newDayBucket()
		l.days[day] = bucket
		l.dayOrder = append(l.dayOrder, day)
	}
	prev, recExisted := bucket.records[id]
	bucket.put(rec)

	rollback := func() {
		if recExisted {
			bucket.records[id] = prev
		} else {
			bucket.removeLast(id)
		}
		if !dayExisted {
			delete(l.days, day)
			l.dayOrder = l.dayOrder[:len(l.dayOrder)-1]
		}
	}

	if err := l.persistLocked(ctx); err != nil {
		rollback()
		return SubmissionRecord{}, err
	}

	return rec, nil
}

// persistLocked encodes and saves the current contents. Caller holds mu.
func (l *Ledger) persistLocked(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	raw, err := encodeSnapshot(l.dayOrder, l.days)
	if err != nil {
		return shared.WrapError("ledger", "Persist", shared.ErrPersistence, "encode snapshot", err)
	}
	if err := l.store.Save(ctx, raw); err != nil {
		return shared.WrapError("ledger", "Persist", shared.ErrPersistence, "save snapshot", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// READS
// ══════════════════════════════════════════════════════════════════════════════

// HasSubmitted reports whether id has a record on day.
func (l *Ledger) HasSubmitted(day shared.DayKey, id shared.ParticipantID) bool {
	_, ok := l.GetRecord(day, id)
	return ok
}

// GetRecord returns the record for (day, id). Absence is not an error.
func (l *Ledger) GetRecord(day shared.DayKey, id shared.ParticipantID) (SubmissionRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bucket, ok := l.days[day]
	if !ok {
		return SubmissionRecord{}, false
	}
	rec, ok := bucket.records[id]
	return rec, ok
}

// AllRecordsFor returns day's records in order of first submission.
func (l *Ledger) AllRecordsFor(day shared.DayKey) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bucket, ok := l.days[day]
	if !ok {
		return nil
	}
	return bucket.entries()
}

// SubmittedOn returns the set of participants with a record on day.
func (l *Ledger) SubmittedOn(day shared.DayKey) map[shared.ParticipantID]struct{} {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[shared.ParticipantID]struct{})
	if bucket, ok := l.days[day]; ok {
		for id := range bucket.records {
			out[id] = struct{}{}
		}
	}
	return out
}

// HistoryFor returns id's record for each of days, aligned with the input.
// Missing days are nil.
func (l *Ledger) HistoryFor(id shared.ParticipantID, days []shared.DayKey) []*SubmissionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*SubmissionRecord, len(days))
	for i, day := range days {
		bucket, ok := l.days[day]
		if !ok {
			continue
		}
		if rec, ok := bucket.records[id]; ok {
			r := rec
			out[i] = &r
		}
	}
	return out
}

// Days returns all known day keys in first-seen order.
func (l *Ledger) Days() []shared.DayKey {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]shared.DayKey, len(l.dayOrder))
	copy(out, l.dayOrder)
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOTS
// ══════════════════════════════════════════════════════════════════════════════

// Load replaces the ledger contents with the store's snapshot.
// An absent snapshot yields an empty ledger.
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	raw, err := l.store.Load(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrSnapshotNotFound) {
			l.reset()
			return nil
		}
		return shared.WrapError("ledger", "Load", shared.ErrPersistence, "load snapshot", err)
	}
	return l.LoadSnapshot(raw)
}

// LoadSnapshot replaces the ledger contents with a decoded document.
// On error the ledger is left untouched.
func (l *Ledger) LoadSnapshot(raw []byte) error {
	order, days, err := decodeSnapshot(raw, l.loc)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.dayOrder = order
	l.days = days
	return nil
}

// DumpSnapshot encodes the current contents in the persistence format.
func (l *Ledger) DumpSnapshot() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return encodeSnapshot(l.dayOrder, l.days)
}

func (l *Ledger) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.days = make(map[shared.DayKey]*dayBucket)
	l.dayOrder = nil
}
