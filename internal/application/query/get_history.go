package query

import (
	"context"
	"fmt"
	"time"

	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET HISTORY QUERY
// A participant's updates over the last N calendar days, today first.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// DefaultHistoryDays is the window used when none is given.
	DefaultHistoryDays = 7

	// MaxHistoryDays caps the window.
	MaxHistoryDays = 90
)

// GetHistoryQuery contains parameters of the history query.
type GetHistoryQuery struct {
	ParticipantID string

	// Days is the window length. Zero or negative yields an empty history;
	// values above MaxHistoryDays are capped.
	Days int
}

// Validate validates the query and caps the window.
func (q *GetHistoryQuery) Validate() error {
	if _, err := shared.NewParticipantID(q.ParticipantID); err != nil {
		return err
	}
	if q.Days > MaxHistoryDays {
		q.Days = MaxHistoryDays
	}
	return nil
}

// HistoryEntryDTO is one day of the window. Body and label are empty when
// nothing was submitted that day.
type HistoryEntryDTO struct {
	DayKey       shared.DayKey `json:"day"`
	Submitted    bool          `json:"submitted"`
	DisplayLabel string        `json:"display_label,omitempty"`
	Body         string        `json:"body,omitempty"`
	SubmittedAt  *time.Time    `json:"submitted_at,omitempty"`
}

// HistoryDTO is the window, aligned day by day.
type HistoryDTO struct {
	ParticipantID  shared.ParticipantID `json:"participant_id"`
	Days           int                  `json:"days"`
	SubmittedCount int                  `json:"submitted_count"`
	Entries        []HistoryEntryDTO    `json:"entries"`
}

// GetHistoryHandler handles GetHistoryQuery.
type GetHistoryHandler struct {
	ledger LedgerReader
	clock  timeutil.Clock
}

// NewGetHistoryHandler creates a new GetHistoryHandler.
func NewGetHistoryHandler(ledger LedgerReader, clock timeutil.Clock) *GetHistoryHandler {
	return &GetHistoryHandler{ledger: ledger, clock: clock}
}

// Handle executes the query. The result has exactly max(Days, 0) entries.
func (h *GetHistoryHandler) Handle(_ context.Context, q GetHistoryQuery) (*HistoryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_history: %w", err)
	}
	id, _ := shared.NewParticipantID(q.ParticipantID)

	loc := h.clock.Location()
	window := timeutil.DaysBack(h.clock.Now(), loc, q.Days)
	keys := make([]shared.DayKey, len(window))
	for i, d := range window {
		keys[i] = shared.DayKeyIn(d, loc)
	}

	records := h.ledger.HistoryFor(id, keys)
	dto := &HistoryDTO{
		ParticipantID: id,
		Days:          len(keys),
		Entries:       make([]HistoryEntryDTO, len(keys)),
	}
	for i, key := range keys {
		entry := HistoryEntryDTO{DayKey: key}
		if rec := records[i]; rec != nil {
			at := rec.SubmittedAt
			entry.Submitted = true
			entry.DisplayLabel = rec.DisplayLabel
			entry.Body = rec.Body
			entry.SubmittedAt = &at
			dto.SubmittedCount++
		}
		dto.Entries[i] = entry
	}
	return dto, nil
}
