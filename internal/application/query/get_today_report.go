package query

import (
	"context"
	"time"

	"github.com/dailywarden/warden/internal/domain/reminder"
	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET TODAY REPORT QUERY
// Everything submitted today, in order of first submission, plus who is
// still pending.
// ══════════════════════════════════════════════════════════════════════════════

// GetTodayReportQuery has no parameters; "today" comes from the clock.
type GetTodayReportQuery struct{}

// TodayEntryDTO is one submitted update.
type TodayEntryDTO struct {
	ParticipantID shared.ParticipantID `json:"participant_id"`
	DisplayLabel  string               `json:"display_label"`
	Body          string               `json:"body"`
	SubmittedAt   time.Time            `json:"submitted_at"`

	// Time is HH:MM in the clock location.
	Time string `json:"time"`
}

// TodayReportDTO is the day's report.
type TodayReportDTO struct {
	DayKey  shared.DayKey          `json:"day"`
	Entries []TodayEntryDTO        `json:"entries"`
	Pending []shared.ParticipantID `json:"pending"`
}

// IsEmpty reports whether nobody has submitted yet.
func (r *TodayReportDTO) IsEmpty() bool { return len(r.Entries) == 0 }

// GetTodayReportHandler handles GetTodayReportQuery.
type GetTodayReportHandler struct {
	ledger   LedgerReader
	registry MemberLister
	clock    timeutil.Clock
}

// NewGetTodayReportHandler creates a new GetTodayReportHandler.
func NewGetTodayReportHandler(ledger LedgerReader, registry MemberLister, clock timeutil.Clock) *GetTodayReportHandler {
	return &GetTodayReportHandler{ledger: ledger, registry: registry, clock: clock}
}

// Handle executes the query.
func (h *GetTodayReportHandler) Handle(_ context.Context, _ GetTodayReportQuery) (*TodayReportDTO, error) {
	loc := h.clock.Location()
	day := shared.DayKeyIn(h.clock.Now(), loc)

	records := h.ledger.AllRecordsFor(day)
	report := &TodayReportDTO{
		DayKey:  day,
		Entries: make([]TodayEntryDTO, 0, len(records)),
	}

	submitted := make(map[shared.ParticipantID]struct{}, len(records))
	for _, e := range records {
		submitted[e.ParticipantID] = struct{}{}
		report.Entries = append(report.Entries, TodayEntryDTO{
			ParticipantID: e.ParticipantID,
			DisplayLabel:  e.Record.DisplayLabel,
			Body:          e.Record.Body,
			SubmittedAt:   e.Record.SubmittedAt,
			Time:          timeutil.FormatTimeStr(e.Record.SubmittedAt, loc),
		})
	}

	if h.registry != nil {
		report.Pending = reminder.Missing(h.registry.Members(), submitted)
	}
	return report, nil
}
