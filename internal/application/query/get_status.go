package query

import (
	"context"
	"fmt"
	"time"

	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATUS QUERY
// Has this participant submitted today?
// ══════════════════════════════════════════════════════════════════════════════

// GetStatusQuery identifies the participant.
type GetStatusQuery struct {
	ParticipantID string
}

// StatusDTO is the participant's standing for today.
type StatusDTO struct {
	ParticipantID shared.ParticipantID `json:"participant_id"`
	DayKey        shared.DayKey        `json:"day"`
	Submitted     bool                 `json:"submitted"`
	Registered    bool                 `json:"registered"`

	// SubmittedAt is set only when Submitted is true.
	SubmittedAt          *time.Time `json:"submitted_at,omitempty"`
	SubmittedAtFormatted string     `json:"submitted_at_formatted,omitempty"`
}

// GetStatusHandler handles GetStatusQuery.
type GetStatusHandler struct {
	ledger   LedgerReader
	registry MemberLister
	clock    timeutil.Clock
}

// NewGetStatusHandler creates a new GetStatusHandler.
func NewGetStatusHandler(ledger LedgerReader, registry MemberLister, clock timeutil.Clock) *GetStatusHandler {
	return &GetStatusHandler{ledger: ledger, registry: registry, clock: clock}
}

// Handle executes the query. A participant with no record is not an error.
func (h *GetStatusHandler) Handle(_ context.Context, q GetStatusQuery) (*StatusDTO, error) {
	id, err := shared.NewParticipantID(q.ParticipantID)
	if err != nil {
		return nil, fmt.Errorf("get_status: %w", err)
	}

	now := h.clock.Now()
	day := shared.DayKeyIn(now, h.clock.Location())

	dto := &StatusDTO{
		ParticipantID: id,
		DayKey:        day,
		Registered:    h.registry.IsRegistered(id),
	}
	if rec, ok := h.ledger.GetRecord(day, id); ok {
		at := rec.SubmittedAt
		dto.Submitted = true
		dto.SubmittedAt = &at
		dto.SubmittedAtFormatted = at.In(h.clock.Location()).Format(timeutil.FormatDateTime)
	}
	return dto, nil
}
