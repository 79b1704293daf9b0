package command

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dailywarden/warden/internal/domain/ledger"
	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT UPDATE COMMAND
// Records today's update for a participant. A second submission on the same
// day replaces the first. The record is durable before Handle returns.
// ══════════════════════════════════════════════════════════════════════════════

// MaxBodyLength bounds an update body, in runes.
const MaxBodyLength = 4000

// SubmitUpdateCommand contains the submitted update.
type SubmitUpdateCommand struct {
	// ParticipantID is the submitter.
	ParticipantID string

	// DisplayLabel is captured as-is into the record. Empty falls back to
	// the participant ID.
	DisplayLabel string

	// Body is the free-text update. Required.
	Body string
}

// Validate validates the command.
func (c SubmitUpdateCommand) Validate() error {
	if _, err := shared.NewParticipantID(c.ParticipantID); err != nil {
		return err
	}
	if strings.TrimSpace(c.Body) == "" {
		return invalid("SubmitUpdate", "body is required")
	}
	if utf8.RuneCountInString(c.Body) > MaxBodyLength {
		return invalid("SubmitUpdate", fmt.Sprintf("body exceeds %d characters", MaxBodyLength))
	}
	return nil
}

// SubmitUpdateResult contains the stored record.
type SubmitUpdateResult struct {
	Record ledger.SubmissionRecord
	DayKey shared.DayKey

	// Registered reports whether the submitter is opted in to reminders.
	Registered bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SubmitUpdateHandler handles SubmitUpdateCommand.
type SubmitUpdateHandler struct {
	ledger   SubmissionRecorder
	registry Membership
	clock    timeutil.Clock
}

// NewSubmitUpdateHandler creates a new SubmitUpdateHandler.
func NewSubmitUpdateHandler(
	ledger SubmissionRecorder,
	registry Membership,
	clock timeutil.Clock,
) *SubmitUpdateHandler {
	return &SubmitUpdateHandler{
		ledger:   ledger,
		registry: registry,
		clock:    clock,
	}
}

// Handle executes the submit command. Persistence failures are returned
// unchanged in kind (shared.ErrPersistence) and nothing is recorded.
func (h *SubmitUpdateHandler) Handle(ctx context.Context, cmd SubmitUpdateCommand) (*SubmitUpdateResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("submit_update: %w", err)
	}
	id, _ := shared.NewParticipantID(cmd.ParticipantID)

	label := strings.TrimSpace(cmd.DisplayLabel)
	if label == "" {
		label = id.String()
	}

	rec, err := h.ledger.RecordSubmission(ctx, id, label, cmd.Body, h.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("submit_update: %w", err)
	}

	return &SubmitUpdateResult{
		Record:     rec,
		DayKey:     rec.DayKey(),
		Registered: h.registry.IsRegistered(id),
	}, nil
}
