// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"time"

	"github.com/dailywarden/warden/internal/domain/ledger"
	"github.com/dailywarden/warden/internal/domain/reminder"
	"github.com/dailywarden/warden/internal/domain/shared"
)

// Membership is the registry surface commands mutate.
type Membership interface {
	Register(id shared.ParticipantID) bool
	Unregister(id shared.ParticipantID) bool
	IsRegistered(id shared.ParticipantID) bool
}

// SubmissionRecorder is the ledger surface commands mutate.
type SubmissionRecorder interface {
	RecordSubmission(ctx context.Context, id shared.ParticipantID, displayLabel, body string, now time.Time) (ledger.SubmissionRecord, error)
}

// TargetSetter holds the reminder destination.
type TargetSetter interface {
	Set(dest string)
	Get() (reminder.Destination, bool)
}

func invalid(op, message string) error {
	return shared.NewDomainError("command", op, shared.ErrInvalidInput, message)
}
