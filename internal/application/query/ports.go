// Package query contains read operations (CQRS - Queries).
package query

import (
	"github.com/dailywarden/warden/internal/domain/ledger"
	"github.com/dailywarden/warden/internal/domain/shared"
)

// LedgerReader is the read side of the ledger.
type LedgerReader interface {
	GetRecord(day shared.DayKey, id shared.ParticipantID) (ledger.SubmissionRecord, bool)
	AllRecordsFor(day shared.DayKey) []ledger.Entry
	HistoryFor(id shared.ParticipantID, days []shared.DayKey) []*ledger.SubmissionRecord
}

// MemberLister is the read side of the registry.
type MemberLister interface {
	IsRegistered(id shared.ParticipantID) bool
	Members() []shared.ParticipantID
}
