package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dailywarden/warden/internal/application/query"
	"github.com/dailywarden/warden/internal/domain/shared"
)

func TestRenderToday(t *testing.T) {
	var buf bytes.Buffer
	renderToday(&buf, &query.TodayReportDTO{
		DayKey: "2026-10-14",
		Entries: []query.TodayEntryDTO{
			{ParticipantID: "42", DisplayLabel: "alice", Body: "fixed the build", Time: "21:03"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Daily Updates · 2026-10-14")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "fixed the build")
	assert.Contains(t, out, "Submitted at 21:03")
}

func TestRenderToday_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderToday(&buf, &query.TodayReportDTO{DayKey: "2026-10-14"})
	assert.Contains(t, buf.String(), "No updates submitted today yet.")
}

func TestRenderHistory(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	renderHistory(&buf, &query.HistoryDTO{
		ParticipantID:  "42",
		Days:           2,
		SubmittedCount: 1,
		Entries: []query.HistoryEntryDTO{
			{DayKey: "2026-10-14", Submitted: true, Body: "wrote tests", SubmittedAt: &at},
			{DayKey: shared.DayKey("2026-10-13")},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "last 2 days")
	assert.Contains(t, out, "wrote tests")
	assert.Contains(t, out, "2026-10-13")
	assert.Contains(t, out, "1 of 2 days submitted")
}

func TestRenderHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderHistory(&buf, &query.HistoryDTO{ParticipantID: "42", Days: 7})
	assert.Contains(t, buf.String(), "No updates found in this period.")
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["today"])
	assert.True(t, names["history"])
}
