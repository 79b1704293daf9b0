package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailywarden/warden/internal/domain/ledger"
	"github.com/dailywarden/warden/internal/domain/participant"
	"github.com/dailywarden/warden/internal/domain/reminder"
	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/pkg/timeutil"
)

type failingStore struct{}

func (failingStore) Load(context.Context) ([]byte, error) { return nil, shared.ErrSnapshotNotFound }
func (failingStore) Save(context.Context, []byte) error   { return errors.New("read-only filesystem") }

func TestRegisterHandlers_Idempotent(t *testing.T) {
	registry := participant.NewRegistry()
	register := NewRegisterHandler(registry)
	unregister := NewUnregisterHandler(registry)
	ctx := context.Background()

	res, err := register.Handle(ctx, RegisterCommand{ParticipantID: " 42 "})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.True(t, res.Registered)
	assert.Equal(t, shared.ParticipantID("42"), res.ParticipantID)

	res, err = register.Handle(ctx, RegisterCommand{ParticipantID: "42"})
	require.NoError(t, err)
	assert.False(t, res.Changed)

	res, err = unregister.Handle(ctx, UnregisterCommand{ParticipantID: "42"})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.False(t, res.Registered)

	res, err = unregister.Handle(ctx, UnregisterCommand{ParticipantID: "42"})
	require.NoError(t, err)
	assert.False(t, res.Changed)

	_, err = register.Handle(ctx, RegisterCommand{})
	assert.True(t, shared.IsValidation(err))
}

func TestSubmitUpdateHandler(t *testing.T) {
	clock := timeutil.NewManualClock(time.Date(2026, 10, 14, 21, 3, 0, 0, time.UTC))
	l := ledger.New(nil, clock.Location())
	registry := participant.NewRegistry()
	registry.Register("A")
	h := NewSubmitUpdateHandler(l, registry, clock)

	res, err := h.Handle(context.Background(), SubmitUpdateCommand{
		ParticipantID: "A",
		DisplayLabel:  "alice",
		Body:          "wrote tests",
	})
	require.NoError(t, err)
	assert.Equal(t, shared.DayKey("2026-10-14"), res.DayKey)
	assert.True(t, res.Registered)
	assert.Equal(t, "alice", res.Record.DisplayLabel)
	assert.True(t, l.HasSubmitted("2026-10-14", "A"))
	assert.True(t, registry.IsRegistered("A"), "submitting keeps membership")

	res, err = h.Handle(context.Background(), SubmitUpdateCommand{ParticipantID: "B", Body: "hi"})
	require.NoError(t, err)
	assert.False(t, res.Registered)
	assert.Equal(t, "B", res.Record.DisplayLabel)
}

func TestSubmitUpdateHandler_Validation(t *testing.T) {
	clock := timeutil.NewManualClock(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	h := NewSubmitUpdateHandler(ledger.New(nil, time.UTC), participant.NewRegistry(), clock)
	ctx := context.Background()

	_, err := h.Handle(ctx, SubmitUpdateCommand{ParticipantID: "", Body: "x"})
	assert.True(t, shared.IsValidation(err))

	_, err = h.Handle(ctx, SubmitUpdateCommand{ParticipantID: "A", Body: "   "})
	assert.True(t, shared.IsValidation(err))

	_, err = h.Handle(ctx, SubmitUpdateCommand{ParticipantID: "A", Body: strings.Repeat("x", MaxBodyLength+1)})
	assert.True(t, shared.IsValidation(err))
}

func TestSubmitUpdateHandler_PersistenceFailure(t *testing.T) {
	clock := timeutil.NewManualClock(time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC))
	l := ledger.New(failingStore{}, time.UTC)
	h := NewSubmitUpdateHandler(l, participant.NewRegistry(), clock)

	_, err := h.Handle(context.Background(), SubmitUpdateCommand{ParticipantID: "A", Body: "x"})
	require.Error(t, err)
	assert.True(t, shared.IsPersistence(err))
	assert.False(t, l.HasSubmitted("2026-10-14", "A"))
}

func TestSetTargetHandler(t *testing.T) {
	target := reminder.NewTarget("")
	h := NewSetTargetHandler(target)
	ctx := context.Background()

	res, err := h.Handle(ctx, SetTargetCommand{ChatID: "-1001"})
	require.NoError(t, err)
	assert.True(t, res.Configured)
	assert.Equal(t, reminder.Destination("-1001"), res.Target)
	assert.True(t, res.Previous.IsZero())

	res = h.Clear(ctx)
	assert.Equal(t, reminder.Destination("-1001"), res.Previous)
	assert.False(t, res.Configured)
	_, ok := target.Get()
	assert.False(t, ok)

	_, err = h.Handle(ctx, SetTargetCommand{ChatID: " "})
	assert.True(t, shared.IsValidation(err))
}
