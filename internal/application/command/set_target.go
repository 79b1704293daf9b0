package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/dailywarden/warden/internal/domain/reminder"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET TARGET COMMAND
// Points reminders at a chat. Without a target, reminder ticks are no-ops.
// ══════════════════════════════════════════════════════════════════════════════

// SetTargetCommand sets the reminder destination.
type SetTargetCommand struct {
	ChatID string
}

// Validate validates the command.
func (c SetTargetCommand) Validate() error {
	if strings.TrimSpace(c.ChatID) == "" {
		return invalid("SetTarget", "chat_id is required")
	}
	return nil
}

// TargetResult reports the destination after the command.
type TargetResult struct {
	Target     reminder.Destination
	Previous   reminder.Destination
	Configured bool
}

// SetTargetHandler handles SetTargetCommand and target clearing.
type SetTargetHandler struct {
	target TargetSetter
}

// NewSetTargetHandler creates a new SetTargetHandler.
func NewSetTargetHandler(target TargetSetter) *SetTargetHandler {
	return &SetTargetHandler{target: target}
}

// Handle sets the destination.
func (h *SetTargetHandler) Handle(_ context.Context, cmd SetTargetCommand) (*TargetResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("set_target: %w", err)
	}
	prev, _ := h.target.Get()
	h.target.Set(cmd.ChatID)
	cur, ok := h.target.Get()
	return &TargetResult{Target: cur, Previous: prev, Configured: ok}, nil
}

// Clear removes the destination, disabling reminders.
func (h *SetTargetHandler) Clear(_ context.Context) *TargetResult {
	prev, _ := h.target.Get()
	h.target.Set("")
	return &TargetResult{Previous: prev}
}
