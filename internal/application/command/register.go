package command

import (
	"context"
	"fmt"

	"github.com/dailywarden/warden/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER / UNREGISTER COMMANDS
// Opt a participant in to (or out of) the hourly reminders. Both are
// idempotent: repeating either is a successful no-op.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterCommand opts a participant in.
type RegisterCommand struct {
	ParticipantID string
}

// Validate validates the command.
func (c RegisterCommand) Validate() error {
	if _, err := shared.NewParticipantID(c.ParticipantID); err != nil {
		return err
	}
	return nil
}

// UnregisterCommand opts a participant out.
type UnregisterCommand struct {
	ParticipantID string
}

// Validate validates the command.
func (c UnregisterCommand) Validate() error {
	return RegisterCommand(c).Validate()
}

// MembershipResult reports the membership after the command.
type MembershipResult struct {
	ParticipantID shared.ParticipantID

	// Registered is the membership after the command ran.
	Registered bool

	// Changed is false when the command was a no-op.
	Changed bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// RegisterHandler handles RegisterCommand.
type RegisterHandler struct {
	registry Membership
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(registry Membership) *RegisterHandler {
	return &RegisterHandler{registry: registry}
}

// Handle executes the register command.
func (h *RegisterHandler) Handle(_ context.Context, cmd RegisterCommand) (*MembershipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	id, _ := shared.NewParticipantID(cmd.ParticipantID)

	return &MembershipResult{
		ParticipantID: id,
		Changed:       h.registry.Register(id),
		Registered:    true,
	}, nil
}

// UnregisterHandler handles UnregisterCommand.
type UnregisterHandler struct {
	registry Membership
}

// NewUnregisterHandler creates a new UnregisterHandler.
func NewUnregisterHandler(registry Membership) *UnregisterHandler {
	return &UnregisterHandler{registry: registry}
}

// Handle executes the unregister command.
func (h *UnregisterHandler) Handle(_ context.Context, cmd UnregisterCommand) (*MembershipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("unregister: %w", err)
	}
	id, _ := shared.NewParticipantID(cmd.ParticipantID)

	return &MembershipResult{
		ParticipantID: id,
		Changed:       h.registry.Unregister(id),
		Registered:    false,
	}, nil
}
