// Package presenter formats domain data for Telegram display.
package presenter

import (
	"fmt"
	"html"
	"strings"

	"github.com/dailywarden/warden/internal/domain/reminder"
	"github.com/dailywarden/warden/internal/domain/shared"
)

// ParseModeHTML is the Bot API parse mode the presenters emit.
const ParseModeHTML = "HTML"

// ══════════════════════════════════════════════════════════════════════════════
// REMINDER PRESENTER
// ══════════════════════════════════════════════════════════════════════════════

// View is a rendered message ready to send.
type View struct {
	Text      string
	ParseMode string
}

// ReminderPresenter renders reminder intents.
type ReminderPresenter struct {
	// SubmitHint tells participants how to submit. Empty omits the line.
	SubmitHint string
}

// NewReminderPresenter creates a presenter with the given submit hint.
func NewReminderPresenter(submitHint string) *ReminderPresenter {
	return &ReminderPresenter{SubmitHint: submitHint}
}

// Render formats an intent:
//
//	⏰ <b>URGENT</b> @a @b
//	You have <b>2 hour(s)</b> left to submit your daily update!
func (p *ReminderPresenter) Render(intent reminder.Intent) View {
	var sb strings.Builder

	if intent.Urgency.IsUrgent() {
		sb.WriteString("⏰ <b>URGENT</b>")
	} else {
		sb.WriteString("⏰ Reminder")
	}
	for _, id := range intent.Recipients {
		sb.WriteByte(' ')
		sb.WriteString(Mention(id))
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "You have <b>%d hour(s)</b> left to submit your daily update!", intent.HoursRemaining)
	if p.SubmitHint != "" {
		sb.WriteByte('\n')
		sb.WriteString(html.EscapeString(p.SubmitHint))
	}

	return View{Text: sb.String(), ParseMode: ParseModeHTML}
}

// Mention renders a participant reference. Numeric ids are Telegram user ids
// and become inline mentions; anything else is shown as text.
func Mention(id shared.ParticipantID) string {
	s := id.String()
	if isNumeric(s) {
		return fmt.Sprintf(`<a href="tg://user?id=%s">%s</a>`, s, s)
	}
	return html.EscapeString(s)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
