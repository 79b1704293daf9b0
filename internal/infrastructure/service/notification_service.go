// Package service adapts infrastructure clients to the ports the jobs use.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dailywarden/warden/internal/domain/reminder"
	"github.com/dailywarden/warden/internal/infrastructure/external/telegram"
	"github.com/dailywarden/warden/internal/interface/telegram/presenter"
	"github.com/dailywarden/warden/pkg/logger"
)

// MessageSender is the part of the Telegram client the notifier needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params telegram.SendMessageParams) (*telegram.Message, error)
}

// ReminderNotifier renders an intent and posts it to the intent's target chat.
type ReminderNotifier struct {
	sender    MessageSender
	presenter *presenter.ReminderPresenter
	logger    *zap.Logger
}

// NewReminderNotifier creates a Telegram-backed notifier.
func NewReminderNotifier(sender MessageSender, p *presenter.ReminderPresenter, log *zap.Logger) *ReminderNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReminderNotifier{
		sender:    sender,
		presenter: p,
		logger:    log.With(logger.Component("reminder_notifier")),
	}
}

// Notify sends one message. Failures are returned to the caller unretried.
func (n *ReminderNotifier) Notify(ctx context.Context, intent reminder.Intent) error {
	view := n.presenter.Render(intent)

	msg, err := n.sender.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:    intent.Target.String(),
		Text:      view.Text,
		ParseMode: view.ParseMode,
	})
	if err != nil {
		return fmt.Errorf("notify %s: %w", intent.Target, err)
	}

	n.logger.Debug("reminder delivered",
		zap.String("intent_id", intent.ID),
		zap.Int64("message_id", msg.MessageID),
	)
	return nil
}

// LogNotifier writes intents to the log instead of delivering them.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{logger: log.With(logger.Component("log_notifier"))}
}

// Notify logs the intent.
func (n *LogNotifier) Notify(_ context.Context, intent reminder.Intent) error {
	ids := make([]string, len(intent.Recipients))
	for i, id := range intent.Recipients {
		ids[i] = id.String()
	}
	n.logger.Info("reminder",
		zap.String("intent_id", intent.ID),
		zap.String("target", intent.Target.String()),
		zap.String("urgency", intent.Urgency.String()),
		zap.Int("hours_remaining", intent.HoursRemaining),
		zap.Strings("recipients", ids),
	)
	return nil
}
