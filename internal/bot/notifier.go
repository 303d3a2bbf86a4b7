package bot

import (
	"context"
	"fmt"

	gamecommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/commands"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers game notices as private chat messages. Telegram private
// chat ids equal user ids.
type Notifier struct {
	api API
}

var _ gamecommands.Notifier = (*Notifier)(nil)

func NewNotifier(api API) *Notifier {
	return &Notifier{api: api}
}

func (n *Notifier) NotifyAssignment(_ context.Context, notice domain.AssignmentNotice) error {
	if _, err := n.api.Send(tgbotapi.NewMessage(notice.SenderID, assignmentText(notice))); err != nil {
		return fmt.Errorf("failed to notify sender %d: %w", notice.SenderID, err)
	}
	return nil
}

func (n *Notifier) NotifyJoined(_ context.Context, notice domain.JoinNotice) error {
	if _, err := n.api.Send(tgbotapi.NewMessage(notice.OrganizerID, joinedText(notice))); err != nil {
		return fmt.Errorf("failed to notify organizer %d: %w", notice.OrganizerID, err)
	}
	return nil
}
