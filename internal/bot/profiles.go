package bot

import (
	"context"
	"fmt"

	usercommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/commands"
	usersdomain "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ProfileSource struct {
	api API
}

var _ usercommands.ProfileSource = (*ProfileSource)(nil)

func NewProfileSource(api API) *ProfileSource {
	return &ProfileSource{api: api}
}

func (s *ProfileSource) Profile(_ context.Context, userID int64) (usersdomain.Profile, error) {
	chat, err := s.api.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: userID}})
	if err != nil {
		return usersdomain.Profile{}, fmt.Errorf("failed to fetch chat %d: %w", userID, err)
	}

	return usersdomain.Profile{
		Username:  chat.UserName,
		FirstName: chat.FirstName,
		LastName:  chat.LastName,
	}, nil
}
