package bot

import (
	"context"
	"errors"
	"sync"

	usersdomain "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.MessageConfig
	requests int
	failFor  map[int64]bool
	chats    map[int64]tgbotapi.Chat
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{failFor: map[int64]bool{}, chats: map[int64]tgbotapi.Chat{}}
}

func (a *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}

	if a.failFor[msg.ChatID] {
		return tgbotapi.Message{}, errors.New("Forbidden: bot was blocked by the user")
	}

	a.sent = append(a.sent, msg)
	return tgbotapi.Message{Text: msg.Text}, nil
}

func (a *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (a *fakeAPI) GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error) {
	chat, ok := a.chats[config.ChatID]
	if !ok {
		return tgbotapi.Chat{}, errors.New("Bad Request: chat not found")
	}
	return chat, nil
}

func (a *fakeAPI) last() tgbotapi.MessageConfig {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.sent) == 0 {
		return tgbotapi.MessageConfig{}
	}
	return a.sent[len(a.sent)-1]
}

func (a *fakeAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.sent)
}

type fakeUsers map[int64]usersdomain.User

var errNoUser = errors.New("user not found")

func (u fakeUsers) Get(_ context.Context, id int64) (usersdomain.User, error) {
	user, ok := u[id]
	if !ok {
		return usersdomain.User{}, errNoUser
	}
	return user, nil
}
