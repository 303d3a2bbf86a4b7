package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/conversation"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	usersdomain "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserLookup interface {
	Get(ctx context.Context, id int64) (usersdomain.User, error)
}

// Bot turns Telegram updates into mediator requests and renders their
// results back to the chat.
type Bot struct {
	api      API
	username string
	sessions conversation.Store
	users    UserLookup
	logger   *zap.Logger
}

func New(api API, username string, sessions conversation.Store, users UserLookup, logger *zap.Logger) *Bot {
	return &Bot{
		api:      api,
		username: username,
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// Run handles updates one at a time until ctx is done or the channel is
// closed.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

type request struct {
	chatID int64
	user   *tgbotapi.User
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	var req request

	switch {
	case update.Message != nil && update.Message.From != nil:
		req = request{chatID: update.Message.Chat.ID, user: update.Message.From}
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		req = request{chatID: update.CallbackQuery.From.ID, user: update.CallbackQuery.From}
		if update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil {
			req.chatID = update.CallbackQuery.Message.Chat.ID
		}
	default:
		return
	}

	ctx = core.WithCorrelationID(ctx, uuid.NewString())
	ctx = core.WithSession(ctx, core.ContextSession{UserID: req.user.ID})
	ctx = core.WithLogger(ctx, b.logger.With(zap.Int64("chat_id", req.chatID)))

	if user, err := b.users.Get(ctx, req.user.ID); err == nil && user.IsBanned() {
		core.LogInfo(ctx, "ignoring banned user", zap.Int64("user_id", req.user.ID))
		return
	}

	var err error
	switch {
	case update.Message != nil && update.Message.IsCommand():
		err = b.handleCommand(ctx, req, update.Message)
	case update.Message != nil:
		err = b.handleText(ctx, req, update.Message.Text)
	default:
		err = b.handleCallbackQuery(ctx, req, update.CallbackQuery)
	}

	if err != nil {
		core.LogWarn(ctx, "update handling failed", zap.Error(err))
		b.reply(ctx, req.chatID, errorText(err), nil)
	}
}

func (b *Bot) handleCommand(ctx context.Context, req request, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.start(ctx, req, strings.TrimSpace(msg.CommandArguments()))
	case "cancel":
		if err := b.sessions.Delete(ctx, req.chatID); err != nil {
			return err
		}
		b.reply(ctx, req.chatID, textCancelled, menuKeyboard())
		return nil
	case "mygames":
		return b.listGames(ctx, req)
	case "admin_action":
		return b.adminAction(ctx, req, strings.Fields(msg.CommandArguments()))
	case "admin":
		return b.adminPanel(ctx, req, strings.TrimSpace(msg.CommandArguments()))
	case "update_users":
		return b.refreshProfiles(ctx, req)
	default:
		b.reply(ctx, req.chatID, textUnknownCommand, nil)
		return nil
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, req request, query *tgbotapi.CallbackQuery) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		core.LogWarn(ctx, "failed to answer callback", zap.Error(err))
	}

	callback, err := ParseCallback(query.Data)
	if err != nil {
		return err
	}

	return b.handleCallback(ctx, req, callback)
}

func (b *Bot) adminAction(ctx context.Context, req request, args []string) error {
	if len(args) != 2 {
		b.reply(ctx, req.chatID, textAdminUsage, nil)
		return nil
	}

	gameID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || gameID <= 0 {
		b.reply(ctx, req.chatID, textAdminUsage, nil)
		return nil
	}

	switch args[0] {
	case "draw":
		return b.draw(ctx, req, gameID)
	case "finish":
		return b.finish(ctx, req, gameID)
	default:
		b.reply(ctx, req.chatID, textAdminUsage, nil)
		return nil
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := b.api.Send(msg); err != nil {
		core.LogWarn(ctx, "failed to send message", zap.Error(err))
	}
}

func (b *Bot) inviteLink(code string) string {
	if b.username == "" {
		return code
	}
	return fmt.Sprintf("https://t.me/%s?start=%s", b.username, code)
}

func isNoSession(err error) bool {
	return errors.Is(err, conversation.ErrNoSession)
}
