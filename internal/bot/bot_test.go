package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/conversation"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	gamecommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/commands"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	gamequeries "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/queries"
	usercommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/commands"
	usersdomain "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"

	"github.com/eskrenkovic/mediator-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	chatID     int64 = 1001
	bannedID   int64 = 1002
	unknownID  int64 = 1003
	adminID    int64 = 1004
	testGameID int64 = 7
)

func testGame() domain.Game {
	return domain.Game{
		ID:           testGameID,
		Name:         "office",
		Budget:       decimal.NewFromInt(20),
		Currency:     domain.CurrencyEUR,
		OrganizerID:  chatID,
		Status:       domain.StatusRunning,
		Participants: []int64{chatID, adminID, unknownID},
	}
}

func register[TRequest any, TResponse any](fn func(context.Context, TRequest) (TResponse, error)) {
	if err := mediator.RegisterRequestHandler[TRequest, TResponse](handlerFunc[TRequest, TResponse](fn)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type handlerFunc[TRequest any, TResponse any] func(context.Context, TRequest) (TResponse, error)

func (f handlerFunc[TRequest, TResponse]) Handle(ctx context.Context, request TRequest) (TResponse, error) {
	return f(ctx, request)
}

var created = struct {
	sync.Mutex
	commands []gamecommands.CreateGameCommand
}{}

func TestMain(m *testing.M) {
	err := mediator.RegisterRequestHandler[gamecommands.CreateGameCommand, gamecommands.CreateGameResponse](
		handlerFunc[gamecommands.CreateGameCommand, gamecommands.CreateGameResponse](
			func(_ context.Context, c gamecommands.CreateGameCommand) (gamecommands.CreateGameResponse, error) {
				created.Lock()
				defer created.Unlock()
				created.commands = append(created.commands, c)

				return gamecommands.CreateGameResponse{Game: domain.Game{
					ID:           7,
					Name:         c.Name,
					Budget:       c.Budget,
					Currency:     c.Currency,
					OrganizerID:  c.OrganizerID,
					InviteCode:   "AbCd1234",
					Status:       domain.StatusSetup,
					Participants: []int64{c.OrganizerID},
				}}, nil
			},
		),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = mediator.RegisterRequestHandler[gamecommands.FinishGameCommand, core.Unit](
		handlerFunc[gamecommands.FinishGameCommand, core.Unit](
			func(_ context.Context, c gamecommands.FinishGameCommand) (core.Unit, error) {
				return core.Unit{}, core.NotFound(fmt.Errorf("game %d not found", c.GameID))
			},
		),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	register(func(_ context.Context, c usercommands.RefreshProfilesCommand) (usercommands.RefreshProfilesResponse, error) {
		if c.ActorID != adminID {
			return usercommands.RefreshProfilesResponse{}, core.Forbidden(usercommands.ErrAdminOnly)
		}
		return usercommands.RefreshProfilesResponse{Updated: 2, Failed: 1, Total: 5}, nil
	})

	register(func(_ context.Context, q gamequeries.GetGameQuery) (gamequeries.GameDetails, error) {
		if q.GameID != testGameID {
			return gamequeries.GameDetails{}, core.NotFound(fmt.Errorf("game %d not found", q.GameID))
		}
		return gamequeries.GameDetails{
			Game:         testGame(),
			Participants: []gamequeries.Participant{{ID: chatID, Name: "Ann"}, {ID: adminID, Name: "Root"}},
		}, nil
	})

	register(func(_ context.Context, q gamequeries.GetAssignmentQuery) (gamequeries.Assignment, error) {
		return gamequeries.Assignment{}, core.Conflict(gamequeries.ErrNoPairYet)
	})

	register(func(_ context.Context, q gamequeries.GetUserGamesQuery) ([]domain.Game, error) {
		return []domain.Game{testGame()}, nil
	})

	os.Exit(m.Run())
}

func callbackDataOf(markup interface{}) []string {
	keyboard, ok := markup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		return nil
	}

	var data []string
	for _, row := range keyboard.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				data = append(data, *b.CallbackData)
			}
		}
	}
	return data
}

func newTestBot(api *fakeAPI) (*Bot, conversation.Store) {
	sessions := conversation.NewMemoryStore(time.Hour)
	users := fakeUsers{
		chatID:   {ID: chatID, Role: usersdomain.RoleUser},
		bannedID: {ID: bannedID, Role: usersdomain.RoleBanned},
		adminID:  {ID: adminID, Role: usersdomain.RoleAdmin},
	}
	return New(api, "santa_bot", sessions, users, zap.NewNop()), sessions
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, FirstName: "Ann"},
		Chat: &tgbotapi.Chat{ID: userID, Type: "private"},
		Text: text,
	}}
}

func commandUpdate(userID int64, command string) tgbotapi.Update {
	update := textUpdate(userID, command)
	update.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(strings.Fields(command)[0])}}
	return update
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: userID, Type: "private"},
		},
		Data: data,
	}}
}

func Test_ParseCallback_Decodes_Known_Actions(t *testing.T) {
	tests := []struct {
		data     string
		expected Callback
	}{
		{data: "menu", expected: Callback{Action: actionMenu}},
		{data: "refresh", expected: Callback{Action: actionRefresh}},
		{data: callbackData(actionDraw, 42), expected: Callback{Action: actionDraw, GameID: 42}},
		{data: currencyData(domain.CurrencyEUR), expected: Callback{Action: actionCurrency, Currency: domain.CurrencyEUR}},
		{data: callbackData(actionPin, 3, 10), expected: Callback{Action: actionPin, GameID: 3, Sender: 10}},
		{data: callbackData(actionPin, 3, 10, 11), expected: Callback{Action: actionPin, GameID: 3, Sender: 10, Receiver: 11}},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			// Act
			callback, err := ParseCallback(tt.data)

			// Assert
			require.NoError(t, err)
			require.Equal(t, tt.expected, callback)
		})
	}
}

func Test_ParseCallback_Rejects_Malformed_Data(t *testing.T) {
	for _, data := range []string{"", "bogus", "draw", "draw:x", "draw:-1", "menu:1", "currency:GBP", "pin:3", "pin:3:1:2:3"} {
		t.Run(data, func(t *testing.T) {
			// Act
			_, err := ParseCallback(data)

			// Assert
			require.ErrorIs(t, err, ErrMalformedCallback)
		})
	}
}

func Test_Bot_Create_Game_Conversation_Creates_Game(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, sessions := newTestBot(api)
	ctx := context.Background()

	// Act
	b.HandleUpdate(ctx, callbackUpdate(chatID, actionCreate))
	b.HandleUpdate(ctx, textUpdate(chatID, "  Office party "))
	b.HandleUpdate(ctx, textUpdate(chatID, "1500,5"))
	afterBudget, err := sessions.Get(ctx, chatID)
	require.NoError(t, err)
	b.HandleUpdate(ctx, callbackUpdate(chatID, currencyData(domain.CurrencyRUB)))

	// Assert
	require.Equal(t, conversation.StateAwaitingCurrency, afterBudget.State)
	require.True(t, decimal.RequireFromString("1500.50").Equal(afterBudget.Budget))

	created.Lock()
	last := created.commands[len(created.commands)-1]
	created.Unlock()
	require.Equal(t, chatID, last.OrganizerID)
	require.Equal(t, "Office party", last.Name)
	require.Equal(t, domain.CurrencyRUB, last.Currency)

	_, err = sessions.Get(ctx, chatID)
	require.ErrorIs(t, err, conversation.ErrNoSession)

	reply := api.last()
	require.Equal(t, chatID, reply.ChatID)
	require.Contains(t, reply.Text, "https://t.me/santa_bot?start=AbCd1234")
	require.Equal(t, 2, api.requests)
}

func Test_Bot_Invalid_Budget_Keeps_Asking(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, sessions := newTestBot(api)
	ctx := context.Background()
	require.NoError(t, sessions.Put(ctx, chatID, conversation.Session{
		State:    conversation.StateAwaitingBudget,
		GameName: "office",
	}))

	// Act
	b.HandleUpdate(ctx, textUpdate(chatID, "a lot"))

	// Assert
	session, err := sessions.Get(ctx, chatID)
	require.NoError(t, err)
	require.Equal(t, conversation.StateAwaitingBudget, session.State)
	require.Equal(t, textInvalidBudget, api.last().Text)
}

func Test_Bot_Text_Without_Session_Is_Unknown_Input(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)

	// Act
	b.HandleUpdate(context.Background(), textUpdate(unknownID, "hello"))

	// Assert
	require.Equal(t, textUnknownInput, api.last().Text)
}

func Test_Bot_Ignores_Banned_User(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)

	// Act
	b.HandleUpdate(context.Background(), textUpdate(bannedID, "hello"))

	// Assert
	require.Zero(t, api.count())
}

func Test_Bot_Cancel_Drops_Conversation(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, sessions := newTestBot(api)
	ctx := context.Background()
	require.NoError(t, sessions.Put(ctx, chatID, conversation.Session{State: conversation.StateAwaitingGameName}))

	// Act
	b.HandleUpdate(ctx, commandUpdate(chatID, "/cancel"))

	// Assert
	_, err := sessions.Get(ctx, chatID)
	require.ErrorIs(t, err, conversation.ErrNoSession)
	require.Equal(t, textCancelled, api.last().Text)
}

func Test_Bot_Admin_Action_Reports_Command_Error(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)

	// Act
	b.HandleUpdate(context.Background(), commandUpdate(chatID, "/admin_action finish 77"))

	// Assert
	require.Equal(t, "Game 77 not found.", api.last().Text)
}

func Test_Bot_Admin_Action_Rejects_Bad_Arguments(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)

	// Act
	b.HandleUpdate(context.Background(), commandUpdate(chatID, "/admin_action explode 1"))

	// Assert
	require.Equal(t, textAdminUsage, api.last().Text)
}

func Test_Bot_Update_Users_Reports_Counts_To_Admin(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)

	// Act
	b.HandleUpdate(context.Background(), commandUpdate(adminID, "/update_users"))

	// Assert
	require.Equal(t, "Profiles refreshed. Updated: 2, failed: 1, total: 5.", api.last().Text)
}

func Test_Bot_Update_Users_Is_Refused_For_Regular_User(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)

	// Act
	b.HandleUpdate(context.Background(), commandUpdate(chatID, "/update_users"))

	// Assert
	require.Equal(t, "Only an administrator can do that.", api.last().Text)
}

func Test_Bot_Refresh_Button_Refreshes_Profiles(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)

	// Act
	b.HandleUpdate(context.Background(), callbackUpdate(adminID, actionRefresh))

	// Assert
	require.Equal(t, "Profiles refreshed. Updated: 2, failed: 1, total: 5.", api.last().Text)
}

func Test_Bot_Admin_Panel_Is_Only_For_Admins(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)
	ctx := context.Background()

	// Act
	b.HandleUpdate(ctx, commandUpdate(chatID, "/admin"))
	refused := api.last()
	b.HandleUpdate(ctx, commandUpdate(adminID, "/admin"))
	panel := api.last()

	// Assert
	require.Equal(t, textAdminOnly, refused.Text)
	require.Equal(t, textAdminPanel, panel.Text)
	require.Contains(t, callbackDataOf(panel.ReplyMarkup), actionRefresh)
}

func Test_Bot_Admin_Panel_Opens_Game_With_Pins(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)

	// Act
	b.HandleUpdate(context.Background(), commandUpdate(adminID, "/admin 7"))

	// Assert
	reply := api.last()
	require.Contains(t, reply.Text, "office")
	require.Contains(t, callbackDataOf(reply.ReplyMarkup), callbackData(actionPins, testGameID))
}

func Test_Bot_View_Without_Pair_Shows_Game(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	b, _ := newTestBot(api)

	// Act
	b.HandleUpdate(context.Background(), callbackUpdate(unknownID, callbackData(actionView, testGameID)))

	// Assert
	reply := api.last()
	require.Equal(t, gameText(testGame()), reply.Text)
	require.Contains(t, callbackDataOf(reply.ReplyMarkup), callbackData(actionWish, testGameID))
}

func Test_ErrorText_Hides_Internal_Errors(t *testing.T) {
	require.Equal(t, textFailure, errorText(errors.New("connection refused")))
	require.Equal(t, textFailure, errorText(core.Internal(errors.New("boom"))))
	require.Equal(t, "Game is already finished.", errorText(core.Conflict(domain.ErrGameFinished)))
}

func Test_Notifier_Sends_Assignment_To_Sender(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	notifier := NewNotifier(api)

	// Act
	err := notifier.NotifyAssignment(context.Background(), domain.AssignmentNotice{
		GameID:       7,
		GameName:     "office",
		SenderID:     10,
		ReceiverID:   11,
		ReceiverName: "Bob",
		Budget:       decimal.NewFromInt(25),
		Currency:     domain.CurrencyEUR,
	})

	// Assert
	require.NoError(t, err)
	msg := api.last()
	require.Equal(t, int64(10), msg.ChatID)
	require.Contains(t, msg.Text, "Bob")
	require.Contains(t, msg.Text, textNoWish)
	require.Contains(t, msg.Text, "25.00 EUR")
}

func Test_Notifier_Returns_Delivery_Error(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	api.failFor[10] = true
	notifier := NewNotifier(api)

	// Act
	err := notifier.NotifyJoined(context.Background(), domain.JoinNotice{
		GameID:          7,
		GameName:        "office",
		OrganizerID:     10,
		ParticipantID:   12,
		ParticipantName: "Carol",
	})

	// Assert
	require.Error(t, err)
	require.Zero(t, api.count())
}

func Test_ProfileSource_Reads_Chat_Profile(t *testing.T) {
	// Arrange
	api := newFakeAPI()
	api.chats[10] = tgbotapi.Chat{ID: 10, UserName: "ann", FirstName: "Ann", LastName: "Lee"}
	source := NewProfileSource(api)

	// Act
	profile, err := source.Profile(context.Background(), 10)
	_, missingErr := source.Profile(context.Background(), 11)

	// Assert
	require.NoError(t, err)
	require.Equal(t, usersdomain.Profile{Username: "ann", FirstName: "Ann", LastName: "Lee"}, profile)
	require.Error(t, missingErr)
}
