package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/conversation"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	gamecommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/commands"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	gamequeries "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/queries"
	usercommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/commands"
	usersdomain "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"

	"github.com/eskrenkovic/mediator-go"
)

func (b *Bot) start(ctx context.Context, req request, inviteCode string) error {
	register := usercommands.RegisterUserCommand{
		ID:        req.user.ID,
		Username:  req.user.UserName,
		FirstName: req.user.FirstName,
		LastName:  req.user.LastName,
	}
	if _, err := mediator.Send[usercommands.RegisterUserCommand, usersdomain.User](ctx, register); err != nil {
		return err
	}

	if inviteCode == "" {
		b.reply(ctx, req.chatID, textWelcome, menuKeyboard())
		return nil
	}

	join := gamecommands.JoinGameCommand{InviteCode: inviteCode, UserID: req.user.ID}
	response, err := mediator.Send[gamecommands.JoinGameCommand, gamecommands.JoinGameResponse](ctx, join)
	if err != nil {
		return err
	}

	b.reply(ctx, req.chatID, joinedGameText(response.Game), participantKeyboard(response.Game))
	return nil
}

func (b *Bot) listGames(ctx context.Context, req request) error {
	games, err := mediator.Send[gamequeries.GetUserGamesQuery, []domain.Game](
		ctx,
		gamequeries.GetUserGamesQuery{UserID: req.user.ID},
	)
	if err != nil {
		return err
	}

	if len(games) == 0 {
		b.reply(ctx, req.chatID, textNoGames, menuKeyboard())
		return nil
	}

	b.reply(ctx, req.chatID, "Your games:", gamesKeyboard(req.user.ID, games))
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, req request, c Callback) error {
	switch c.Action {
	case actionMenu:
		b.reply(ctx, req.chatID, textWelcome, menuKeyboard())
		return nil

	case actionCreate:
		if err := b.sessions.Put(ctx, req.chatID, conversation.Session{State: conversation.StateAwaitingGameName}); err != nil {
			return err
		}
		b.reply(ctx, req.chatID, textAskGameName, nil)
		return nil

	case actionGames:
		return b.listGames(ctx, req)

	case actionJoin:
		join := gamecommands.JoinGameCommand{GameID: c.GameID, UserID: req.user.ID}
		response, err := mediator.Send[gamecommands.JoinGameCommand, gamecommands.JoinGameResponse](ctx, join)
		if err != nil {
			return err
		}
		b.reply(ctx, req.chatID, joinedGameText(response.Game), participantKeyboard(response.Game))
		return nil

	case actionCurrency:
		return b.createGame(ctx, req, c.Currency)

	case actionOrganize:
		return b.organize(ctx, req, c.GameID)

	case actionView:
		return b.view(ctx, req, c.GameID)

	case actionDraw:
		return b.draw(ctx, req, c.GameID)

	case actionWish:
		session := conversation.Session{State: conversation.StateAwaitingWish, GameID: c.GameID}
		if err := b.sessions.Put(ctx, req.chatID, session); err != nil {
			return err
		}
		b.reply(ctx, req.chatID, textAskWish, nil)
		return nil

	case actionDelete:
		b.reply(ctx, req.chatID, textConfirmDelete, confirmDeleteKeyboard(c.GameID))
		return nil

	case actionConfirmDelete:
		command := gamecommands.DeleteGameCommand{GameID: c.GameID, ActorID: req.user.ID}
		if _, err := mediator.Send[gamecommands.DeleteGameCommand, core.Unit](ctx, command); err != nil {
			return err
		}
		b.reply(ctx, req.chatID, textGameDeleted, menuKeyboard())
		return nil

	case actionFinish:
		return b.finish(ctx, req, c.GameID)

	case actionPins:
		return b.pins(ctx, req, c.GameID, 0)

	case actionPin:
		if c.Receiver == 0 {
			return b.pins(ctx, req, c.GameID, c.Sender)
		}
		return b.pin(ctx, req, c)

	case actionRefresh:
		return b.refreshProfiles(ctx, req)

	case actionClearPins:
		command := gamecommands.ClearManualPairsCommand{GameID: c.GameID, ActorID: req.user.ID}
		response, err := mediator.Send[gamecommands.ClearManualPairsCommand, gamecommands.ClearManualPairsResponse](ctx, command)
		if err != nil {
			return err
		}
		b.reply(ctx, req.chatID, fmt.Sprintf("Removed %d pinned pairs.", response.Removed), nil)
		return nil
	}

	return fmt.Errorf("%w: unhandled action %q", ErrMalformedCallback, c.Action)
}

func (b *Bot) handleText(ctx context.Context, req request, text string) error {
	session, err := b.sessions.Get(ctx, req.chatID)
	if isNoSession(err) {
		b.reply(ctx, req.chatID, textUnknownInput, nil)
		return nil
	}
	if err != nil {
		return err
	}

	text = strings.TrimSpace(text)

	switch session.State {
	case conversation.StateAwaitingGameName:
		if text == "" || len(text) > domain.MaxNameLength {
			b.reply(ctx, req.chatID, textInvalidName, nil)
			return nil
		}

		session.GameName = text
		session.State = conversation.StateAwaitingBudget
		if err := b.sessions.Put(ctx, req.chatID, session); err != nil {
			return err
		}
		b.reply(ctx, req.chatID, textAskBudget, nil)

	case conversation.StateAwaitingBudget:
		budget, err := domain.ParseBudget(text)
		if err != nil {
			b.reply(ctx, req.chatID, textInvalidBudget, nil)
			return nil
		}

		session.Budget = budget
		session.State = conversation.StateAwaitingCurrency
		if err := b.sessions.Put(ctx, req.chatID, session); err != nil {
			return err
		}
		b.reply(ctx, req.chatID, textAskCurrency, currencyKeyboard())

	case conversation.StateAwaitingCurrency:
		b.reply(ctx, req.chatID, textAskCurrency, currencyKeyboard())

	case conversation.StateAwaitingWish:
		command := gamecommands.SetWishCommand{GameID: session.GameID, UserID: req.user.ID, Text: text}
		if _, err := mediator.Send[gamecommands.SetWishCommand, domain.Wish](ctx, command); err != nil {
			return err
		}

		if err := b.sessions.Delete(ctx, req.chatID); err != nil {
			return err
		}
		b.reply(ctx, req.chatID, textWishSaved, menuKeyboard())

	default:
		b.reply(ctx, req.chatID, textUnknownInput, nil)
	}

	return nil
}

func (b *Bot) createGame(ctx context.Context, req request, currency domain.Currency) error {
	session, err := b.sessions.Get(ctx, req.chatID)
	if isNoSession(err) || (err == nil && session.State != conversation.StateAwaitingCurrency) {
		b.reply(ctx, req.chatID, textUnknownInput, nil)
		return nil
	}
	if err != nil {
		return err
	}

	command := gamecommands.CreateGameCommand{
		OrganizerID: req.user.ID,
		Name:        session.GameName,
		Budget:      session.Budget,
		Currency:    currency,
	}
	response, err := mediator.Send[gamecommands.CreateGameCommand, gamecommands.CreateGameResponse](ctx, command)
	if err != nil {
		return err
	}

	if err := b.sessions.Delete(ctx, req.chatID); err != nil {
		return err
	}

	game := response.Game
	b.reply(ctx, req.chatID, createdText(game, b.inviteLink(game.InviteCode)), organizerKeyboard(game, false))
	return nil
}

func (b *Bot) organize(ctx context.Context, req request, gameID int64) error {
	details, err := mediator.Send[gamequeries.GetGameQuery, gamequeries.GameDetails](
		ctx,
		gamequeries.GetGameQuery{GameID: gameID, ActorID: req.user.ID},
	)
	if err != nil {
		return err
	}

	isAdmin := false
	if user, err := b.users.Get(ctx, req.user.ID); err == nil {
		isAdmin = user.IsAdmin()
	}

	b.reply(ctx, req.chatID, detailsText(details), organizerKeyboard(details.Game, isAdmin))
	return nil
}

func (b *Bot) view(ctx context.Context, req request, gameID int64) error {
	assignment, err := mediator.Send[gamequeries.GetAssignmentQuery, gamequeries.Assignment](
		ctx,
		gamequeries.GetAssignmentQuery{GameID: gameID, UserID: req.user.ID},
	)
	if err == nil {
		b.reply(ctx, req.chatID, assignmentViewText(assignment), nil)
		return nil
	}

	if !isStatus(err, 409) {
		return err
	}

	games, err := mediator.Send[gamequeries.GetUserGamesQuery, []domain.Game](
		ctx,
		gamequeries.GetUserGamesQuery{UserID: req.user.ID},
	)
	if err != nil {
		return err
	}

	for _, g := range games {
		if g.ID == gameID {
			b.reply(ctx, req.chatID, gameText(g), participantKeyboard(g))
			return nil
		}
	}

	return core.NotFound(fmt.Errorf("game %d not found among your games", gameID))
}

func (b *Bot) draw(ctx context.Context, req request, gameID int64) error {
	command := gamecommands.ExecuteDrawCommand{GameID: gameID, ActorID: req.user.ID}
	summary, err := mediator.Send[gamecommands.ExecuteDrawCommand, gamecommands.DrawSummary](ctx, command)
	if err != nil {
		return err
	}

	b.reply(ctx, req.chatID, drawSummaryText(summary), nil)
	return nil
}

func (b *Bot) finish(ctx context.Context, req request, gameID int64) error {
	command := gamecommands.FinishGameCommand{GameID: gameID, ActorID: req.user.ID}
	if _, err := mediator.Send[gamecommands.FinishGameCommand, core.Unit](ctx, command); err != nil {
		return err
	}

	b.reply(ctx, req.chatID, textGameFinished, nil)
	return nil
}

func (b *Bot) pins(ctx context.Context, req request, gameID, sender int64) error {
	details, err := mediator.Send[gamequeries.GetGameQuery, gamequeries.GameDetails](
		ctx,
		gamequeries.GetGameQuery{GameID: gameID, ActorID: req.user.ID},
	)
	if err != nil {
		return err
	}

	text := textPickSender
	if sender != 0 {
		text = textPickReceiver
	}

	b.reply(ctx, req.chatID, text, pinKeyboard(details, sender))
	return nil
}

func (b *Bot) pin(ctx context.Context, req request, c Callback) error {
	command := gamecommands.PinPairCommand{
		GameID:   c.GameID,
		ActorID:  req.user.ID,
		Sender:   c.Sender,
		Receiver: c.Receiver,
	}
	if _, err := mediator.Send[gamecommands.PinPairCommand, domain.Pair](ctx, command); err != nil {
		return err
	}

	return b.pins(ctx, req, c.GameID, 0)
}

func (b *Bot) adminPanel(ctx context.Context, req request, rawGameID string) error {
	user, err := b.users.Get(ctx, req.user.ID)
	if err != nil || !user.IsAdmin() {
		b.reply(ctx, req.chatID, textAdminOnly, nil)
		return nil
	}

	if rawGameID == "" {
		b.reply(ctx, req.chatID, textAdminPanel, adminKeyboard())
		return nil
	}

	gameID, err := strconv.ParseInt(rawGameID, 10, 64)
	if err != nil || gameID <= 0 {
		b.reply(ctx, req.chatID, textAdminPanel, adminKeyboard())
		return nil
	}

	return b.organize(ctx, req, gameID)
}

func (b *Bot) refreshProfiles(ctx context.Context, req request) error {
	response, err := mediator.Send[usercommands.RefreshProfilesCommand, usercommands.RefreshProfilesResponse](
		ctx,
		usercommands.RefreshProfilesCommand{ActorID: req.user.ID},
	)
	if err != nil {
		return err
	}

	b.reply(ctx, req.chatID, refreshText(response), nil)
	return nil
}
