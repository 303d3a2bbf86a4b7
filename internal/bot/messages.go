package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	gamecommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/commands"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	gamequeries "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/queries"
	usercommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/commands"

	"github.com/shopspring/decimal"
)

const (
	textWelcome        = "Welcome to the gift exchange! Create a game or open one of yours."
	textCancelled      = "Cancelled."
	textAskGameName    = "What should the game be called?"
	textAskBudget      = "What is the gift budget? Send a number, for example 1500 or 25.50."
	textAskCurrency    = "Pick the currency."
	textAskWish        = "Send your wish in one message. It replaces the previous one."
	textWishSaved      = "Your wish is saved."
	textNoGames        = "You have no games yet."
	textUnknownInput   = "I did not get that. Use /start to open the menu."
	textUnknownCommand = "Unknown command."
	textConfirmDelete  = "Delete the game with all its pairs and wishes? This cannot be undone."
	textGameDeleted    = "The game is deleted."
	textGameFinished   = "The game is finished."
	textPickSender     = "Who gives the gift?"
	textPickReceiver   = "Who receives the gift?"
	textNoWish         = "no wishes yet"
	textFailure        = "Something went wrong. Please try again later."
	textAdminUsage     = "Usage: /admin_action draw|finish <game id>"
	textAdminPanel     = "Admin panel. Send /admin <game id> to manage a game and its pinned pairs."
	textAdminOnly      = "Only an administrator can do that."
	textInvalidName    = "The name must not be empty."
	textInvalidBudget  = "The budget must be a positive number."
)

func formatMoney(amount decimal.Decimal, currency domain.Currency) string {
	return amount.StringFixed(2) + " " + string(currency)
}

func assignmentText(n domain.AssignmentNotice) string {
	wish := n.WishText
	if wish == "" {
		wish = textNoWish
	}

	return fmt.Sprintf(
		"🎁 Game \"%s\": you give a gift to %s.\nTheir wish: %s\nBudget: %s",
		n.GameName,
		n.ReceiverName,
		wish,
		formatMoney(n.Budget, n.Currency),
	)
}

func joinedText(n domain.JoinNotice) string {
	return fmt.Sprintf("%s joined your game \"%s\".", n.ParticipantName, n.GameName)
}

func createdText(game domain.Game, inviteLink string) string {
	return fmt.Sprintf(
		"Game \"%s\" is created. Budget: %s.\nInvite code: %s\nShare this link: %s",
		game.Name,
		formatMoney(game.Budget, game.Currency),
		game.InviteCode,
		inviteLink,
	)
}

func joinedGameText(game domain.Game) string {
	return fmt.Sprintf(
		"You joined \"%s\". Budget: %s. Tell others what you would like to get.",
		game.Name,
		formatMoney(game.Budget, game.Currency),
	)
}

func gameText(game domain.Game) string {
	return fmt.Sprintf(
		"\"%s\"\nStatus: %s\nBudget: %s\nParticipants: %d",
		game.Name,
		game.Status,
		formatMoney(game.Budget, game.Currency),
		len(game.Participants),
	)
}

func assignmentViewText(a gamequeries.Assignment) string {
	wish := a.WishText
	if wish == "" {
		wish = textNoWish
	}

	return fmt.Sprintf(
		"In \"%s\" you give a gift to %s.\nTheir wish: %s\nBudget: %s",
		a.GameName,
		a.ReceiverName,
		wish,
		formatMoney(a.Budget, a.Currency),
	)
}

func drawSummaryText(s gamecommands.DrawSummary) string {
	text := fmt.Sprintf("The draw is done: %d pairs. Notified: %d.", len(s.Pairs), s.Delivered)
	if s.Failed > 0 {
		text += fmt.Sprintf(" Could not reach %d participants; they can check their pair from the menu.", s.Failed)
	}
	return text
}

func detailsText(d gamequeries.GameDetails) string {
	var b strings.Builder
	b.WriteString(gameText(d.Game))

	if len(d.Participants) > 0 {
		b.WriteString("\n")
		for _, p := range d.Participants {
			b.WriteString("\n• ")
			b.WriteString(p.Name)
		}
	}

	manual := 0
	for _, p := range d.Pairs {
		if p.Manual {
			manual++
		}
	}
	if manual > 0 {
		fmt.Fprintf(&b, "\n\nPinned pairs: %d", manual)
	}

	return b.String()
}

func refreshText(r usercommands.RefreshProfilesResponse) string {
	return fmt.Sprintf("Profiles refreshed. Updated: %d, failed: %d, total: %d.", r.Updated, r.Failed, r.Total)
}

// errorText is what a chat user sees when a command fails.
func errorText(err error) string {
	var commandErr core.CommandError
	if !errors.As(err, &commandErr) || commandErr.StatusCode >= 500 {
		return textFailure
	}

	if payload := commandErr.Unwrap(); payload != nil {
		return capitalize(payload.Error()) + "."
	}

	return capitalize(commandErr.Message()) + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func isStatus(err error, statusCode int) bool {
	var commandErr core.CommandError
	return errors.As(err, &commandErr) && commandErr.StatusCode == statusCode
}
