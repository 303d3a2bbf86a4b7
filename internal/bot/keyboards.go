package bot

import (
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	gamequeries "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/queries"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func menuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("➕ New game", actionCreate),
			button("🎄 My games", actionGames),
		),
	)
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(button("⬅️ Menu", actionMenu))
}

func currencyKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	for _, c := range domain.Currencies() {
		row = append(row, button(c.Label(), currencyData(c)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// gamesKeyboard links organizers to the management view and everyone else
// to the participant view.
func gamesKeyboard(userID int64, games []domain.Game) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, g := range games {
		action := actionView
		if g.OrganizerID == userID {
			action = actionOrganize
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(g.Name, callbackData(action, g.ID))))
	}
	rows = append(rows, backRow())

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func organizerKeyboard(game domain.Game, isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}

	if game.Status != domain.StatusFinished {
		drawLabel := "🎲 Draw"
		if game.Status == domain.StatusRunning {
			drawLabel = "🎲 Draw again"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button(drawLabel, callbackData(actionDraw, game.ID)),
			button("✏️ My wish", callbackData(actionWish, game.ID)),
		))
	}

	if game.Status == domain.StatusRunning {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button("👀 My pair", callbackData(actionView, game.ID)),
			button("🏁 Finish", callbackData(actionFinish, game.ID)),
		))
	}

	if isAdmin && game.Status != domain.StatusFinished {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			button("📌 Pin pairs", callbackData(actionPins, game.ID)),
		))
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(button("🗑 Delete", callbackData(actionDelete, game.ID))),
		backRow(),
	)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func participantKeyboard(game domain.Game) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	if game.Status != domain.StatusFinished {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button("✏️ My wish", callbackData(actionWish, game.ID))))
	}
	rows = append(rows, backRow())

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func joinKeyboard(game domain.Game) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("✅ Join "+game.Name, callbackData(actionJoin, game.ID))),
		backRow(),
	)
}

func confirmDeleteKeyboard(gameID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			button("Yes, delete", callbackData(actionConfirmDelete, gameID)),
			button("No", callbackData(actionOrganize, gameID)),
		),
	)
}

// pinKeyboard lists participants to pick as sender, or as receiver once
// sender is set.
func pinKeyboard(details gamequeries.GameDetails, sender int64) tgbotapi.InlineKeyboardMarkup {
	gameID := details.Game.ID

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range details.Participants {
		if p.ID == sender {
			continue
		}

		data := callbackData(actionPin, gameID, p.ID)
		if sender != 0 {
			data = callbackData(actionPin, gameID, sender, p.ID)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button(p.Name, data)))
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(button("🧹 Clear pins", callbackData(actionClearPins, gameID))),
		tgbotapi.NewInlineKeyboardRow(button("⬅️ Back", callbackData(actionOrganize, gameID))),
	)

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("🔄 Refresh profiles", actionRefresh)),
		backRow(),
	)
}
