// Package conversation keeps the state of multi-step chat prompts, such as
// creating a game, between messages of the same chat.
package conversation

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateAwaitingGameName State = "awaiting_game_name"
	StateAwaitingBudget   State = "awaiting_budget"
	StateAwaitingCurrency State = "awaiting_currency"
	StateAwaitingWish     State = "awaiting_wish"
)

var ErrNoSession = errors.New("no conversation in progress")

// Session is what the bot remembers about a chat while it waits for the
// next answer.
type Session struct {
	State State `json:"state"`

	GameName string          `json:"game_name,omitempty"`
	Budget   decimal.Decimal `json:"budget"`
	GameID   int64           `json:"game_id,omitempty"`
}

// Store keeps sessions keyed by chat id. Entries expire on their own; Get
// returns ErrNoSession for both missing and expired entries.
type Store interface {
	Get(ctx context.Context, chatID int64) (Session, error)
	Put(ctx context.Context, chatID int64, session Session) error
	Delete(ctx context.Context, chatID int64) error
}
