package domain

import (
	"errors"
	"strings"
	"time"
)

const MaxWishLength = 2000

var ErrEmptyWish = errors.New("wish text must not be empty")

// Wish is a participant's free-text gift note for one game. Writing a new
// one replaces the old text.
type Wish struct {
	GameID    int64     `db:"game_id" json:"game_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func NewWish(gameID, userID int64, text string) (Wish, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Wish{}, ErrEmptyWish
	}

	if len([]rune(text)) > MaxWishLength {
		text = string([]rune(text)[:MaxWishLength])
	}

	return Wish{
		GameID: gameID,
		UserID: userID,
		Text:   text,
	}, nil
}
