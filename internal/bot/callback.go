package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
)

const (
	actionMenu          = "menu"
	actionCreate        = "create"
	actionGames         = "games"
	actionJoin          = "join"
	actionCurrency      = "currency"
	actionOrganize      = "org"
	actionView          = "view"
	actionDraw          = "draw"
	actionWish          = "wish"
	actionDelete        = "delete"
	actionConfirmDelete = "confirm_delete"
	actionFinish        = "finish"
	actionPins          = "pins"
	actionPin           = "pin"
	actionClearPins     = "clear_pins"
	actionRefresh       = "refresh"
)

var ErrMalformedCallback = errors.New("malformed callback data")

// Callback is the decoded data of an inline keyboard button.
type Callback struct {
	Action   string
	GameID   int64
	Sender   int64
	Receiver int64
	Currency domain.Currency
}

func ParseCallback(data string) (Callback, error) {
	parts := strings.Split(data, ":")
	c := Callback{Action: parts[0]}

	switch c.Action {
	case actionMenu, actionCreate, actionGames, actionRefresh:
		if len(parts) != 1 {
			return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		return c, nil

	case actionCurrency:
		if len(parts) != 2 {
			return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		c.Currency = domain.Currency(parts[1])
		if !c.Currency.Valid() {
			return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		return c, nil

	case actionPin:
		if len(parts) != 3 && len(parts) != 4 {
			return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}

		ids, err := parseIDs(parts[1:])
		if err != nil {
			return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}

		c.GameID, c.Sender = ids[0], ids[1]
		if len(ids) == 3 {
			c.Receiver = ids[2]
		}
		return c, nil

	case actionJoin, actionOrganize, actionView, actionDraw, actionWish,
		actionDelete, actionConfirmDelete, actionFinish, actionPins, actionClearPins:
		if len(parts) != 2 {
			return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}

		ids, err := parseIDs(parts[1:])
		if err != nil {
			return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}

		c.GameID = ids[0]
		return c, nil
	}

	return Callback{}, fmt.Errorf("%w: unknown action %q", ErrMalformedCallback, c.Action)
}

func callbackData(action string, ids ...int64) string {
	var b strings.Builder
	b.WriteString(action)

	for _, id := range ids {
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(id, 10))
	}

	return b.String()
}

func currencyData(currency domain.Currency) string {
	return actionCurrency + ":" + string(currency)
}

func parseIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
