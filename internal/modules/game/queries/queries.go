package queries

import (
	"context"
	"errors"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/store"
)

type GameReader interface {
	GetGame(ctx context.Context, id int64) (domain.Game, error)
	ListUserGames(ctx context.Context, userID int64) ([]domain.Game, error)
	Pairs(ctx context.Context, gameID int64) ([]domain.Pair, error)
	PairForSender(ctx context.Context, gameID, senderID int64) (domain.Pair, error)
	Wish(ctx context.Context, gameID, userID int64) (domain.Wish, error)
}

var _ GameReader = (*store.Store)(nil)

type UserDirectory interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	DisplayName(ctx context.Context, userID int64) string
}

var (
	ErrNotAllowed  = errors.New("only the organizer or an administrator can see this game")
	ErrNotDrawnYet = errors.New("the draw has not happened yet")
	ErrNotInGame   = errors.New("user does not participate in the game")
	ErrNoPairYet   = errors.New("you have no pair yet, wait for the next draw")
)

func queryError(err error) error {
	switch {
	case errors.Is(err, store.ErrGameNotFound), errors.Is(err, store.ErrPairNotFound):
		return core.NotFound(err)
	}
	return err
}
