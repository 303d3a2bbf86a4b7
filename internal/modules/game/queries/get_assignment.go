package queries

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/store"

	"github.com/eskrenkovic/mediator-go"
	"github.com/shopspring/decimal"
)

// GetAssignmentQuery asks whom UserID gives a gift to in GameID.
type GetAssignmentQuery struct {
	GameID int64
	UserID int64
}

func (q GetAssignmentQuery) Validate() error {
	if q.GameID <= 0 {
		return fmt.Errorf("invalid GameID - '%d'", q.GameID)
	}

	if q.UserID <= 0 {
		return fmt.Errorf("invalid UserID - '%d'", q.UserID)
	}

	return nil
}

type Assignment struct {
	GameID       int64           `json:"game_id"`
	GameName     string          `json:"game_name"`
	ReceiverID   int64           `json:"receiver_id"`
	ReceiverName string          `json:"receiver_name"`
	WishText     string          `json:"wish_text"`
	Budget       decimal.Decimal `json:"budget"`
	Currency     domain.Currency `json:"currency"`
}

func HandleGetAssignment(w http.ResponseWriter, r *http.Request) {
	gameID, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	query := GetAssignmentQuery{
		GameID: gameID,
		UserID: core.Session(r.Context()).UserID,
	}

	response, err := mediator.Send[GetAssignmentQuery, Assignment](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetAssignmentQueryHandler struct {
	games GameReader
	users UserDirectory
}

func NewGetAssignmentQueryHandler(games GameReader, users UserDirectory) *GetAssignmentQueryHandler {
	return &GetAssignmentQueryHandler{
		games: games,
		users: users,
	}
}

func (h *GetAssignmentQueryHandler) Handle(ctx context.Context, request GetAssignmentQuery) (Assignment, error) {
	game, err := h.games.GetGame(ctx, request.GameID)
	if err != nil {
		return Assignment{}, queryError(err)
	}

	if !game.HasParticipant(request.UserID) {
		return Assignment{}, core.Forbidden(ErrNotInGame)
	}

	if game.Status == domain.StatusSetup {
		return Assignment{}, core.Conflict(ErrNotDrawnYet)
	}

	// Late joiners and senders whose pair was replaced by a pin have no
	// pair until the next draw.
	pair, err := h.games.PairForSender(ctx, game.ID, request.UserID)
	if errors.Is(err, store.ErrPairNotFound) {
		return Assignment{}, core.Conflict(ErrNoPairYet)
	}
	if err != nil {
		return Assignment{}, queryError(err)
	}

	assignment := Assignment{
		GameID:       game.ID,
		GameName:     game.Name,
		ReceiverID:   pair.ReceiverID,
		ReceiverName: h.users.DisplayName(ctx, pair.ReceiverID),
		Budget:       game.Budget,
		Currency:     game.Currency,
	}

	wish, err := h.games.Wish(ctx, game.ID, pair.ReceiverID)
	switch {
	case err == nil:
		assignment.WishText = wish.Text
	case !errors.Is(err, store.ErrWishNotFound):
		return Assignment{}, err
	}

	return assignment, nil
}
