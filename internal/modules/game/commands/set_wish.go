package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
)

type SetWishCommand struct {
	GameID int64  `json:"-"`
	UserID int64  `json:"-"`
	Text   string `json:"text"`
}

func (c SetWishCommand) Validate() error {
	if c.GameID <= 0 {
		return fmt.Errorf("invalid GameID - '%d'", c.GameID)
	}

	if c.UserID <= 0 {
		return fmt.Errorf("invalid UserID - '%d'", c.UserID)
	}

	return nil
}

func HandleSetWish(w http.ResponseWriter, r *http.Request) {
	gameID, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command, err := core.RequestBody[SetWishCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.GameID = gameID
	command.UserID = core.Session(r.Context()).UserID

	wish, err := mediator.Send[SetWishCommand, domain.Wish](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, wish)
}

type SetWishCommandHandler struct {
	games GameRepository
}

func NewSetWishCommandHandler(games GameRepository) *SetWishCommandHandler {
	return &SetWishCommandHandler{games: games}
}

func (h *SetWishCommandHandler) Handle(ctx context.Context, request SetWishCommand) (domain.Wish, error) {
	game, err := h.games.GetGame(ctx, request.GameID)
	if err != nil {
		return domain.Wish{}, commandError(err)
	}

	if !game.HasParticipant(request.UserID) {
		return domain.Wish{}, core.Forbidden(ErrNotParticipant)
	}

	wish, err := domain.NewWish(game.ID, request.UserID, request.Text)
	if err != nil {
		return domain.Wish{}, commandError(err)
	}

	wish, err = h.games.UpsertWish(ctx, wish)
	if err != nil {
		return domain.Wish{}, commandError(err)
	}

	return wish, nil
}
