package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
)

type DeleteGameCommand struct {
	GameID  int64
	ActorID int64
}

func (c DeleteGameCommand) Validate() error {
	if c.GameID <= 0 {
		return fmt.Errorf("invalid GameID - '%d'", c.GameID)
	}

	if c.ActorID <= 0 {
		return fmt.Errorf("invalid ActorID - '%d'", c.ActorID)
	}

	return nil
}

func HandleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command := DeleteGameCommand{
		GameID:  gameID,
		ActorID: core.Session(r.Context()).UserID,
	}

	if _, err := mediator.Send[DeleteGameCommand, core.Unit](r.Context(), command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

type DeleteGameCommandHandler struct {
	games GameRepository
	users UserDirectory
	locks *core.KeyedMutex
}

func NewDeleteGameCommandHandler(games GameRepository, users UserDirectory, locks *core.KeyedMutex) *DeleteGameCommandHandler {
	return &DeleteGameCommandHandler{
		games: games,
		users: users,
		locks: locks,
	}
}

func (h *DeleteGameCommandHandler) Handle(ctx context.Context, request DeleteGameCommand) (core.Unit, error) {
	unlock := h.locks.Lock(DrawLockKey(request.GameID))
	defer unlock()

	game, err := h.games.GetGame(ctx, request.GameID)
	if err != nil {
		return core.Unit{}, commandError(err)
	}

	if err := authorizeManager(ctx, h.users, game, request.ActorID); err != nil {
		return core.Unit{}, err
	}

	if err := h.games.DeleteGame(ctx, game.ID); err != nil {
		return core.Unit{}, commandError(err)
	}

	return core.Unit{}, nil
}
