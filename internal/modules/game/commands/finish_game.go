package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
)

type FinishGameCommand struct {
	GameID  int64
	ActorID int64
}

func (c FinishGameCommand) Validate() error {
	if c.GameID <= 0 {
		return fmt.Errorf("invalid GameID - '%d'", c.GameID)
	}

	if c.ActorID <= 0 {
		return fmt.Errorf("invalid ActorID - '%d'", c.ActorID)
	}

	return nil
}

func HandleFinishGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command := FinishGameCommand{
		GameID:  gameID,
		ActorID: core.Session(r.Context()).UserID,
	}

	if _, err := mediator.Send[FinishGameCommand, core.Unit](r.Context(), command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

type FinishGameCommandHandler struct {
	games GameRepository
	users UserDirectory
	locks *core.KeyedMutex
}

func NewFinishGameCommandHandler(games GameRepository, users UserDirectory, locks *core.KeyedMutex) *FinishGameCommandHandler {
	return &FinishGameCommandHandler{
		games: games,
		users: users,
		locks: locks,
	}
}

func (h *FinishGameCommandHandler) Handle(ctx context.Context, request FinishGameCommand) (core.Unit, error) {
	unlock := h.locks.Lock(DrawLockKey(request.GameID))
	defer unlock()

	game, err := h.games.GetGame(ctx, request.GameID)
	if err != nil {
		return core.Unit{}, commandError(err)
	}

	if err := authorizeManager(ctx, h.users, game, request.ActorID); err != nil {
		return core.Unit{}, err
	}

	if !game.Status.CanTransitionTo(domain.StatusFinished) {
		return core.Unit{}, commandError(
			fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, game.Status, domain.StatusFinished),
		)
	}

	if err := h.games.SetStatus(ctx, game.ID, game.Status, domain.StatusFinished); err != nil {
		return core.Unit{}, commandError(err)
	}

	return core.Unit{}, nil
}
