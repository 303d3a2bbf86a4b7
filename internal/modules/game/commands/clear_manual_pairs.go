package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
)

type ClearManualPairsCommand struct {
	GameID  int64
	ActorID int64
}

func (c ClearManualPairsCommand) Validate() error {
	if c.GameID <= 0 {
		return fmt.Errorf("invalid GameID - '%d'", c.GameID)
	}

	if c.ActorID <= 0 {
		return fmt.Errorf("invalid ActorID - '%d'", c.ActorID)
	}

	return nil
}

type ClearManualPairsResponse struct {
	Removed int64 `json:"removed"`
}

func HandleClearManualPairs(w http.ResponseWriter, r *http.Request) {
	gameID, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command := ClearManualPairsCommand{
		GameID:  gameID,
		ActorID: core.Session(r.Context()).UserID,
	}

	response, err := mediator.Send[ClearManualPairsCommand, ClearManualPairsResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ClearManualPairsCommandHandler struct {
	games GameRepository
	users UserDirectory
	locks *core.KeyedMutex
}

func NewClearManualPairsCommandHandler(
	games GameRepository,
	users UserDirectory,
	locks *core.KeyedMutex,
) *ClearManualPairsCommandHandler {
	return &ClearManualPairsCommandHandler{
		games: games,
		users: users,
		locks: locks,
	}
}

func (h *ClearManualPairsCommandHandler) Handle(
	ctx context.Context,
	request ClearManualPairsCommand,
) (ClearManualPairsResponse, error) {
	if err := authorizeAdmin(ctx, h.users, request.ActorID); err != nil {
		return ClearManualPairsResponse{}, err
	}

	unlock := h.locks.Lock(DrawLockKey(request.GameID))
	defer unlock()

	if _, err := h.games.GetGame(ctx, request.GameID); err != nil {
		return ClearManualPairsResponse{}, commandError(err)
	}

	removed, err := h.games.ClearManualPairs(ctx, request.GameID)
	if err != nil {
		return ClearManualPairsResponse{}, commandError(err)
	}

	return ClearManualPairsResponse{Removed: removed}, nil
}
