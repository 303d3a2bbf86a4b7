package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/matching"

	"github.com/eskrenkovic/mediator-go"
)

// PinPairCommand fixes Sender -> Receiver ahead of the next draw. Any
// existing pair using that sender or receiver is replaced.
type PinPairCommand struct {
	GameID   int64 `json:"-"`
	ActorID  int64 `json:"-"`
	Sender   int64 `json:"sender"`
	Receiver int64 `json:"receiver"`
}

func (c PinPairCommand) Validate() error {
	if c.GameID <= 0 {
		return fmt.Errorf("invalid GameID - '%d'", c.GameID)
	}

	if c.ActorID <= 0 {
		return fmt.Errorf("invalid ActorID - '%d'", c.ActorID)
	}

	if c.Sender <= 0 || c.Receiver <= 0 {
		return fmt.Errorf("invalid pair - '%d -> %d'", c.Sender, c.Receiver)
	}

	if c.Sender == c.Receiver {
		return domain.ErrSelfPair
	}

	return nil
}

func HandlePinPair(w http.ResponseWriter, r *http.Request) {
	gameID, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command, err := core.RequestBody[PinPairCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.GameID = gameID
	command.ActorID = core.Session(r.Context()).UserID

	pair, err := mediator.Send[PinPairCommand, domain.Pair](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, pair)
}

type PinPairCommandHandler struct {
	games GameRepository
	users UserDirectory
	locks *core.KeyedMutex
}

func NewPinPairCommandHandler(games GameRepository, users UserDirectory, locks *core.KeyedMutex) *PinPairCommandHandler {
	return &PinPairCommandHandler{
		games: games,
		users: users,
		locks: locks,
	}
}

func (h *PinPairCommandHandler) Handle(ctx context.Context, request PinPairCommand) (domain.Pair, error) {
	if err := authorizeAdmin(ctx, h.users, request.ActorID); err != nil {
		return domain.Pair{}, err
	}

	unlock := h.locks.Lock(DrawLockKey(request.GameID))
	defer unlock()

	game, err := h.games.GetGame(ctx, request.GameID)
	if err != nil {
		return domain.Pair{}, commandError(err)
	}

	if game.Status == domain.StatusFinished {
		return domain.Pair{}, commandError(domain.ErrGameFinished)
	}

	for _, member := range []int64{request.Sender, request.Receiver} {
		if !game.HasParticipant(member) {
			return domain.Pair{}, commandError(
				fmt.Errorf("%w: %d is not in game %d", matching.ErrManualAssignmentOutOfScope, member, game.ID),
			)
		}
	}

	pair, err := domain.NewManualPair(game.ID, request.Sender, request.Receiver)
	if err != nil {
		return domain.Pair{}, commandError(err)
	}

	if err := h.games.PinPair(ctx, pair); err != nil {
		return domain.Pair{}, commandError(err)
	}

	return pair, nil
}
