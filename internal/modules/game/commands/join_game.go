package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
	"go.uber.org/zap"
)

// JoinGameCommand adds a user to a game found either by id or by its
// invite code.
type JoinGameCommand struct {
	GameID     int64  `json:"game_id"`
	InviteCode string `json:"invite_code"`
	UserID     int64  `json:"-"`
}

func (c JoinGameCommand) Validate() error {
	if c.UserID <= 0 {
		return fmt.Errorf("invalid UserID - '%d'", c.UserID)
	}

	if c.GameID <= 0 && c.InviteCode == "" {
		return fmt.Errorf("either GameID or InviteCode is required")
	}

	return nil
}

type JoinGameResponse struct {
	Game domain.Game `json:"game"`
}

func HandleJoinGame(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[JoinGameCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.UserID = core.Session(r.Context()).UserID

	response, err := mediator.Send[JoinGameCommand, JoinGameResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type JoinGameCommandHandler struct {
	games    GameRepository
	users    UserDirectory
	notifier Notifier
}

func NewJoinGameCommandHandler(games GameRepository, users UserDirectory, notifier Notifier) *JoinGameCommandHandler {
	return &JoinGameCommandHandler{
		games:    games,
		users:    users,
		notifier: notifier,
	}
}

func (h *JoinGameCommandHandler) Handle(
	ctx context.Context,
	request JoinGameCommand,
) (JoinGameResponse, error) {
	var (
		game domain.Game
		err  error
	)

	if request.GameID > 0 {
		game, err = h.games.GetGame(ctx, request.GameID)
	} else {
		game, err = h.games.GetGameByInviteCode(ctx, request.InviteCode)
	}
	if err != nil {
		return JoinGameResponse{}, commandError(err)
	}

	if game.Status == domain.StatusFinished {
		return JoinGameResponse{}, commandError(domain.ErrGameFinished)
	}

	if err := h.games.AddParticipant(ctx, game.ID, request.UserID); err != nil {
		return JoinGameResponse{}, commandError(err)
	}
	game.Participants = append(game.Participants, request.UserID)

	if game.OrganizerID != request.UserID {
		notice := domain.JoinNotice{
			GameID:          game.ID,
			GameName:        game.Name,
			OrganizerID:     game.OrganizerID,
			ParticipantID:   request.UserID,
			ParticipantName: h.users.DisplayName(ctx, request.UserID),
		}
		if err := h.notifier.NotifyJoined(ctx, notice); err != nil {
			core.LogWarn(
				ctx,
				"failed to notify organizer",
				zap.Int64("game_id", game.ID),
				zap.Int64("organizer_id", game.OrganizerID),
				zap.Error(err),
			)
		}
	}

	return JoinGameResponse{Game: game}, nil
}
