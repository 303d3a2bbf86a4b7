package queries

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
)

type GetUserGamesQuery struct {
	UserID int64
}

func (q GetUserGamesQuery) Validate() error {
	if q.UserID <= 0 {
		return fmt.Errorf("invalid UserID - '%d'", q.UserID)
	}

	return nil
}

func HandleGetUserGames(w http.ResponseWriter, r *http.Request) {
	userID, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	games, err := mediator.Send[GetUserGamesQuery, []domain.Game](r.Context(), GetUserGamesQuery{UserID: userID})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, games)
}

type GetUserGamesQueryHandler struct {
	games GameReader
}

func NewGetUserGamesQueryHandler(games GameReader) *GetUserGamesQueryHandler {
	return &GetUserGamesQueryHandler{games: games}
}

func (h *GetUserGamesQueryHandler) Handle(ctx context.Context, request GetUserGamesQuery) ([]domain.Game, error) {
	return h.games.ListUserGames(ctx, request.UserID)
}
