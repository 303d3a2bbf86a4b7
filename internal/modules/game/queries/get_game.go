package queries

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
)

type GetGameQuery struct {
	GameID  int64
	ActorID int64
}

func (q GetGameQuery) Validate() error {
	if q.GameID <= 0 {
		return fmt.Errorf("invalid GameID - '%d'", q.GameID)
	}

	return nil
}

type Participant struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type GameDetails struct {
	Game         domain.Game   `json:"game"`
	Participants []Participant `json:"participants"`
	Pairs        []domain.Pair `json:"pairs"`
}

func HandleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	query := GetGameQuery{
		GameID:  gameID,
		ActorID: core.Session(r.Context()).UserID,
	}

	response, err := mediator.Send[GetGameQuery, GameDetails](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetGameQueryHandler struct {
	games GameReader
	users UserDirectory
}

func NewGetGameQueryHandler(games GameReader, users UserDirectory) *GetGameQueryHandler {
	return &GetGameQueryHandler{
		games: games,
		users: users,
	}
}

func (h *GetGameQueryHandler) Handle(ctx context.Context, request GetGameQuery) (GameDetails, error) {
	game, err := h.games.GetGame(ctx, request.GameID)
	if err != nil {
		return GameDetails{}, queryError(err)
	}

	isAdmin, err := h.users.IsAdmin(ctx, request.ActorID)
	if err != nil {
		return GameDetails{}, err
	}

	if !game.CanManage(request.ActorID, isAdmin) {
		return GameDetails{}, core.Forbidden(ErrNotAllowed)
	}

	pairs, err := h.games.Pairs(ctx, game.ID)
	if err != nil {
		return GameDetails{}, err
	}

	participants := core.Map(game.Participants, func(id int64) Participant {
		return Participant{ID: id, Name: h.users.DisplayName(ctx, id)}
	})

	return GameDetails{
		Game:         game,
		Participants: participants,
		Pairs:        pairs,
	}, nil
}
