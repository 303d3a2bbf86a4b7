package commands

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/shopspring/decimal"
)

type CreateGameCommand struct {
	OrganizerID int64           `json:"-"`
	Name        string          `json:"name"`
	Budget      decimal.Decimal `json:"budget"`
	Currency    domain.Currency `json:"currency"`
}

func (c CreateGameCommand) Validate() error {
	var errs []error

	if c.OrganizerID <= 0 {
		errs = append(errs, fmt.Errorf("invalid OrganizerID - '%d'", c.OrganizerID))
	}

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("invalid Name - '%s'", c.Name))
	}

	if err := domain.ValidateBudget(c.Budget); err != nil {
		errs = append(errs, err)
	}

	if !c.Currency.Valid() {
		errs = append(errs, fmt.Errorf("invalid Currency - '%s'", c.Currency))
	}

	if len(errs) > 0 {
		return core.ValidationError{ValidationErrors: errs}
	}

	return nil
}

type CreateGameResponse struct {
	Game domain.Game `json:"game"`
}

func HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[CreateGameCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.OrganizerID = core.Session(r.Context()).UserID

	response, err := mediator.Send[CreateGameCommand, CreateGameResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join("/games", strconv.FormatInt(response.Game.ID, 10))
	core.WriteCreated(w, r, location, response)
}

type CreateGameCommandHandler struct {
	games GameRepository
}

func NewCreateGameCommandHandler(games GameRepository) *CreateGameCommandHandler {
	return &CreateGameCommandHandler{games: games}
}

func (h *CreateGameCommandHandler) Handle(
	ctx context.Context,
	request CreateGameCommand,
) (CreateGameResponse, error) {
	game, err := domain.NewGame(request.OrganizerID, request.Name, request.Budget, request.Currency)
	if err != nil {
		return CreateGameResponse{}, commandError(err)
	}

	game, err = h.games.CreateGame(ctx, game)
	if err != nil {
		return CreateGameResponse{}, commandError(err)
	}

	return CreateGameResponse{Game: game}, nil
}
