package server

import (
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	gamecommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/commands"
	gamedomain "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	gamequeries "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/queries"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/records"
	usercommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/commands"
	usersdomain "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"

	"github.com/eskrenkovic/mediator-go"
)

// RegisterHandlers installs the pipeline behaviors and every request
// handler on the process-wide mediator. It must be called once.
func RegisterHandlers(c *Container) error {
	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: c.Logger()}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: c.Logger()}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	// game

	err := mediator.RegisterRequestHandler[gamecommands.CreateGameCommand, gamecommands.CreateGameResponse](
		gamecommands.NewCreateGameCommandHandler(c.Games),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamecommands.JoinGameCommand, gamecommands.JoinGameResponse](
		gamecommands.NewJoinGameCommandHandler(c.Games, c.Users, c.Notifier),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamecommands.ExecuteDrawCommand, gamecommands.DrawSummary](
		gamecommands.NewExecuteDrawCommandHandler(c.Games, c.Users, c.Notifier, c.Matcher, c.Locks),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamecommands.FinishGameCommand, core.Unit](
		gamecommands.NewFinishGameCommandHandler(c.Games, c.Users, c.Locks),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamecommands.DeleteGameCommand, core.Unit](
		gamecommands.NewDeleteGameCommandHandler(c.Games, c.Users, c.Locks),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamecommands.SetWishCommand, gamedomain.Wish](
		gamecommands.NewSetWishCommandHandler(c.Games),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamecommands.PinPairCommand, gamedomain.Pair](
		gamecommands.NewPinPairCommandHandler(c.Games, c.Users, c.Locks),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamecommands.ClearManualPairsCommand, gamecommands.ClearManualPairsResponse](
		gamecommands.NewClearManualPairsCommandHandler(c.Games, c.Users, c.Locks),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamequeries.GetGameQuery, gamequeries.GameDetails](
		gamequeries.NewGetGameQueryHandler(c.Games, c.Users),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamequeries.GetUserGamesQuery, []gamedomain.Game](
		gamequeries.NewGetUserGamesQueryHandler(c.Games),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[gamequeries.GetAssignmentQuery, gamequeries.Assignment](
		gamequeries.NewGetAssignmentQueryHandler(c.Games, c.Users),
	)
	if err != nil {
		return err
	}

	// users

	err = mediator.RegisterRequestHandler[usercommands.RegisterUserCommand, usersdomain.User](
		usercommands.NewRegisterUserCommandHandler(c.Users),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[usercommands.SetRoleCommand, core.Unit](
		usercommands.NewSetRoleCommandHandler(c.Users),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[usercommands.RefreshProfilesCommand, usercommands.RefreshProfilesResponse](
		usercommands.NewRefreshProfilesCommandHandler(c.Users, c.Profiles),
	)
	if err != nil {
		return err
	}

	// records

	err = mediator.RegisterRequestHandler[records.ListRecordsQuery, records.Page](
		records.NewListRecordsQueryHandler(c.Records, c.Users),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[records.GetRecordQuery, records.Record](
		records.NewGetRecordQueryHandler(c.Records, c.Users),
	)
	if err != nil {
		return err
	}

	err = mediator.RegisterRequestHandler[records.UpdateRecordCommand, records.Record](
		records.NewUpdateRecordCommandHandler(c.Records, c.Users),
	)
	if err != nil {
		return err
	}

	return mediator.RegisterRequestHandler[records.DeleteRecordCommand, core.Unit](
		records.NewDeleteRecordCommandHandler(c.Records, c.Users),
	)
}
