package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eskrenkovic/gift-exchange-go/internal/config"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	gamecommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/commands"
	usercommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/commands"
	usersdomain "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"
	"github.com/eskrenkovic/gift-exchange-go/internal/server"

	"github.com/eskrenkovic/mediator-go"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func serve(cctx *cli.Context) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}
	defer func() { _ = conf.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx, conf)
	if err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	conf.Logger.Info("shutting down")

	return app.Stop(context.Background())
}

func runMigrations(cctx *cli.Context) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}

	container, err := server.NewContainer(cctx.Context, conf)
	if err != nil {
		return err
	}

	conf.Logger.Info("migrations applied", zap.String("path", conf.MigrationsPath))
	return container.Close()
}

// withHandlers runs fn with every mediator handler registered against a
// fresh container.
func withHandlers(cctx *cli.Context, fn func(ctx context.Context) error) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}

	container, err := server.NewContainer(cctx.Context, conf)
	if err != nil {
		return err
	}
	defer func() { _ = container.Close() }()

	if err := server.RegisterHandlers(container); err != nil {
		return err
	}

	ctx := core.WithLogger(cctx.Context, conf.Logger)
	return fn(ctx)
}

func draw(cctx *cli.Context) error {
	return withHandlers(cctx, func(ctx context.Context) error {
		command := gamecommands.ExecuteDrawCommand{
			GameID:  cctx.Int64("game"),
			ActorID: cctx.Int64("actor"),
		}

		summary, err := mediator.Send[gamecommands.ExecuteDrawCommand, gamecommands.DrawSummary](ctx, command)
		if err != nil {
			return err
		}

		fmt.Fprintf(
			cctx.App.Writer,
			"game %d: %d pairs, %d notified, %d failed\n",
			summary.GameID,
			len(summary.Pairs),
			summary.Delivered,
			summary.Failed,
		)
		return nil
	})
}

func setRole(cctx *cli.Context) error {
	role, err := usersdomain.ParseRole(cctx.String("role"))
	if err != nil {
		return err
	}

	return withHandlers(cctx, func(ctx context.Context) error {
		command := usercommands.SetRoleCommand{UserID: cctx.Int64("user"), Role: role}
		if _, err := mediator.Send[usercommands.SetRoleCommand, core.Unit](ctx, command); err != nil {
			return err
		}

		fmt.Fprintf(cctx.App.Writer, "user %d is now %s\n", command.UserID, role)
		return nil
	})
}
