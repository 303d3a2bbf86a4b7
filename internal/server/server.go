package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/eskrenkovic/gift-exchange-go/internal/bot"
	"github.com/eskrenkovic/gift-exchange-go/internal/config"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/auth"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	gamecommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/commands"
	gamequeries "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/queries"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/records"
	usercommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/commands"

	"github.com/go-chi/chi"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// App acts as the composition root of the service: the admin HTTP API and,
// when a token is configured, the chat bot.
type App struct {
	container *Container
	server    *http.Server
	bot       *bot.Bot

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewApp(ctx context.Context, conf config.Config) (*App, error) {
	container, err := NewContainer(ctx, conf)
	if err != nil {
		return nil, err
	}

	if err := RegisterHandlers(container); err != nil {
		_ = container.Close()
		return nil, err
	}

	app := App{
		container: container,
		server: &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(conf.Port)),
			Handler:           NewRouter(conf),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	if container.BotAPI != nil {
		app.bot = bot.New(
			container.BotAPI,
			container.BotAPI.Self.UserName,
			container.Sessions,
			container.Users,
			conf.Logger,
		)
	}

	return &app, nil
}

// NewRouter maps the admin API onto the mediator handlers. Every route
// requires the admin API token; the acting user comes from UserIDHeader.
func NewRouter(conf config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(core.CorrelationIDHTTPMiddleware)
	r.Use(core.LoggerHTTPMiddleware(conf.Logger))
	r.Use(auth.APITokenMiddleware(conf.AdminAPIToken))

	r.Route("/games", func(r chi.Router) {
		r.Post("/", gamecommands.HandleCreateGame)
		r.Post("/actions/join", gamecommands.HandleJoinGame)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", gamequeries.HandleGetGame)
			r.Delete("/", gamecommands.HandleDeleteGame)

			r.Post("/actions/draw", gamecommands.HandleExecuteDraw)
			r.Put("/actions/finish", gamecommands.HandleFinishGame)

			r.Put("/wish", gamecommands.HandleSetWish)
			r.Get("/assignment", gamequeries.HandleGetAssignment)

			r.Put("/manual-pairs", gamecommands.HandlePinPair)
			r.Delete("/manual-pairs", gamecommands.HandleClearManualPairs)
		})
	})

	r.Get("/users/{id}/games", gamequeries.HandleGetUserGames)
	r.Post("/users/actions/refresh-profiles", usercommands.HandleRefreshProfiles)

	r.Get("/records/{table}", records.HandleListRecords)
	r.Get("/records/{table}/{id}", records.HandleGetRecord)
	r.Patch("/records/{table}/{id}", records.HandleUpdateRecord)
	r.Delete("/records/{table}/{id}", records.HandleDeleteRecord)

	return r
}

// Start serves HTTP and polls the bot updates in the background.
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)
	logger := a.container.Logger()

	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		logger.Info("http server listening", zap.String("addr", a.server.Addr))
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
		}
	}()

	if a.bot != nil {
		updateConfig := tgbotapi.NewUpdate(0)
		updateConfig.Timeout = 60
		updates := a.container.BotAPI.GetUpdatesChan(updateConfig)

		a.wg.Add(1)
		go func() {
			defer a.wg.Done()

			logger.Info("bot polling updates", zap.String("username", a.container.BotAPI.Self.UserName))
			a.bot.Run(ctx, updates)
		}()
	}

	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}

	if a.container.BotAPI != nil {
		a.container.BotAPI.StopReceivingUpdates()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.wg.Wait()

	return errors.Join(err, a.container.Close())
}
