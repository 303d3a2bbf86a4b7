package server

import (
	"context"
	"errors"

	"github.com/eskrenkovic/gift-exchange-go/internal/bot"
	"github.com/eskrenkovic/gift-exchange-go/internal/config"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/conversation"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	gamecommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/game/commands"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/store"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/matching"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/records"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/users"
	usercommands "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/commands"
	usersdomain "github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"

	"github.com/eskrenkovic/migrate-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrNoChatTransport = errors.New("no chat transport is configured")

// Container holds the long-lived dependencies shared by the HTTP API, the
// bot and the command line.
type Container struct {
	Config config.Config

	DB      *sqlx.DB
	Games   *store.Store
	Users   *users.Store
	Records *records.Browser

	Sessions conversation.Store
	Locks    *core.KeyedMutex
	Matcher  *matching.Matcher

	// BotAPI is nil when no bot token is configured.
	BotAPI   *tgbotapi.BotAPI
	Notifier gamecommands.Notifier
	Profiles usercommands.ProfileSource

	redis *redis.Client
}

func NewContainer(ctx context.Context, conf config.Config) (*Container, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", conf.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(ctx, db.DB, conf.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	c := Container{
		Config:   conf,
		DB:       db,
		Games:    store.New(db),
		Users:    users.NewStore(db.DB),
		Records:  records.NewBrowser(db),
		Locks:    core.NewKeyedMutex(),
		Matcher:  matching.NewMatcher(matching.NewRandomizer(), matching.WithMaxAttempts(conf.DrawMaxAttempts)),
		Notifier: gamecommands.LogNotifier{},
		Profiles: unavailableProfiles{},
	}

	if conf.RedisURL != "" {
		client, err := conversation.NewRedisClient(ctx, conf.RedisURL)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.redis = client
		c.Sessions = conversation.NewRedisStore(client, conf.SessionTTL)
	} else {
		memory := conversation.NewMemoryStore(conf.SessionTTL)
		memory.StartJanitor(ctx, conf.SessionTTL)
		c.Sessions = memory
	}

	if conf.Bot.Token != "" {
		api, err := bot.NewAPI(conf.Bot.Token, conf.Bot.Debug)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.BotAPI = api
		c.Notifier = bot.NewNotifier(api)
		c.Profiles = bot.NewProfileSource(api)
	} else {
		conf.Logger.Warn("bot token is not set; notices are only logged")
	}

	return &c, nil
}

func (c *Container) Close() error {
	var errs []error

	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}

	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}

	return errors.Join(errs...)
}

func (c *Container) Logger() *zap.Logger {
	return c.Config.Logger
}

type unavailableProfiles struct{}

func (unavailableProfiles) Profile(context.Context, int64) (usersdomain.Profile, error) {
	return usersdomain.Profile{}, ErrNoChatTransport
}
