package config

import (
	"fmt"
	"path"
	"time"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/env"

	"go.uber.org/zap"
)

const (
	PortEnv          = "PORT"
	DatabaseUrlEnv   = "DATABASE_URL"
	RootPathEnv      = "ROOT_PATH"
	BotTokenEnv      = "BOT_TOKEN"
	AdminAPITokenEnv = "ADMIN_API_TOKEN"
	RedisURLEnv      = "REDIS_URL"
	SessionTTLEnv    = "SESSION_TTL"
	DrawAttemptsEnv  = "DRAW_MAX_ATTEMPTS"
	LogDevelopment   = "LOG_DEVELOPMENT"

	defaultSessionTTL   = 30 * time.Minute
	defaultDrawAttempts = 1000
)

type BotConfiguration struct {
	Token string
	Debug bool
}

type Config struct {
	Logger *zap.Logger

	Port           int
	DatabaseURL    string
	MigrationsPath string
	AdminAPIToken  string

	// Empty RedisURL keeps conversation state in process memory.
	RedisURL   string
	SessionTTL time.Duration

	DrawMaxAttempts int

	Bot BotConfiguration
}

func Load() (conf Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to load configuration: %v", r)
		}
	}()

	development := env.GetBoolOrDefault(LogDevelopment, false)

	var logger *zap.Logger
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return Config{}, err
	}

	port := env.MustGetInt(PortEnv)
	dbURL := env.MustGetString(DatabaseUrlEnv)
	rootPath := env.MustGetString(RootPathEnv)
	adminAPIToken := env.MustGetString(AdminAPITokenEnv)

	drawAttempts := env.GetIntOrDefault(DrawAttemptsEnv, defaultDrawAttempts)
	if drawAttempts < 1 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", DrawAttemptsEnv, drawAttempts)
	}

	sessionTTL := env.GetDurationOrDefault(SessionTTLEnv, defaultSessionTTL)
	if sessionTTL <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", SessionTTLEnv, sessionTTL)
	}

	migrationsPath := path.Join(rootPath, "db", "migrations")

	return Config{
		Logger:          logger,
		Port:            port,
		DatabaseURL:     dbURL,
		MigrationsPath:  migrationsPath,
		AdminAPIToken:   adminAPIToken,
		RedisURL:        env.GetStringOrDefault(RedisURLEnv, ""),
		SessionTTL:      sessionTTL,
		DrawMaxAttempts: drawAttempts,
		Bot: BotConfiguration{
			Token: env.GetStringOrDefault(BotTokenEnv, ""),
			Debug: development,
		},
	}, nil
}
