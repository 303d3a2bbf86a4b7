package test

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/eskrenkovic/migrate-go"
	"github.com/jmoiron/sqlx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
)

const (
	postgresImage    = "postgres:15-alpine"
	postgresUser     = "santa"
	postgresPassword = "santa"
	postgresDatabase = "santa"
	postgresPort     = nat.Port("5432/tcp")
)

// LocalTestFixture runs a throwaway postgres container with the
// application schema applied.
type LocalTestFixture struct {
	container testcontainers.Container

	DatabaseURL string
	DB          *sqlx.DB
}

func NewLocalTestFixture() *LocalTestFixture {
	return &LocalTestFixture{}
}

func (f *LocalTestFixture) Start(ctx context.Context) error {
	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{string(postgresPort)},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDatabase,
		},
		WaitingFor: wait.ForSQL(postgresPort, "postgres", databaseURL).
			WithStartupTimeout(time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return err
	}
	f.container = container

	host, err := container.Host(ctx)
	if err != nil {
		return err
	}

	port, err := container.MappedPort(ctx, postgresPort)
	if err != nil {
		return err
	}

	f.DatabaseURL = databaseURL(host, port)

	f.DB, err = sqlx.Connect("postgres", f.DatabaseURL)
	if err != nil {
		return err
	}

	return migrate.Run(ctx, f.DB.DB, MigrationsPath())
}

func (f *LocalTestFixture) Stop(ctx context.Context) error {
	if f.DB != nil {
		if err := f.DB.Close(); err != nil {
			return err
		}
	}

	if f.container == nil {
		return nil
	}

	return f.container.Terminate(ctx)
}

// Truncate empties every application table between tests.
func (f *LocalTestFixture) Truncate(ctx context.Context) error {
	const stmt = `TRUNCATE pair, wish, game_participant, game, app_user RESTART IDENTITY CASCADE;`
	_, err := f.DB.ExecContext(ctx, stmt)
	return err
}

// MigrationsPath resolves db/migrations relative to this file so tests
// work from any package directory.
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "db", "migrations")
}

func databaseURL(host string, port nat.Port) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser,
		postgresPassword,
		host,
		port.Port(),
		postgresDatabase,
	)
}
