package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"

	"github.com/eskrenkovic/tql"
)

var ErrUserNotFound = errors.New("user not found")

// Store reads and writes app_user rows.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id int64) (domain.User, error) {
	const query = `
		SELECT
			id, username, first_name, last_name, role, created_at, updated_at
		FROM
			app_user
		WHERE
			id = $1;`

	user, err := tql.QueryFirst[domain.User](ctx, s.db, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}

func (s *Store) All(ctx context.Context) ([]domain.User, error) {
	const query = `
		SELECT
			id, username, first_name, last_name, role, created_at, updated_at
		FROM
			app_user
		ORDER BY
			id;`
	return tql.Query[domain.User](ctx, s.db, query)
}

// Upsert inserts the user or refreshes their profile. An existing role is
// never overwritten.
func (s *Store) Upsert(ctx context.Context, user domain.User) (domain.User, error) {
	now := time.Now().UTC()
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	const stmt = `
		INSERT INTO
			app_user (id, username, first_name, last_name, role, created_at, updated_at)
		VALUES
			(:id, :username, :first_name, :last_name, :role, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			updated_at = EXCLUDED.updated_at;`
	if _, err := tql.Exec(ctx, s.db, stmt, user); err != nil {
		return domain.User{}, err
	}

	return s.Get(ctx, user.ID)
}

func (s *Store) SetRole(ctx context.Context, id int64, role domain.Role) error {
	const stmt = `
		UPDATE
			app_user
		SET
			role = $1,
			updated_at = now()
		WHERE
			id = $2;`

	result, err := tql.Exec(ctx, s.db, stmt, string(role), id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (s *Store) IsAdmin(ctx context.Context, id int64) (bool, error) {
	user, err := s.Get(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return user.IsAdmin(), nil
}

// DisplayName never fails; unknown users get a generic name.
func (s *Store) DisplayName(ctx context.Context, id int64) string {
	user, err := s.Get(ctx, id)
	if err != nil {
		return domain.FallbackName(id)
	}

	return user.DisplayName()
}
