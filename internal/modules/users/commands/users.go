package commands

import (
	"context"
	"errors"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/users"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"
)

var ErrAdminOnly = errors.New("only an administrator can do that")

type UserStore interface {
	Get(ctx context.Context, id int64) (domain.User, error)
	All(ctx context.Context) ([]domain.User, error)
	Upsert(ctx context.Context, user domain.User) (domain.User, error)
	SetRole(ctx context.Context, id int64, role domain.Role) error
	IsAdmin(ctx context.Context, id int64) (bool, error)
}

var _ UserStore = (*users.Store)(nil)

// ProfileSource fetches the current profile of a user from the chat
// platform.
type ProfileSource interface {
	Profile(ctx context.Context, userID int64) (domain.Profile, error)
}

func userError(err error) error {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		return core.NotFound(err)
	case errors.Is(err, domain.ErrUnknownRole):
		return core.NewCommandError(400, err)
	}
	return err
}
