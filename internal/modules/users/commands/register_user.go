package commands

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"
)

// RegisterUserCommand records a user on first contact and refreshes their
// profile on every later one.
type RegisterUserCommand struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

func (c RegisterUserCommand) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("invalid ID - '%d'", c.ID)
	}

	return nil
}

type RegisterUserCommandHandler struct {
	users UserStore
}

func NewRegisterUserCommandHandler(users UserStore) *RegisterUserCommandHandler {
	return &RegisterUserCommandHandler{users: users}
}

func (h *RegisterUserCommandHandler) Handle(ctx context.Context, request RegisterUserCommand) (domain.User, error) {
	user := domain.User{ID: request.ID}
	user.ApplyProfile(domain.Profile{
		Username:  request.Username,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	})

	return h.users.Upsert(ctx, user)
}
