package commands

import (
	"context"
	"fmt"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"
)

// SetRoleCommand is issued from the command line, so it carries no actor.
type SetRoleCommand struct {
	UserID int64
	Role   domain.Role
}

func (c SetRoleCommand) Validate() error {
	if c.UserID <= 0 {
		return fmt.Errorf("invalid UserID - '%d'", c.UserID)
	}

	if _, err := domain.ParseRole(string(c.Role)); err != nil {
		return err
	}

	return nil
}

type SetRoleCommandHandler struct {
	users UserStore
}

func NewSetRoleCommandHandler(users UserStore) *SetRoleCommandHandler {
	return &SetRoleCommandHandler{users: users}
}

func (h *SetRoleCommandHandler) Handle(ctx context.Context, request SetRoleCommand) (core.Unit, error) {
	if err := h.users.SetRole(ctx, request.UserID, request.Role); err != nil {
		return core.Unit{}, userError(err)
	}

	return core.Unit{}, nil
}
