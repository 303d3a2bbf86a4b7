package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"go.uber.org/zap"
)

type RefreshProfilesCommand struct {
	ActorID int64
}

func (c RefreshProfilesCommand) Validate() error {
	if c.ActorID <= 0 {
		return fmt.Errorf("invalid ActorID - '%d'", c.ActorID)
	}

	return nil
}

type RefreshProfilesResponse struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

func HandleRefreshProfiles(w http.ResponseWriter, r *http.Request) {
	command := RefreshProfilesCommand{ActorID: core.Session(r.Context()).UserID}

	response, err := mediator.Send[RefreshProfilesCommand, RefreshProfilesResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type RefreshProfilesCommandHandler struct {
	users    UserStore
	profiles ProfileSource
}

func NewRefreshProfilesCommandHandler(users UserStore, profiles ProfileSource) *RefreshProfilesCommandHandler {
	return &RefreshProfilesCommandHandler{
		users:    users,
		profiles: profiles,
	}
}

func (h *RefreshProfilesCommandHandler) Handle(
	ctx context.Context,
	request RefreshProfilesCommand,
) (RefreshProfilesResponse, error) {
	isAdmin, err := h.users.IsAdmin(ctx, request.ActorID)
	if err != nil {
		return RefreshProfilesResponse{}, err
	}

	if !isAdmin {
		return RefreshProfilesResponse{}, core.Forbidden(ErrAdminOnly)
	}

	all, err := h.users.All(ctx)
	if err != nil {
		return RefreshProfilesResponse{}, err
	}

	response := RefreshProfilesResponse{Total: len(all)}
	for _, user := range all {
		profile, err := h.profiles.Profile(ctx, user.ID)
		if err != nil {
			core.LogWarn(ctx, "failed to fetch profile", zap.Int64("user_id", user.ID), zap.Error(err))
			response.Failed++
			continue
		}

		if profile == user.Profile() {
			continue
		}

		user.ApplyProfile(profile)
		if _, err := h.users.Upsert(ctx, user); err != nil {
			return response, err
		}
		response.Updated++
	}

	return response, nil
}
