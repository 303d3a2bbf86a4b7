package commands

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/users"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/users/domain"

	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[int64]domain.User
}

func newFakeUserStore(all ...domain.User) *fakeUserStore {
	s := &fakeUserStore{users: map[int64]domain.User{}}
	for _, u := range all {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Get(_ context.Context, id int64) (domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, users.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) All(context.Context) ([]domain.User, error) {
	all := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (s *fakeUserStore) Upsert(_ context.Context, user domain.User) (domain.User, error) {
	if existing, ok := s.users[user.ID]; ok {
		user.Role = existing.Role
	} else if user.Role == "" {
		user.Role = domain.RoleUser
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) SetRole(_ context.Context, id int64, role domain.Role) error {
	u, ok := s.users[id]
	if !ok {
		return users.ErrUserNotFound
	}
	u.Role = role
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) IsAdmin(_ context.Context, id int64) (bool, error) {
	return s.users[id].IsAdmin(), nil
}

type fakeProfiles map[int64]domain.Profile

func (f fakeProfiles) Profile(_ context.Context, userID int64) (domain.Profile, error) {
	p, ok := f[userID]
	if !ok {
		return domain.Profile{}, errors.New("chat not found")
	}
	return p, nil
}

func Test_RegisterUser_Keeps_Existing_Role(t *testing.T) {
	// Arrange
	store := newFakeUserStore(domain.User{ID: 1, Role: domain.RoleAdmin, FirstName: "Old"})
	handler := NewRegisterUserCommandHandler(store)

	// Act
	user, err := handler.Handle(context.Background(), RegisterUserCommand{ID: 1, FirstName: "New"})

	// Assert
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, user.Role)
	require.Equal(t, "New", user.FirstName)
}

func Test_RefreshProfiles_Counts_Updated_And_Failed(t *testing.T) {
	// Arrange
	store := newFakeUserStore(
		domain.User{ID: 1, Role: domain.RoleAdmin, FirstName: "Admin"},
		domain.User{ID: 2, Role: domain.RoleUser, FirstName: "Bob"},
		domain.User{ID: 3, Role: domain.RoleUser, FirstName: "Eve"},
	)
	profiles := fakeProfiles{
		1: {FirstName: "Admin"},
		2: {FirstName: "Robert", Username: "bob"},
	}
	handler := NewRefreshProfilesCommandHandler(store, profiles)

	// Act
	response, err := handler.Handle(context.Background(), RefreshProfilesCommand{ActorID: 1})

	// Assert
	require.NoError(t, err)
	require.Equal(t, RefreshProfilesResponse{Updated: 1, Failed: 1, Total: 3}, response)
	require.Equal(t, "Robert", store.users[2].FirstName)
}

func Test_RefreshProfiles_Requires_Admin(t *testing.T) {
	// Arrange
	store := newFakeUserStore(domain.User{ID: 2, Role: domain.RoleUser})
	handler := NewRefreshProfilesCommandHandler(store, fakeProfiles{})

	// Act
	_, err := handler.Handle(context.Background(), RefreshProfilesCommand{ActorID: 2})

	// Assert
	var commandErr core.CommandError
	require.True(t, errors.As(err, &commandErr))
	require.Equal(t, http.StatusForbidden, commandErr.StatusCode)
}

func Test_SetRole_Returns_NotFound_For_Unknown_User(t *testing.T) {
	// Arrange
	handler := NewSetRoleCommandHandler(newFakeUserStore())

	// Act
	_, err := handler.Handle(context.Background(), SetRoleCommand{UserID: 5, Role: domain.RoleAdmin})

	// Assert
	require.ErrorIs(t, err, users.ErrUserNotFound)
	require.Error(t, SetRoleCommand{UserID: 5, Role: "root"}.Validate())
}
