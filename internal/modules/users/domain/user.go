package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleBanned Role = "banned"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(raw string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleUser, RoleAdmin, RoleBanned:
		return role, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// User is a chat user; ID is the chat platform's user id.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Profile is the part of a user that the chat platform owns.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
}

func (u User) Profile() Profile {
	return Profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (u *User) ApplyProfile(p Profile) {
	u.Username = p.Username
	u.FirstName = p.FirstName
	u.LastName = p.LastName
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsBanned() bool {
	return u.Role == RoleBanned
}

// DisplayName prefers the full name, then the @username, then the id.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}

	if u.Username != "" {
		return "@" + u.Username
	}

	return FallbackName(u.ID)
}

func FallbackName(id int64) string {
	return fmt.Sprintf("user %d", id)
}
