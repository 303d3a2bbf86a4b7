package domain

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSetup    Status = "setup"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

const (
	InviteCodeLength = 8
	MaxNameLength    = 128

	inviteCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var (
	ErrInvalidTransition = errors.New("game status cannot change that way")
	ErrInvalidBudget     = errors.New("budget must be a positive amount")
	ErrInvalidName       = errors.New("game name must not be empty")
	ErrUnknownCurrency   = errors.New("unknown currency")
	ErrGameFinished      = errors.New("game is already finished")
)

// CanTransitionTo reports whether a game in s may move to next.
// Status only moves forward; running -> running is a re-draw.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusSetup:
		return next == StatusRunning
	case StatusRunning:
		return next == StatusRunning || next == StatusFinished
	default:
		return false
	}
}

type Game struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Budget      decimal.Decimal `db:"budget" json:"budget"`
	Currency    Currency        `db:"currency" json:"currency"`
	OrganizerID int64           `db:"organizer_id" json:"organizer_id"`
	InviteCode  string          `db:"invite_code" json:"invite_code"`
	Status      Status          `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`

	// Participants in join order; the organizer joins first.
	Participants []int64 `db:"-" json:"participants"`
}

func NewGame(organizerID int64, name string, budget decimal.Decimal, currency Currency) (Game, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		return Game{}, ErrInvalidName
	}

	if err := ValidateBudget(budget); err != nil {
		return Game{}, err
	}

	if !currency.Valid() {
		return Game{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}

	code, err := NewInviteCode()
	if err != nil {
		return Game{}, err
	}

	return Game{
		Name:         name,
		Budget:       budget,
		Currency:     currency,
		OrganizerID:  organizerID,
		InviteCode:   code,
		Status:       StatusSetup,
		Participants: []int64{organizerID},
	}, nil
}

func (g Game) HasParticipant(userID int64) bool {
	for _, p := range g.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// CanManage reports whether the actor may draw, finish or delete the game.
func (g Game) CanManage(actorID int64, actorIsAdmin bool) bool {
	return actorIsAdmin || g.OrganizerID == actorID
}

func ValidateBudget(budget decimal.Decimal) error {
	if !budget.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidBudget, budget.String())
	}
	return nil
}

// ParseBudget accepts both "1500.50" and "1500,50".
func ParseBudget(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")

	budget, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidBudget, raw)
	}

	if err := ValidateBudget(budget); err != nil {
		return decimal.Decimal{}, err
	}

	return budget.Round(2), nil
}

func NewInviteCode() (string, error) {
	var b strings.Builder
	b.Grow(InviteCodeLength)

	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := 0; i < InviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(inviteCodeAlphabet[n.Int64()])
	}

	return b.String(), nil
}
