package domain

import (
	"errors"
	"testing"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/matching"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_Status_Transitions_Only_Move_Forward(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusSetup, StatusRunning, true},
		{StatusRunning, StatusRunning, true},
		{StatusRunning, StatusFinished, true},
		{StatusSetup, StatusFinished, false},
		{StatusSetup, StatusSetup, false},
		{StatusRunning, StatusSetup, false},
		{StatusFinished, StatusRunning, false},
		{StatusFinished, StatusSetup, false},
	}

	for _, c := range cases {
		require.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func Test_NewGame_Adds_Organizer_As_First_Participant(t *testing.T) {
	// Act
	game, err := NewGame(42, "  Office party  ", decimal.NewFromInt(1500), CurrencyRUB)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "Office party", game.Name)
	require.Equal(t, StatusSetup, game.Status)
	require.Equal(t, []int64{42}, game.Participants)
	require.Len(t, game.InviteCode, InviteCodeLength)
}

func Test_NewGame_Rejects_Invalid_Input(t *testing.T) {
	_, err := NewGame(1, " ", decimal.NewFromInt(10), CurrencyUSD)
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = NewGame(1, "party", decimal.Zero, CurrencyUSD)
	require.ErrorIs(t, err, ErrInvalidBudget)

	_, err = NewGame(1, "party", decimal.NewFromInt(10), Currency("GBP"))
	require.ErrorIs(t, err, ErrUnknownCurrency)
}

func Test_ParseBudget_Accepts_Comma_Decimal_Separator(t *testing.T) {
	budget, err := ParseBudget(" 500,50 ")

	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("500.50").Equal(budget))
}

func Test_ParseBudget_Rejects_Non_Positive_And_Garbage(t *testing.T) {
	for _, raw := range []string{"0", "-3", "abc", ""} {
		_, err := ParseBudget(raw)
		require.True(t, errors.Is(err, ErrInvalidBudget), raw)
	}
}

func Test_NewInviteCode_Uses_Alphanumerics(t *testing.T) {
	code, err := NewInviteCode()

	require.NoError(t, err)
	require.Regexp(t, `^[a-zA-Z0-9]{8}$`, code)
}

func Test_CanManage_Allows_Organizer_And_Admin(t *testing.T) {
	game := Game{OrganizerID: 1}

	require.True(t, game.CanManage(1, false))
	require.True(t, game.CanManage(2, true))
	require.False(t, game.CanManage(2, false))
}

func Test_NewManualPair_Rejects_Self_Pair(t *testing.T) {
	_, err := NewManualPair(1, 5, 5)

	require.ErrorIs(t, err, ErrSelfPair)
}

func Test_PairsFromPlan_Keeps_Origin_Flag(t *testing.T) {
	pairs := PairsFromPlan(9, []matching.Pairing{
		{Assignment: matching.Assignment{Sender: 1, Receiver: 2}, Manual: true},
		{Assignment: matching.Assignment{Sender: 2, Receiver: 1}},
	})

	require.Equal(t, []Pair{
		{GameID: 9, SenderID: 1, ReceiverID: 2, Manual: true},
		{GameID: 9, SenderID: 2, ReceiverID: 1},
	}, pairs)
}

func Test_NewWish_Trims_And_Rejects_Empty(t *testing.T) {
	wish, err := NewWish(1, 2, "  books  ")
	require.NoError(t, err)
	require.Equal(t, "books", wish.Text)

	_, err = NewWish(1, 2, "   ")
	require.ErrorIs(t, err, ErrEmptyWish)
}
