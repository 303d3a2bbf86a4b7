package queries

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	game   domain.Game
	pairs  []domain.Pair
	wishes map[int64]string
}

func (f fakeReader) GetGame(_ context.Context, id int64) (domain.Game, error) {
	if id != f.game.ID {
		return domain.Game{}, store.ErrGameNotFound
	}
	return f.game, nil
}

func (f fakeReader) ListUserGames(_ context.Context, userID int64) ([]domain.Game, error) {
	if f.game.HasParticipant(userID) {
		return []domain.Game{f.game}, nil
	}
	return []domain.Game{}, nil
}

func (f fakeReader) Pairs(context.Context, int64) ([]domain.Pair, error) {
	return f.pairs, nil
}

func (f fakeReader) PairForSender(_ context.Context, _, senderID int64) (domain.Pair, error) {
	for _, p := range f.pairs {
		if p.SenderID == senderID {
			return p, nil
		}
	}
	return domain.Pair{}, store.ErrPairNotFound
}

func (f fakeReader) Wish(_ context.Context, gameID, userID int64) (domain.Wish, error) {
	text, ok := f.wishes[userID]
	if !ok {
		return domain.Wish{}, store.ErrWishNotFound
	}
	return domain.Wish{GameID: gameID, UserID: userID, Text: text}, nil
}

type fakeUsers struct{}

func (fakeUsers) IsAdmin(_ context.Context, userID int64) (bool, error) {
	return userID == 99, nil
}

func (fakeUsers) DisplayName(_ context.Context, userID int64) string {
	return fmt.Sprintf("user-%d", userID)
}

func runningGame() fakeReader {
	return fakeReader{
		game: domain.Game{
			ID:           7,
			Name:         "office",
			Budget:       decimal.NewFromInt(20),
			Currency:     domain.CurrencyUSD,
			OrganizerID:  1,
			Status:       domain.StatusRunning,
			Participants: []int64{1, 2, 3},
		},
		pairs: []domain.Pair{
			{GameID: 7, SenderID: 1, ReceiverID: 2},
			{GameID: 7, SenderID: 2, ReceiverID: 3},
			{GameID: 7, SenderID: 3, ReceiverID: 1},
		},
		wishes: map[int64]string{3: "board games"},
	}
}

func requireStatusCode(t *testing.T, err error, statusCode int) {
	t.Helper()

	var commandErr core.CommandError
	require.True(t, errors.As(err, &commandErr), "expected CommandError, got %v", err)
	require.Equal(t, statusCode, commandErr.StatusCode)
}

func Test_GetAssignment_Returns_Receiver_With_Wish(t *testing.T) {
	// Arrange
	handler := NewGetAssignmentQueryHandler(runningGame(), fakeUsers{})

	// Act
	assignment, err := handler.Handle(context.Background(), GetAssignmentQuery{GameID: 7, UserID: 2})

	// Assert
	require.NoError(t, err)
	require.Equal(t, int64(3), assignment.ReceiverID)
	require.Equal(t, "user-3", assignment.ReceiverName)
	require.Equal(t, "board games", assignment.WishText)
	require.Equal(t, domain.CurrencyUSD, assignment.Currency)
}

func Test_GetAssignment_Leaves_Wish_Empty_When_Missing(t *testing.T) {
	// Arrange
	handler := NewGetAssignmentQueryHandler(runningGame(), fakeUsers{})

	// Act
	assignment, err := handler.Handle(context.Background(), GetAssignmentQuery{GameID: 7, UserID: 1})

	// Assert
	require.NoError(t, err)
	require.Equal(t, int64(2), assignment.ReceiverID)
	require.Empty(t, assignment.WishText)
}

func Test_GetAssignment_Rejects_Outsiders_And_Undrawn_Games(t *testing.T) {
	// Arrange
	reader := runningGame()
	handler := NewGetAssignmentQueryHandler(reader, fakeUsers{})

	// Act
	_, outsiderErr := handler.Handle(context.Background(), GetAssignmentQuery{GameID: 7, UserID: 5})

	reader.game.Status = domain.StatusSetup
	_, setupErr := NewGetAssignmentQueryHandler(reader, fakeUsers{}).Handle(
		context.Background(),
		GetAssignmentQuery{GameID: 7, UserID: 1},
	)

	// Assert
	requireStatusCode(t, outsiderErr, http.StatusForbidden)
	requireStatusCode(t, setupErr, http.StatusConflict)
}

func Test_GetAssignment_Late_Joiner_Has_No_Pair_Yet(t *testing.T) {
	// Arrange
	reader := runningGame()
	reader.game.Participants = append(reader.game.Participants, 4)
	handler := NewGetAssignmentQueryHandler(reader, fakeUsers{})

	// Act
	_, err := handler.Handle(context.Background(), GetAssignmentQuery{GameID: 7, UserID: 4})

	// Assert
	requireStatusCode(t, err, http.StatusConflict)
	require.ErrorIs(t, err, ErrNoPairYet)
}

func Test_GetGame_Returns_Details_For_Organizer_And_Admin(t *testing.T) {
	// Arrange
	handler := NewGetGameQueryHandler(runningGame(), fakeUsers{})

	// Act
	details, err := handler.Handle(context.Background(), GetGameQuery{GameID: 7, ActorID: 1})
	_, adminErr := handler.Handle(context.Background(), GetGameQuery{GameID: 7, ActorID: 99})
	_, participantErr := handler.Handle(context.Background(), GetGameQuery{GameID: 7, ActorID: 2})
	_, missingErr := handler.Handle(context.Background(), GetGameQuery{GameID: 8, ActorID: 1})

	// Assert
	require.NoError(t, err)
	require.Len(t, details.Pairs, 3)
	require.Equal(t, Participant{ID: 2, Name: "user-2"}, details.Participants[1])
	require.NoError(t, adminErr)
	requireStatusCode(t, participantErr, http.StatusForbidden)
	requireStatusCode(t, missingErr, http.StatusNotFound)
}

func Test_GetUserGames_Lists_Participated_Games(t *testing.T) {
	// Arrange
	handler := NewGetUserGamesQueryHandler(runningGame())

	// Act
	games, err := handler.Handle(context.Background(), GetUserGamesQuery{UserID: 3})

	// Assert
	require.NoError(t, err)
	require.Len(t, games, 1)
}
