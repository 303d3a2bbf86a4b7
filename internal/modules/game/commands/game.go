package commands

import (
	"context"
	"errors"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/store"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/matching"

	"go.uber.org/zap"
)

var (
	ErrNotOrganizer   = errors.New("only the organizer or an administrator can do that")
	ErrAdminOnly      = errors.New("only an administrator can do that")
	ErrNotParticipant = errors.New("user does not participate in the game")
)

type GameRepository interface {
	CreateGame(ctx context.Context, game domain.Game) (domain.Game, error)
	GetGame(ctx context.Context, id int64) (domain.Game, error)
	GetGameByInviteCode(ctx context.Context, code string) (domain.Game, error)
	AddParticipant(ctx context.Context, gameID, userID int64) error
	SetStatus(ctx context.Context, gameID int64, from, to domain.Status) error
	DeleteGame(ctx context.Context, gameID int64) error
	PinPair(ctx context.Context, pair domain.Pair) error
	ClearManualPairs(ctx context.Context, gameID int64) (int64, error)
	CommitDraw(ctx context.Context, gameID int64, plan store.DrawPlanner) (domain.Game, []domain.Pair, error)
	Wishes(ctx context.Context, gameID int64) (map[int64]string, error)
	UpsertWish(ctx context.Context, wish domain.Wish) (domain.Wish, error)
}

var _ GameRepository = (*store.Store)(nil)

type UserDirectory interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	DisplayName(ctx context.Context, userID int64) string
}

type Notifier interface {
	NotifyAssignment(ctx context.Context, notice domain.AssignmentNotice) error
	NotifyJoined(ctx context.Context, notice domain.JoinNotice) error
}

// LogNotifier only logs notices. It is used when no chat transport is
// configured.
type LogNotifier struct{}

func (LogNotifier) NotifyAssignment(ctx context.Context, notice domain.AssignmentNotice) error {
	core.LogInfo(
		ctx,
		"assignment notice",
		zap.Int64("game_id", notice.GameID),
		zap.Int64("sender_id", notice.SenderID),
	)
	return nil
}

func (LogNotifier) NotifyJoined(ctx context.Context, notice domain.JoinNotice) error {
	core.LogInfo(
		ctx,
		"join notice",
		zap.Int64("game_id", notice.GameID),
		zap.Int64("participant_id", notice.ParticipantID),
	)
	return nil
}

func authorizeManager(ctx context.Context, users UserDirectory, game domain.Game, actorID int64) error {
	isAdmin, err := users.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}

	if !game.CanManage(actorID, isAdmin) {
		return core.Forbidden(ErrNotOrganizer)
	}

	return nil
}

func authorizeAdmin(ctx context.Context, users UserDirectory, actorID int64) error {
	isAdmin, err := users.IsAdmin(ctx, actorID)
	if err != nil {
		return err
	}

	if !isAdmin {
		return core.Forbidden(ErrAdminOnly)
	}

	return nil
}

// commandError maps domain and store errors to their HTTP-facing form.
func commandError(err error) error {
	var commandErr core.CommandError
	if errors.As(err, &commandErr) {
		return err
	}

	switch {
	case errors.Is(err, store.ErrGameNotFound),
		errors.Is(err, store.ErrPairNotFound),
		errors.Is(err, store.ErrWishNotFound):
		return core.NotFound(err)

	case errors.Is(err, store.ErrDuplicateName),
		errors.Is(err, store.ErrAlreadyParticipant),
		errors.Is(err, store.ErrStatusChanged),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrGameFinished),
		errors.Is(err, matching.ErrMatchingRetriesExhausted):
		return core.Conflict(err)

	case errors.Is(err, matching.ErrInsufficientParticipants),
		errors.Is(err, matching.ErrManualAssignmentOutOfScope),
		errors.Is(err, matching.ErrManualAssignmentConflict),
		errors.Is(err, matching.ErrUnsatisfiableSingleton):
		return core.Unprocessable(err, core.WithReason("draw constraints cannot be satisfied"))

	case errors.Is(err, domain.ErrInvalidBudget),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrUnknownCurrency),
		errors.Is(err, domain.ErrEmptyWish),
		errors.Is(err, domain.ErrSelfPair):
		return core.NewCommandError(400, err)
	}

	return err
}
