package commands

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/matching"

	"github.com/eskrenkovic/mediator-go"
	"go.uber.org/zap"
)

type ExecuteDrawCommand struct {
	GameID  int64
	ActorID int64
}

func (c ExecuteDrawCommand) Validate() error {
	if c.GameID <= 0 {
		return fmt.Errorf("invalid GameID - '%d'", c.GameID)
	}

	if c.ActorID <= 0 {
		return fmt.Errorf("invalid ActorID - '%d'", c.ActorID)
	}

	return nil
}

// DrawSummary reports the committed pairs and how the notification
// fan-out went. Failed deliveries never undo the draw.
type DrawSummary struct {
	GameID        int64         `json:"game_id"`
	Pairs         []domain.Pair `json:"pairs"`
	Delivered     int           `json:"delivered"`
	Failed        int           `json:"failed"`
	FailedSenders []int64       `json:"failed_senders,omitempty"`
}

func HandleExecuteDraw(w http.ResponseWriter, r *http.Request) {
	gameID, err := core.URLParamID(r, "id")
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command := ExecuteDrawCommand{
		GameID:  gameID,
		ActorID: core.Session(r.Context()).UserID,
	}

	summary, err := mediator.Send[ExecuteDrawCommand, DrawSummary](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, summary)
}

type ExecuteDrawCommandHandler struct {
	games    GameRepository
	users    UserDirectory
	notifier Notifier
	matcher  *matching.Matcher
	locks    *core.KeyedMutex
}

func NewExecuteDrawCommandHandler(
	games GameRepository,
	users UserDirectory,
	notifier Notifier,
	matcher *matching.Matcher,
	locks *core.KeyedMutex,
) *ExecuteDrawCommandHandler {
	return &ExecuteDrawCommandHandler{
		games:    games,
		users:    users,
		notifier: notifier,
		matcher:  matcher,
		locks:    locks,
	}
}

func (h *ExecuteDrawCommandHandler) Handle(
	ctx context.Context,
	request ExecuteDrawCommand,
) (DrawSummary, error) {
	game, err := h.games.GetGame(ctx, request.GameID)
	if err != nil {
		return DrawSummary{}, commandError(err)
	}

	if err := authorizeManager(ctx, h.users, game, request.ActorID); err != nil {
		return DrawSummary{}, err
	}

	game, pairs, err := h.commit(ctx, game.ID)
	if err != nil {
		return DrawSummary{}, commandError(err)
	}

	core.LogInfo(
		ctx,
		"draw committed",
		zap.Int64("game_id", game.ID),
		zap.Int("pairs", len(pairs)),
	)

	return h.notify(ctx, game, pairs), nil
}

func (h *ExecuteDrawCommandHandler) commit(ctx context.Context, gameID int64) (domain.Game, []domain.Pair, error) {
	unlock := h.locks.Lock(DrawLockKey(gameID))
	defer unlock()

	return h.games.CommitDraw(ctx, gameID, h.plan)
}

func (h *ExecuteDrawCommandHandler) plan(game domain.Game, manual []domain.Pair) ([]domain.Pair, error) {
	pairings, err := h.matcher.Plan(game.Participants, core.Map(manual, domain.Pair.Assignment))
	if err != nil {
		return nil, err
	}

	return domain.PairsFromPlan(game.ID, pairings), nil
}

// notify runs after commit and outside the game lock.
func (h *ExecuteDrawCommandHandler) notify(ctx context.Context, game domain.Game, pairs []domain.Pair) DrawSummary {
	summary := DrawSummary{
		GameID: game.ID,
		Pairs:  pairs,
	}

	wishes, err := h.games.Wishes(ctx, game.ID)
	if err != nil {
		core.LogWarn(ctx, "failed to load wishes for notifications", zap.Int64("game_id", game.ID), zap.Error(err))
		wishes = map[int64]string{}
	}

	for _, pair := range pairs {
		notice := domain.AssignmentNotice{
			GameID:       game.ID,
			GameName:     game.Name,
			SenderID:     pair.SenderID,
			ReceiverID:   pair.ReceiverID,
			ReceiverName: h.users.DisplayName(ctx, pair.ReceiverID),
			WishText:     wishes[pair.ReceiverID],
			Budget:       game.Budget,
			Currency:     game.Currency,
		}

		if err := h.notifier.NotifyAssignment(ctx, notice); err != nil {
			core.LogError(
				ctx,
				"failed to deliver assignment",
				zap.Int64("game_id", game.ID),
				zap.Int64("sender_id", pair.SenderID),
				zap.Error(err),
			)
			summary.Failed++
			summary.FailedSenders = append(summary.FailedSenders, pair.SenderID)
			continue
		}

		summary.Delivered++
	}

	return summary
}

func DrawLockKey(gameID int64) string {
	return "draw:" + strconv.FormatInt(gameID, 10)
}
