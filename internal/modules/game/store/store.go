package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/core"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	uniqueGameName       = "uq_game_name"
	uniqueGameInviteCode = "uq_game_invite_code"
	uniqueParticipant    = "uq_game_participant"

	inviteCodeAttempts = 5
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrDuplicateName      = errors.New("a game with that name already exists")
	ErrAlreadyParticipant = errors.New("user already participates in the game")
	ErrStatusChanged      = errors.New("game status changed concurrently")
	ErrPairNotFound       = errors.New("pair not found")
	ErrWishNotFound       = errors.New("wish not found")
)

// DrawPlanner computes the full pair set for a locked game given its
// current manual pairs.
type DrawPlanner func(game domain.Game, manual []domain.Pair) ([]domain.Pair, error)

// Store persists games, their participants, pairs and wishes in postgres.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateGame(ctx context.Context, game domain.Game) (domain.Game, error) {
	var err error
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		if attempt > 0 {
			if game.InviteCode, err = domain.NewInviteCode(); err != nil {
				return domain.Game{}, err
			}
		}

		err = core.Tx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
			if err := ensureUser(ctx, tx, game.OrganizerID); err != nil {
				return err
			}

			const stmt = `
				INSERT INTO
					game (name, budget, currency, organizer_id, invite_code, status)
				VALUES
					($1, $2, $3, $4, $5, $6)
				RETURNING
					id, created_at;`
			row := tx.QueryRowxContext(
				ctx,
				stmt,
				game.Name,
				game.Budget,
				game.Currency,
				game.OrganizerID,
				game.InviteCode,
				domain.StatusSetup,
			)
			if err := row.Scan(&game.ID, &game.CreatedAt); err != nil {
				return err
			}

			return insertParticipant(ctx, tx, game.ID, game.OrganizerID)
		})

		switch {
		case err == nil:
			game.Status = domain.StatusSetup
			game.Participants = []int64{game.OrganizerID}
			return game, nil
		case core.IsUniqueViolation(err, uniqueGameName):
			return domain.Game{}, fmt.Errorf("%w: %s", ErrDuplicateName, game.Name)
		case core.IsUniqueViolation(err, uniqueGameInviteCode):
			continue
		default:
			return domain.Game{}, err
		}
	}

	return domain.Game{}, fmt.Errorf("failed to allocate a unique invite code: %w", err)
}

func (s *Store) GetGame(ctx context.Context, id int64) (domain.Game, error) {
	const query = `
		SELECT
			id, name, budget, currency, organizer_id, invite_code, status, created_at
		FROM
			game
		WHERE
			id = $1;`
	return s.getGame(ctx, s.db, query, id)
}

func (s *Store) GetGameByInviteCode(ctx context.Context, code string) (domain.Game, error) {
	const query = `
		SELECT
			id, name, budget, currency, organizer_id, invite_code, status, created_at
		FROM
			game
		WHERE
			invite_code = $1;`
	return s.getGame(ctx, s.db, query, code)
}

// ListUserGames returns the games the user organizes or participates in,
// newest first.
func (s *Store) ListUserGames(ctx context.Context, userID int64) ([]domain.Game, error) {
	const query = `
		SELECT
			g.id, g.name, g.budget, g.currency, g.organizer_id, g.invite_code, g.status, g.created_at
		FROM
			game g
		WHERE
			g.organizer_id = $1
			OR EXISTS (
				SELECT 1 FROM game_participant p WHERE p.game_id = g.id AND p.user_id = $1
			)
		ORDER BY
			g.created_at DESC, g.id DESC;`

	games := []domain.Game{}
	if err := s.db.SelectContext(ctx, &games, query, userID); err != nil {
		return nil, err
	}

	if len(games) == 0 {
		return games, nil
	}

	ids := make([]int64, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}

	participants, err := participantsByGame(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	for i := range games {
		games[i].Participants = participants[games[i].ID]
	}

	return games, nil
}

func (s *Store) AddParticipant(ctx context.Context, gameID, userID int64) error {
	err := core.Tx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		return insertParticipant(ctx, tx, gameID, userID)
	})

	if core.IsUniqueViolation(err, uniqueParticipant) {
		return ErrAlreadyParticipant
	}

	return err
}

// SetStatus moves the game from one status to another. It fails with
// ErrStatusChanged if the game is no longer in the expected status.
func (s *Store) SetStatus(ctx context.Context, gameID int64, from, to domain.Status) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	const stmt = `
		UPDATE
			game
		SET
			status = $1
		WHERE
			id = $2 AND status = $3;`
	result, err := s.db.ExecContext(ctx, stmt, to, gameID, from)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrStatusChanged
	}

	return nil
}

// DeleteGame removes the game together with its participants, pairs and
// wishes.
func (s *Store) DeleteGame(ctx context.Context, gameID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM game WHERE id = $1;`, gameID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrGameNotFound
	}

	return nil
}

func (s *Store) Pairs(ctx context.Context, gameID int64) ([]domain.Pair, error) {
	return pairs(ctx, s.db, gameID, false)
}

func (s *Store) ManualPairs(ctx context.Context, gameID int64) ([]domain.Pair, error) {
	return pairs(ctx, s.db, gameID, true)
}

func (s *Store) PairForSender(ctx context.Context, gameID, senderID int64) (domain.Pair, error) {
	const query = `
		SELECT
			id, game_id, sender_id, receiver_id, is_manual
		FROM
			pair
		WHERE
			game_id = $1 AND sender_id = $2;`

	var pair domain.Pair
	if err := s.db.GetContext(ctx, &pair, query, gameID, senderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Pair{}, ErrPairNotFound
		}
		return domain.Pair{}, err
	}

	return pair, nil
}

// PinPair stores a manual pair, replacing any pair that already uses its
// sender or receiver.
func (s *Store) PinPair(ctx context.Context, pair domain.Pair) error {
	return core.Tx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		const deleteStmt = `
			DELETE FROM
				pair
			WHERE
				game_id = $1 AND (sender_id = $2 OR receiver_id = $3);`
		if _, err := tx.ExecContext(ctx, deleteStmt, pair.GameID, pair.SenderID, pair.ReceiverID); err != nil {
			return err
		}

		pair.Manual = true
		return insertPairs(ctx, tx, []domain.Pair{pair})
	})
}

// ClearManualPairs deletes every manual pair of the game and returns how
// many were removed.
func (s *Store) ClearManualPairs(ctx context.Context, gameID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pair WHERE game_id = $1 AND is_manual;`, gameID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// CommitDraw locks the game row, lets plan compute the new pairs from the
// current manual pairs and replaces every stored pair with the result.
// The game ends up running. Nothing is written if plan fails.
func (s *Store) CommitDraw(ctx context.Context, gameID int64, plan DrawPlanner) (domain.Game, []domain.Pair, error) {
	var (
		game  domain.Game
		drawn []domain.Pair
	)

	err := core.Tx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		const lockQuery = `
			SELECT
				id, name, budget, currency, organizer_id, invite_code, status, created_at
			FROM
				game
			WHERE
				id = $1
			FOR UPDATE;`

		var err error
		game, err = s.getGame(ctx, tx, lockQuery, gameID)
		if err != nil {
			return err
		}

		if !game.Status.CanTransitionTo(domain.StatusRunning) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, game.Status, domain.StatusRunning)
		}

		manual, err := pairs(ctx, tx, gameID, true)
		if err != nil {
			return err
		}

		planned, err := plan(game, manual)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM pair WHERE game_id = $1;`, gameID); err != nil {
			return err
		}

		if err := insertPairs(ctx, tx, planned); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE game SET status = $1 WHERE id = $2;`, domain.StatusRunning, gameID); err != nil {
			return err
		}
		game.Status = domain.StatusRunning

		drawn, err = pairs(ctx, tx, gameID, false)
		return err
	})
	if err != nil {
		return domain.Game{}, nil, err
	}

	return game, drawn, nil
}

func (s *Store) Wish(ctx context.Context, gameID, userID int64) (domain.Wish, error) {
	const query = `
		SELECT
			game_id, user_id, text, updated_at
		FROM
			wish
		WHERE
			game_id = $1 AND user_id = $2;`

	var wish domain.Wish
	if err := s.db.GetContext(ctx, &wish, query, gameID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Wish{}, ErrWishNotFound
		}
		return domain.Wish{}, err
	}

	return wish, nil
}

// Wishes returns the wish text of every participant who wrote one, keyed
// by user id.
func (s *Store) Wishes(ctx context.Context, gameID int64) (map[int64]string, error) {
	const query = `
		SELECT
			game_id, user_id, text, updated_at
		FROM
			wish
		WHERE
			game_id = $1;`

	wishes := []domain.Wish{}
	if err := s.db.SelectContext(ctx, &wishes, query, gameID); err != nil {
		return nil, err
	}

	byUser := make(map[int64]string, len(wishes))
	for _, w := range wishes {
		byUser[w.UserID] = w.Text
	}

	return byUser, nil
}

func (s *Store) UpsertWish(ctx context.Context, wish domain.Wish) (domain.Wish, error) {
	const stmt = `
		INSERT INTO
			wish (game_id, user_id, text)
		VALUES
			($1, $2, $3)
		ON CONFLICT ON CONSTRAINT uq_wish DO UPDATE SET
			text = EXCLUDED.text,
			updated_at = now()
		RETURNING
			updated_at;`

	row := s.db.QueryRowxContext(ctx, stmt, wish.GameID, wish.UserID, wish.Text)
	if err := row.Scan(&wish.UpdatedAt); err != nil {
		return domain.Wish{}, err
	}

	return wish, nil
}

func (s *Store) getGame(ctx context.Context, q sqlx.QueryerContext, query string, arg interface{}) (domain.Game, error) {
	var game domain.Game
	if err := sqlx.GetContext(ctx, q, &game, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Game{}, ErrGameNotFound
		}
		return domain.Game{}, err
	}

	participants, err := participantsByGame(ctx, q, []int64{game.ID})
	if err != nil {
		return domain.Game{}, err
	}
	game.Participants = participants[game.ID]

	return game, nil
}

func participantsByGame(ctx context.Context, q sqlx.QueryerContext, gameIDs []int64) (map[int64][]int64, error) {
	const query = `
		SELECT
			game_id, user_id
		FROM
			game_participant
		WHERE
			game_id = ANY($1)
		ORDER BY
			id;`

	rows := []struct {
		GameID int64 `db:"game_id"`
		UserID int64 `db:"user_id"`
	}{}
	if err := sqlx.SelectContext(ctx, q, &rows, query, pq.Array(gameIDs)); err != nil {
		return nil, err
	}

	participants := make(map[int64][]int64, len(gameIDs))
	for _, r := range rows {
		participants[r.GameID] = append(participants[r.GameID], r.UserID)
	}

	return participants, nil
}

func pairs(ctx context.Context, q sqlx.QueryerContext, gameID int64, manualOnly bool) ([]domain.Pair, error) {
	const query = `
		SELECT
			id, game_id, sender_id, receiver_id, is_manual
		FROM
			pair
		WHERE
			game_id = $1 AND (is_manual OR NOT $2)
		ORDER BY
			id;`

	result := []domain.Pair{}
	if err := sqlx.SelectContext(ctx, q, &result, query, gameID, manualOnly); err != nil {
		return nil, err
	}

	return result, nil
}

func insertPairs(ctx context.Context, tx *sqlx.Tx, pairs []domain.Pair) error {
	const stmt = `
		INSERT INTO
			pair (game_id, sender_id, receiver_id, is_manual)
		VALUES
			(:game_id, :sender_id, :receiver_id, :is_manual);`

	for _, p := range pairs {
		if _, err := tx.NamedExecContext(ctx, stmt, p); err != nil {
			return err
		}
	}

	return nil
}

func insertParticipant(ctx context.Context, tx *sqlx.Tx, gameID, userID int64) error {
	const stmt = `
		INSERT INTO
			game_participant (game_id, user_id)
		VALUES
			($1, $2);`
	_, err := tx.ExecContext(ctx, stmt, gameID, userID)
	return err
}

// ensureUser creates a bare user row so games can reference users that
// have not registered through the bot yet.
func ensureUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	const stmt = `
		INSERT INTO
			app_user (id)
		VALUES
			($1)
		ON CONFLICT (id) DO NOTHING;`
	_, err := tx.ExecContext(ctx, stmt, userID)
	return err
}
