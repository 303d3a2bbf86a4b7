package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/domain"
	"github.com/eskrenkovic/gift-exchange-go/internal/modules/game/store"

	"github.com/stretchr/testify/mock"
)

type fakeGames struct {
	mu     sync.Mutex
	nextID int64
	games  map[int64]domain.Game
	pairs  map[int64][]domain.Pair
	wishes map[int64]map[int64]string
}

func newFakeGames() *fakeGames {
	return &fakeGames{
		games:  map[int64]domain.Game{},
		pairs:  map[int64][]domain.Pair{},
		wishes: map[int64]map[int64]string{},
	}
}

func (f *fakeGames) seed(game domain.Game) domain.Game {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	game.ID = f.nextID
	if game.Status == "" {
		game.Status = domain.StatusSetup
	}
	f.games[game.ID] = game

	return game
}

func (f *fakeGames) CreateGame(_ context.Context, game domain.Game) (domain.Game, error) {
	f.mu.Lock()
	for _, g := range f.games {
		if g.Name == game.Name {
			f.mu.Unlock()
			return domain.Game{}, store.ErrDuplicateName
		}
	}
	f.mu.Unlock()

	return f.seed(game), nil
}

func (f *fakeGames) GetGame(_ context.Context, id int64) (domain.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	game, ok := f.games[id]
	if !ok {
		return domain.Game{}, store.ErrGameNotFound
	}

	game.Participants = append([]int64(nil), game.Participants...)
	return game, nil
}

func (f *fakeGames) GetGameByInviteCode(ctx context.Context, code string) (domain.Game, error) {
	f.mu.Lock()
	var id int64
	for _, g := range f.games {
		if g.InviteCode == code {
			id = g.ID
		}
	}
	f.mu.Unlock()

	return f.GetGame(ctx, id)
}

func (f *fakeGames) AddParticipant(_ context.Context, gameID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	game, ok := f.games[gameID]
	if !ok {
		return store.ErrGameNotFound
	}

	if game.HasParticipant(userID) {
		return store.ErrAlreadyParticipant
	}

	game.Participants = append(game.Participants, userID)
	f.games[gameID] = game

	return nil
}

func (f *fakeGames) SetStatus(_ context.Context, gameID int64, from, to domain.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	game := f.games[gameID]
	if game.Status != from {
		return store.ErrStatusChanged
	}

	game.Status = to
	f.games[gameID] = game

	return nil
}

func (f *fakeGames) DeleteGame(_ context.Context, gameID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.games[gameID]; !ok {
		return store.ErrGameNotFound
	}

	delete(f.games, gameID)
	delete(f.pairs, gameID)
	delete(f.wishes, gameID)

	return nil
}

func (f *fakeGames) PinPair(_ context.Context, pair domain.Pair) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := []domain.Pair{}
	for _, p := range f.pairs[pair.GameID] {
		if p.SenderID != pair.SenderID && p.ReceiverID != pair.ReceiverID {
			kept = append(kept, p)
		}
	}

	pair.Manual = true
	f.pairs[pair.GameID] = append(kept, pair)

	return nil
}

func (f *fakeGames) ClearManualPairs(_ context.Context, gameID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var removed int64
	kept := []domain.Pair{}
	for _, p := range f.pairs[gameID] {
		if p.Manual {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	f.pairs[gameID] = kept

	return removed, nil
}

func (f *fakeGames) CommitDraw(
	_ context.Context,
	gameID int64,
	plan store.DrawPlanner,
) (domain.Game, []domain.Pair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	game, ok := f.games[gameID]
	if !ok {
		return domain.Game{}, nil, store.ErrGameNotFound
	}

	if !game.Status.CanTransitionTo(domain.StatusRunning) {
		return domain.Game{}, nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, game.Status)
	}

	manual := []domain.Pair{}
	for _, p := range f.pairs[gameID] {
		if p.Manual {
			manual = append(manual, p)
		}
	}

	planned, err := plan(game, manual)
	if err != nil {
		return domain.Game{}, nil, err
	}

	f.pairs[gameID] = planned
	game.Status = domain.StatusRunning
	f.games[gameID] = game

	return game, append([]domain.Pair(nil), planned...), nil
}

func (f *fakeGames) Wishes(_ context.Context, gameID int64) (map[int64]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wishes := map[int64]string{}
	for k, v := range f.wishes[gameID] {
		wishes[k] = v
	}

	return wishes, nil
}

func (f *fakeGames) UpsertWish(_ context.Context, wish domain.Wish) (domain.Wish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.wishes[wish.GameID] == nil {
		f.wishes[wish.GameID] = map[int64]string{}
	}
	f.wishes[wish.GameID][wish.UserID] = wish.Text

	return wish, nil
}

func (f *fakeGames) storedPairs(gameID int64) []domain.Pair {
	f.mu.Lock()
	defer f.mu.Unlock()

	pairs := append([]domain.Pair(nil), f.pairs[gameID]...)
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].SenderID < pairs[j].SenderID })

	return pairs
}

type fakeUsers struct {
	admins map[int64]bool
}

func (u fakeUsers) IsAdmin(_ context.Context, userID int64) (bool, error) {
	return u.admins[userID], nil
}

func (u fakeUsers) DisplayName(_ context.Context, userID int64) string {
	return fmt.Sprintf("user-%d", userID)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyAssignment(ctx context.Context, notice domain.AssignmentNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *mockNotifier) NotifyJoined(ctx context.Context, notice domain.JoinNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
