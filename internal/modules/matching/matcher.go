package matching

import "fmt"

const DefaultMaxAttempts = 1000

// Pairing is an Assignment tagged with where it came from.
type Pairing struct {
	Assignment
	Manual bool `json:"manual"`
}

type Matcher struct {
	rng         Shuffler
	maxAttempts int
}

type MatcherOption func(*Matcher)

func WithMaxAttempts(attempts int) MatcherOption {
	return func(m *Matcher) {
		if attempts > 0 {
			m.maxAttempts = attempts
		}
	}
}

func NewMatcher(rng Shuffler, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		rng:         rng,
		maxAttempts: DefaultMaxAttempts,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Draw pairs every free participant with another free participant so that
// each gives and receives exactly once and nobody gives to themselves.
func Draw(free []int64, rng Shuffler) ([]Assignment, error) {
	return NewMatcher(rng).Draw(free)
}

func (m *Matcher) Draw(free []int64) ([]Assignment, error) {
	return m.Match(free, free)
}

// Match assigns each of senders a distinct receiver, senders[i] never
// getting themselves. The receiver order is reshuffled until no position
// holds a self-assignment or the attempt limit runs out.
func (m *Matcher) Match(senders, receivers []int64) ([]Assignment, error) {
	if len(senders) != len(receivers) {
		return nil, fmt.Errorf(
			"%w: %d participants need a receiver but %d need a sender",
			ErrManualAssignmentConflict,
			len(senders),
			len(receivers),
		)
	}

	if len(senders) == 0 {
		return []Assignment{}, nil
	}

	if len(senders) == 1 && senders[0] == receivers[0] {
		return nil, fmt.Errorf("%w: participant %d", ErrUnsatisfiableSingleton, senders[0])
	}

	shuffled := make([]int64, len(receivers))
	copy(shuffled, receivers)

	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		m.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		if hasFixedPoint(senders, shuffled) {
			continue
		}

		assignments := make([]Assignment, 0, len(senders))
		for i, sender := range senders {
			assignments = append(assignments, Assignment{Sender: sender, Receiver: shuffled[i]})
		}

		return assignments, nil
	}

	return nil, fmt.Errorf("%w: %d attempts", ErrMatchingRetriesExhausted, m.maxAttempts)
}

// Plan runs Validate and Match and returns the full result: manual pairs
// first, in the order given, then the random ones.
//
// Senders without a pin are matched against receivers without a pin, so a
// single pin 1->2 over {1, 2, 3} completes as 2->3 and 3->1.
func (m *Matcher) Plan(participants []int64, manual []Assignment) ([]Pairing, error) {
	constraints, err := Validate(participants, manual)
	if err != nil {
		return nil, err
	}

	random, err := m.Match(constraints.Senders, constraints.Receivers)
	if err != nil {
		return nil, err
	}

	pairings := make([]Pairing, 0, len(manual)+len(random))
	for _, a := range manual {
		pairings = append(pairings, Pairing{Assignment: a, Manual: true})
	}

	for _, a := range random {
		pairings = append(pairings, Pairing{Assignment: a})
	}

	if err := Verify(participants, pairings); err != nil {
		return nil, err
	}

	return pairings, nil
}

// Verify checks that pairings cover participants exactly once on each side
// and contain no self-assignment.
func Verify(participants []int64, pairings []Pairing) error {
	members := make(map[int64]struct{}, len(participants))
	for _, p := range participants {
		members[p] = struct{}{}
	}

	if len(pairings) != len(members) {
		return fmt.Errorf("%w: %d pairs for %d participants", ErrIncompleteAssignment, len(pairings), len(members))
	}

	senders := make(map[int64]struct{}, len(pairings))
	receivers := make(map[int64]struct{}, len(pairings))

	for _, p := range pairings {
		if p.Sender == p.Receiver {
			return fmt.Errorf("%w: %d gives to themselves", ErrIncompleteAssignment, p.Sender)
		}

		if _, ok := members[p.Sender]; !ok {
			return fmt.Errorf("%w: unknown sender %d", ErrIncompleteAssignment, p.Sender)
		}

		if _, ok := members[p.Receiver]; !ok {
			return fmt.Errorf("%w: unknown receiver %d", ErrIncompleteAssignment, p.Receiver)
		}

		if _, dup := senders[p.Sender]; dup {
			return fmt.Errorf("%w: %d gives twice", ErrIncompleteAssignment, p.Sender)
		}

		if _, dup := receivers[p.Receiver]; dup {
			return fmt.Errorf("%w: %d receives twice", ErrIncompleteAssignment, p.Receiver)
		}

		senders[p.Sender] = struct{}{}
		receivers[p.Receiver] = struct{}{}
	}

	return nil
}

func hasFixedPoint(senders, receivers []int64) bool {
	for i := range senders {
		if senders[i] == receivers[i] {
			return true
		}
	}
	return false
}
