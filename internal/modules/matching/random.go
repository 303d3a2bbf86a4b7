package matching

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Randomizer is a Shuffler that is safe for concurrent draws.
type Randomizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomizer() *Randomizer {
	return NewSeededRandomizer(time.Now().UnixNano())
}

func NewSeededRandomizer(seed int64) *Randomizer {
	return &Randomizer{
		rnd: rand.New(rand.NewSource(seed)), // #nosec G404
	}
}

func (r *Randomizer) Shuffle(n int, swap func(i, j int)) {
	if n <= 1 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}
