package dedup

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ctf-hub/ctfbot/internal/domain/webhook"
)

const (
	DefaultLimit       = 1000
	DefaultGenerations = 2
)

// Generational is a bounded set of recently seen event ids. Ids are recorded
// in the newest generation; once it grows past the limit the oldest
// generation is dropped and a fresh one started, so at least the last
// limit ids are always remembered.
//
// Each generation is an LRU cache sized one past the limit, so a generation
// never evicts on its own before it is rotated out.
type Generational struct {
	mu    sync.Mutex
	limit int
	gens  []*lru.Cache[string, struct{}]
}

var _ webhook.Deduplicator = (*Generational)(nil)

func NewGenerational(limit, generations int) *Generational {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if generations < 2 {
		generations = DefaultGenerations
	}
	g := &Generational{limit: limit, gens: make([]*lru.Cache[string, struct{}], generations)}
	for i := range g.gens {
		g.gens[i] = g.newGeneration()
	}
	return g
}

func (g *Generational) newGeneration() *lru.Cache[string, struct{}] {
	cache, err := lru.New[string, struct{}](g.limit + 1)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return cache
}

// IsNew reports whether eventID has not been seen inside the window and
// records it. An empty id is always new and never recorded.
func (g *Generational) IsNew(_ context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, gen := range g.gens {
		if gen.Contains(eventID) {
			return false, nil
		}
	}
	current := g.gens[0]
	current.Add(eventID, struct{}{})
	if current.Len() > g.limit {
		g.rotateLocked()
	}
	return true, nil
}

// Len returns the number of ids currently remembered.
func (g *Generational) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, gen := range g.gens {
		n += gen.Len()
	}
	return n
}

func (g *Generational) rotateLocked() {
	oldest := g.gens[len(g.gens)-1]
	copy(g.gens[1:], g.gens[:len(g.gens)-1])
	oldest.Purge()
	g.gens[0] = oldest
}
