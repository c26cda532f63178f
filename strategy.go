package blocks

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"crosswarped.com/blocks/pkg/primitives"
)

// Env is what every strategy runs against. Judge and Inventory are shared
// read-only; Rand is owned by a single run.
type Env struct {
	Judge     *Judge
	Inventory *primitives.Inventory
	Rand      *rand.Rand
	Logger    zerolog.Logger
}

func (e Env) validate() error {
	if e.Judge == nil || e.Inventory == nil || e.Rand == nil {
		return fmt.Errorf("%w: env needs a judge, an inventory and a random source", ErrInvalidConfig)
	}
	return nil
}

// Found is an arrangement a strategy scored, with where it was found.
type Found struct {
	Arrangement string
	Tag         string
	Score       Score
}

// Result is the outcome of one strategy run.
type Result struct {
	Strategy string
	// Rankings holds the best arrangements per objective the run tracked.
	Rankings map[Objective]*primitives.Ranking[Found]
	// Updates lists, per objective, the iterations at which a new best was found.
	Updates map[Objective][]int
	// Explored counts the unique arrangements scored, not counting the root.
	Explored int
}

// Records returns the ranking for o best first. The ranking is left intact.
func (r Result) Records(o Objective) []Record {
	rk, ok := r.Rankings[o]
	if !ok {
		return nil
	}
	out := make([]Record, 0, rk.Len())
	for it := range rk.All() {
		out = append(out, Record{
			Primary:     it.Primary,
			TieBreak:    it.TieBreak,
			Arrangement: it.Payload.Arrangement,
			Tag:         it.Payload.Tag,
		})
	}
	return out
}

// Strategy is a search policy over arrangements.
//
// Run must terminate on its own budget. It checks ctx between iterations and,
// when ctx is done, returns what it found so far together with ctx.Err().
type Strategy interface {
	Name() string
	Run(ctx context.Context, env Env) (Result, error)
}

// tracker keeps the best arrangements for one objective.
type tracker struct {
	objective Objective
	ranking   *primitives.Ranking[Found]
	best      int
	seeded    bool
	updates   []int
}

func newTracker(o Objective, capacity int) *tracker {
	return &tracker{objective: o, ranking: primitives.NewRanking[Found](capacity)}
}

// seed records f as a starting point without counting it as an update.
func (t *tracker) seed(f Found) {
	p, tb := t.objective.Key(f.Score)
	if !t.seeded || p > t.best {
		t.best, t.seeded = p, true
	}
	t.ranking.Insert(p, tb, f)
}

// offer inserts f and reports whether it beat every value seen before.
func (t *tracker) offer(f Found, at int) bool {
	p, tb := t.objective.Key(f.Score)
	improved := !t.seeded || p > t.best
	if improved {
		t.best, t.seeded = p, true
		t.updates = append(t.updates, at)
	}
	t.ranking.Insert(p, tb, f)
	return improved
}

// search is the state shared by every policy: the visited guard, the explored
// counter and the per-objective trackers.
type search struct {
	env      Env
	name     string
	seen     map[string]struct{}
	explored int
	trackers []*tracker
}

func newSearch(env Env, name string, trackers ...*tracker) *search {
	return &search{
		env:      env,
		name:     name,
		seen:     make(map[string]struct{}),
		trackers: trackers,
	}
}

// visit marks a as seen and reports whether it was new.
func (s *search) visit(a primitives.Arrangement) (string, bool) {
	key := a.String()
	if _, ok := s.seen[key]; ok {
		return key, false
	}
	s.seen[key] = struct{}{}
	return key, true
}

// evaluate scores a newly discovered arrangement.
func (s *search) evaluate(a primitives.Arrangement) Score {
	s.explored++
	return s.env.Judge.Score(a)
}

// root scores and seeds the starting arrangement.
func (s *search) root(a primitives.Arrangement, tag string) (Score, error) {
	if err := s.env.Inventory.Validate(a); err != nil {
		return Score{}, fmt.Errorf("root: %w", err)
	}
	key, _ := s.visit(a)
	sc := s.env.Judge.Score(a)
	for _, t := range s.trackers {
		t.seed(Found{Arrangement: key, Tag: tag, Score: sc})
	}
	return sc, nil
}

// offer hands f to every tracker, logging new bests.
func (s *search) offer(f Found, at int) bool {
	improved := false
	for _, t := range s.trackers {
		if t.offer(f, at) {
			improved = true
			s.env.Logger.Debug().
				Str("strategy", s.name).
				Str("objective", t.objective.String()).
				Int("score", t.best).
				Int("at", at).
				Str("arrangement", f.Arrangement).
				Msg("new-best")
		}
	}
	return improved
}

func (s *search) result() Result {
	r := Result{
		Strategy: s.name,
		Rankings: make(map[Objective]*primitives.Ranking[Found], len(s.trackers)),
		Updates:  make(map[Objective][]int, len(s.trackers)),
		Explored: s.explored,
	}
	for _, t := range s.trackers {
		r.Rankings[t.objective] = t.ranking
		r.Updates[t.objective] = t.updates
	}
	s.env.Logger.Info().
		Str("strategy", s.name).
		Int("explored", s.explored).
		Msg("strategy-done")
	return r
}

// rootOrBase returns a copy of root, or the inventory's base arrangement when
// root is empty.
func rootOrBase(root primitives.Arrangement, inv *primitives.Inventory) primitives.Arrangement {
	if len(root) == 0 {
		return inv.Base()
	}
	return root.Clone()
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
