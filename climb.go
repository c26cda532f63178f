package blocks

import (
	"context"
	"fmt"

	"crosswarped.com/blocks/pkg/primitives"
)

// Greedy walks from its root, each round scoring every unseen structured-swap
// neighbor and moving to the highest scoring one, better than the current
// arrangement or not. It stops when the budget is spent or a round finds no
// unseen neighbor.
type Greedy struct {
	Objective Objective
	// Budget is the number of unique neighbors to score.
	Budget int
	// Capacity is the size of the output ranking. Defaults to 10.
	Capacity int
	// Root is the starting arrangement. Defaults to the inventory's base.
	Root primitives.Arrangement
}

func (g *Greedy) Name() string { return "greedy" }

func (g *Greedy) Run(ctx context.Context, env Env) (Result, error) {
	return climb(ctx, env, climbParams{
		name:      g.Name(),
		objective: g.Objective,
		budget:    g.Budget,
		capacity:  g.Capacity,
		root:      g.Root,
	})
}

// HillClimb is a strict ascent: it moves only to a neighbor that beats every
// score seen so far and stops at the first round without one.
type HillClimb struct {
	Objective Objective
	// Budget is the number of unique neighbors to score.
	Budget int
	// Capacity is the size of the output ranking. Defaults to 10.
	Capacity int
	// Root is the starting arrangement. Defaults to the inventory's base.
	Root primitives.Arrangement
}

func (h *HillClimb) Name() string { return "hillclimb" }

func (h *HillClimb) Run(ctx context.Context, env Env) (Result, error) {
	return climb(ctx, env, climbParams{
		name:      h.Name(),
		objective: h.Objective,
		budget:    h.Budget,
		capacity:  h.Capacity,
		root:      h.Root,
		strict:    true,
	})
}

type climbParams struct {
	name      string
	objective Objective
	budget    int
	capacity  int
	root      primitives.Arrangement
	// strict only advances on a new overall best.
	strict bool
}

func climb(ctx context.Context, env Env, p climbParams) (Result, error) {
	if err := env.validate(); err != nil {
		return Result{}, err
	}
	if p.budget < 0 {
		return Result{}, fmt.Errorf("%w: budget %d", ErrInvalidConfig, p.budget)
	}

	t := newTracker(p.objective, orDefault(p.capacity, 10))
	s := newSearch(env, p.name, t)
	current := rootOrBase(p.root, env.Inventory)
	if _, err := s.root(current, "root"); err != nil {
		return Result{}, err
	}

	swaps := primitives.StructuredSwaps(env.Inventory.Cubes())
	for generation := 0; s.explored < p.budget; generation++ {
		if err := ctx.Err(); err != nil {
			return s.result(), err
		}

		var next primitives.Arrangement
		nextValue := -1
		for _, sw := range swaps {
			if s.explored >= p.budget {
				break
			}
			sw.Apply(current)
			if key, fresh := s.visit(current); fresh {
				sc := s.evaluate(current)
				f := Found{Arrangement: key, Tag: fmt.Sprintf("gen%d-iter%d", generation, s.explored), Score: sc}
				improved := s.offer(f, s.explored)
				if v := p.objective.Value(sc); (p.strict && improved) || (!p.strict && v > nextValue) {
					next, nextValue = current.Clone(), v
				}
			}
			sw.Apply(current)
		}

		if next == nil {
			env.Logger.Debug().
				Str("strategy", p.name).
				Int("generation", generation).
				Int("explored", s.explored).
				Msg("no-next-arrangement")
			break
		}
		current = next
	}
	return s.result(), nil
}
