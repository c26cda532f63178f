package blocks

import (
	"context"
	"fmt"

	"crosswarped.com/blocks/pkg/primitives"
)

// BestFirst repeatedly expands the best arrangement on its frontier through
// every structured swap, pushing each unseen neighbor back onto the frontier.
type BestFirst struct {
	Objective Objective
	// Budget is the number of unique neighbors to score.
	Budget int
	// Frontier is the capacity of the frontier ranking. Defaults to 360.
	Frontier int
	// Capacity is the size of the output ranking. Defaults to 10.
	Capacity int
	// Root is the starting arrangement. Defaults to the inventory's base.
	Root primitives.Arrangement
}

func (b *BestFirst) Name() string { return "bestfirst" }

func (b *BestFirst) Run(ctx context.Context, env Env) (Result, error) {
	if err := env.validate(); err != nil {
		return Result{}, err
	}
	if b.Budget < 0 {
		return Result{}, fmt.Errorf("%w: budget %d", ErrInvalidConfig, b.Budget)
	}

	t := newTracker(b.Objective, orDefault(b.Capacity, 10))
	s := newSearch(env, b.Name(), t)
	root := rootOrBase(b.Root, env.Inventory)
	rootScore, err := s.root(root, "root")
	if err != nil {
		return Result{}, err
	}

	frontier := primitives.NewRanking[Found](orDefault(b.Frontier, 360))
	p, tb := b.Objective.Key(rootScore)
	frontier.Insert(p, tb, Found{Arrangement: root.String(), Tag: "root", Score: rootScore})

	swaps := primitives.StructuredSwaps(env.Inventory.Cubes())
	for generation := 0; s.explored < b.Budget && !frontier.IsEmpty(); generation++ {
		if err := ctx.Err(); err != nil {
			return s.result(), err
		}
		parent := primitives.Arrangement(frontier.Pop().Payload.Arrangement)
		for _, sw := range swaps {
			if s.explored >= b.Budget {
				break
			}
			sw.Apply(parent)
			if key, fresh := s.visit(parent); fresh {
				sc := s.evaluate(parent)
				f := Found{Arrangement: key, Tag: fmt.Sprintf("gen%d-iter%d", generation, s.explored), Score: sc}
				p, tb := b.Objective.Key(sc)
				frontier.Insert(p, tb, f)
				s.offer(f, s.explored)
			}
			sw.Apply(parent)
		}
	}
	return s.result(), nil
}
