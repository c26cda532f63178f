package blocks

import (
	"context"
	"fmt"
	"strconv"

	"crosswarped.com/blocks/pkg/primitives"
)

// RandomSampling scores uniformly shuffled arrangements and keeps the best of
// each objective.
type RandomSampling struct {
	// Iterations is the number of arrangements drawn.
	Iterations int
	// Capacity is the size of each objective's ranking. Defaults to 10.
	Capacity int
	// Offset is the number of iterations earlier runs already performed. Tags
	// and updates are numbered from Offset+1 so runs can be accumulated.
	Offset int
	// Prior seeds each objective's ranking with an earlier best-of-record.
	Prior map[Objective][]Record
}

func (r *RandomSampling) Name() string { return "random" }

func (r *RandomSampling) Run(ctx context.Context, env Env) (Result, error) {
	if err := env.validate(); err != nil {
		return Result{}, err
	}
	if r.Iterations < 0 || r.Offset < 0 {
		return Result{}, fmt.Errorf("%w: iterations %d, offset %d", ErrInvalidConfig, r.Iterations, r.Offset)
	}

	capacity := orDefault(r.Capacity, 10)
	trackers := make([]*tracker, len(Objectives))
	for i, o := range Objectives {
		trackers[i] = newTracker(o, capacity)
	}
	s := newSearch(env, r.Name(), trackers...)

	for _, t := range trackers {
		for _, rec := range r.Prior[t.objective] {
			a, err := primitives.ParseArrangement(rec.Arrangement)
			if err != nil {
				return Result{}, fmt.Errorf("prior %s: %w", t.objective.RecordName(), err)
			}
			if err := env.Inventory.Validate(a); err != nil {
				return Result{}, fmt.Errorf("prior %s: %w", t.objective.RecordName(), err)
			}
			s.visit(a)
			t.seed(Found{Arrangement: rec.Arrangement, Tag: rec.Tag, Score: env.Judge.Score(a)})
		}
	}

	for i := 1; i <= r.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return s.result(), err
		}
		a := env.Inventory.Shuffle(env.Rand)
		key, fresh := s.visit(a)
		if !fresh {
			continue
		}
		at := r.Offset + i
		s.offer(Found{Arrangement: key, Tag: strconv.Itoa(at), Score: s.evaluate(a)}, at)
	}
	return s.result(), nil
}
