package blocks

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"crosswarped.com/blocks/pkg/primitives"
)

// Annealing is simulated annealing over random two-slot swaps.
type Annealing struct {
	Objective Objective
	// Iterations is the number of proposals.
	Iterations int
	// Temperature is the starting temperature. Defaults to 1000.
	Temperature float64
	// CoolingRate multiplies the temperature after every proposal. Must be in
	// (0, 1); defaults to 0.9999.
	CoolingRate float64
	// Capacity is the size of the output ranking. Defaults to 10.
	Capacity int
	// Root is the starting arrangement. Defaults to the inventory's base.
	Root primitives.Arrangement
	// ChainedDraw accepts a worse move only when two successive draws u1, u2
	// satisfy u1 < u2 < exp(delta/T), as older runs did. The default is a
	// single draw u < exp(delta/T).
	ChainedDraw bool
}

func (a *Annealing) Name() string { return "annealing" }

func (a *Annealing) Run(ctx context.Context, env Env) (Result, error) {
	if err := env.validate(); err != nil {
		return Result{}, err
	}
	temperature := orDefault(a.Temperature, 1000)
	cooling := orDefault(a.CoolingRate, 0.9999)
	if a.Iterations < 0 || temperature < 0 || cooling <= 0 || cooling >= 1 {
		return Result{}, fmt.Errorf("%w: iterations %d, temperature %v, cooling rate %v",
			ErrInvalidConfig, a.Iterations, temperature, cooling)
	}

	t := newTracker(a.Objective, orDefault(a.Capacity, 10))
	s := newSearch(env, a.Name(), t)
	current := rootOrBase(a.Root, env.Inventory)
	rootScore, err := s.root(current, "P0")
	if err != nil {
		return Result{}, err
	}
	currentValue := a.Objective.Value(rootScore)

	for i := 1; i <= a.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return s.result(), err
		}
		sw := primitives.RandomSwap(env.Rand, len(current))
		sw.Apply(current)
		accepted := false
		if key, fresh := s.visit(current); fresh {
			sc := s.evaluate(current)
			v := a.Objective.Value(sc)
			if accept(env.Rand, v-currentValue, temperature, a.ChainedDraw) {
				accepted = true
				currentValue = v
				s.offer(Found{Arrangement: key, Tag: fmt.Sprintf("P%d", i), Score: sc}, i)
			}
		}
		if !accepted {
			sw.Apply(current)
		}
		temperature *= cooling
	}
	return s.result(), nil
}

// accept is the Metropolis criterion for a move changing the objective by delta.
func accept(rng *rand.Rand, delta int, temperature float64, chained bool) bool {
	if delta > 0 {
		return true
	}
	p := math.Exp(float64(delta) / temperature)
	if chained {
		u1, u2 := rng.Float64(), rng.Float64()
		return u1 < u2 && u2 < p
	}
	return rng.Float64() < p
}
