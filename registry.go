package blocks

import (
	"fmt"
	"slices"

	"crosswarped.com/blocks/pkg/primitives"
)

// Params configures any strategy built by NewStrategy. Fields a strategy does
// not use are ignored; zero values select each strategy's defaults.
type Params struct {
	Objective Objective
	// Budget is the iteration count for random sampling and annealing, the
	// neighbor budget for the tree searches and the generation count for the
	// genetic algorithm.
	Budget   int
	Capacity int
	Root     primitives.Arrangement

	Frontier int

	Temperature float64
	CoolingRate float64
	ChainedDraw bool

	Population   int
	Elite        int
	CrossedElite int
	CrossedMixed int
	Mutated      int
	Random       int
	Seeds        []Individual

	Offset int
	Prior  map[Objective][]Record
}

var registry = map[string]func(p Params) Strategy{
	"random": func(p Params) Strategy {
		return &RandomSampling{Iterations: p.Budget, Capacity: p.Capacity, Offset: p.Offset, Prior: p.Prior}
	},
	"bestfirst": func(p Params) Strategy {
		return &BestFirst{Objective: p.Objective, Budget: p.Budget, Frontier: p.Frontier, Capacity: p.Capacity, Root: p.Root}
	},
	"greedy": func(p Params) Strategy {
		return &Greedy{Objective: p.Objective, Budget: p.Budget, Capacity: p.Capacity, Root: p.Root}
	},
	"hillclimb": func(p Params) Strategy {
		return &HillClimb{Objective: p.Objective, Budget: p.Budget, Capacity: p.Capacity, Root: p.Root}
	},
	"annealing": func(p Params) Strategy {
		return &Annealing{
			Objective:   p.Objective,
			Iterations:  p.Budget,
			Temperature: p.Temperature,
			CoolingRate: p.CoolingRate,
			Capacity:    p.Capacity,
			Root:        p.Root,
			ChainedDraw: p.ChainedDraw,
		}
	},
	"genetic": func(p Params) Strategy {
		return &Genetic{
			Population:   p.Population,
			Generations:  p.Budget,
			Elite:        p.Elite,
			CrossedElite: p.CrossedElite,
			CrossedMixed: p.CrossedMixed,
			Mutated:      p.Mutated,
			Random:       p.Random,
			Seeds:        p.Seeds,
		}
	},
}

// StrategyNames returns the names NewStrategy accepts, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewStrategy builds the strategy registered under name.
func NewStrategy(name string, p Params) (Strategy, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownStrategy, name, StrategyNames())
	}
	return build(p), nil
}
