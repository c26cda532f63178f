package blocks

import (
	"context"
	"fmt"
	"math/rand/v2"

	"crosswarped.com/blocks/pkg/primitives"
)

// Individual is an arrangement injected into a genetic population, with a tag
// naming where it came from.
type Individual struct {
	Arrangement primitives.Arrangement
	Tag         string
}

// Genetic evolves a population ranked by (mono+rainbow, mono).
//
// Each generation keeps the Elite best members unchanged and adds crossed,
// mutated and fresh random offspring; the population ranking then drops
// whatever no longer fits.
type Genetic struct {
	// Population is the population size. Defaults to 100.
	Population int
	// Generations is the number of generations to run.
	Generations int
	// Elite is the number of members carried over unchanged. Defaults to 20.
	Elite int
	// CrossedElite is the number of children of two distinct elite parents.
	CrossedElite int
	// CrossedMixed is the number of children of one elite and one non-elite parent.
	CrossedMixed int
	// Mutated is the number of elite copies with one random swap.
	Mutated int
	// Random is the number of fresh shuffles per generation.
	Random int
	// Seeds are added to the initial population before it is filled with
	// random arrangements.
	Seeds []Individual
}

func (g *Genetic) Name() string { return "genetic" }

func (g *Genetic) validate(env Env) error {
	if g.Population < 2 || g.Elite < 1 || g.Elite > g.Population || g.Generations < 0 ||
		g.CrossedElite < 0 || g.CrossedMixed < 0 || g.Mutated < 0 || g.Random < 0 {
		return fmt.Errorf("%w: population %d, elite %d, generations %d",
			ErrInvalidConfig, g.Population, g.Elite, g.Generations)
	}
	if g.CrossedElite > 0 && g.Elite < 2 {
		return fmt.Errorf("%w: elite crossover needs at least 2 elite members", ErrInvalidConfig)
	}
	if g.CrossedMixed > 0 && g.Elite == g.Population {
		return fmt.Errorf("%w: mixed crossover needs non-elite members", ErrInvalidConfig)
	}
	if len(g.Seeds) > g.Population {
		return fmt.Errorf("%w: %d seeds exceed population %d", ErrInvalidConfig, len(g.Seeds), g.Population)
	}
	for _, seed := range g.Seeds {
		if err := env.Inventory.Validate(seed.Arrangement); err != nil {
			return fmt.Errorf("seed %s: %w", seed.Tag, err)
		}
	}
	return nil
}

func (g *Genetic) Run(ctx context.Context, env Env) (Result, error) {
	if err := env.validate(); err != nil {
		return Result{}, err
	}
	cfg := *g
	cfg.Population = orDefault(cfg.Population, 100)
	cfg.Elite = orDefault(cfg.Elite, 20)
	if err := cfg.validate(env); err != nil {
		return Result{}, err
	}

	population := newTracker(ObjectiveSum, cfg.Population)
	s := newSearch(env, g.Name(), population)

	for _, seed := range cfg.Seeds {
		if key, fresh := s.visit(seed.Arrangement); fresh {
			population.seed(Found{Arrangement: key, Tag: "g0" + seed.Tag, Score: s.evaluate(seed.Arrangement)})
		}
	}
	for range cfg.Population - len(cfg.Seeds) {
		a := env.Inventory.Shuffle(env.Rand)
		if key, fresh := s.visit(a); fresh {
			population.seed(Found{Arrangement: key, Tag: "g0", Score: s.evaluate(a)})
		}
	}

	for generation := range cfg.Generations {
		if err := ctx.Err(); err != nil {
			return s.result(), err
		}

		members := population.ranking.Drain()
		elite := members[:min(cfg.Elite, len(members))]

		children, err := cfg.offspring(env, members, len(elite))
		if err != nil {
			return s.result(), fmt.Errorf("generation %d: %w", generation, err)
		}

		for _, m := range elite {
			population.ranking.Insert(m.Primary, m.TieBreak, m.Payload)
		}
		for _, c := range children {
			if key, fresh := s.visit(c.arrangement); fresh {
				tag := fmt.Sprintf("g%d%c", generation, c.kind)
				s.offer(Found{Arrangement: key, Tag: tag, Score: s.evaluate(c.arrangement)}, generation)
			}
		}
	}
	return s.result(), nil
}

type child struct {
	arrangement primitives.Arrangement
	// kind is 'c' for crossed, 'm' for mutated and 'r' for random.
	kind byte
}

// offspring builds one generation's children from members, best first, whose
// first numElite entries are the elite.
func (g *Genetic) offspring(env Env, members []primitives.Item[Found], numElite int) ([]child, error) {
	parent := func(i int) primitives.Arrangement {
		return primitives.Arrangement(members[i].Payload.Arrangement)
	}
	children := make([]child, 0, g.CrossedElite+g.CrossedMixed+g.Mutated+g.Random)

	if numElite >= 2 {
		for range g.CrossedElite {
			pair := primitives.RandomSwap(env.Rand, numElite)
			c, err := Crossover(env.Inventory, parent(pair.I), parent(pair.J), env.Rand)
			if err != nil {
				return nil, err
			}
			children = append(children, child{arrangement: c, kind: 'c'})
		}
	}
	if rest := len(members) - numElite; numElite > 0 && rest > 0 {
		for i := range g.CrossedMixed {
			c, err := Crossover(env.Inventory, parent(i%numElite), parent(numElite+env.Rand.IntN(rest)), env.Rand)
			if err != nil {
				return nil, err
			}
			children = append(children, child{arrangement: c, kind: 'c'})
		}
	}
	if numElite > 0 {
		for i := range g.Mutated {
			c := parent(i % numElite)
			primitives.RandomSwap(env.Rand, len(c)).Apply(c)
			if err := env.Inventory.Validate(c); err != nil {
				return nil, err
			}
			children = append(children, child{arrangement: c, kind: 'm'})
		}
	}
	for range g.Random {
		children = append(children, child{arrangement: env.Inventory.Shuffle(env.Rand), kind: 'r'})
	}
	return children, nil
}

// Crossover builds a child taking each cube's six letters from p1 or p2 at
// random, then repairs it so its letters match the inventory again.
func Crossover(inv *primitives.Inventory, p1, p2 primitives.Arrangement, rng *rand.Rand) (primitives.Arrangement, error) {
	if len(p1) != inv.Size() || len(p2) != inv.Size() {
		return nil, fmt.Errorf("%w: parents of length %d and %d", primitives.ErrInventoryViolation, len(p1), len(p2))
	}
	c := make(primitives.Arrangement, inv.Size())
	for cube := range inv.Cubes() {
		from := p1
		if rng.IntN(2) == 1 {
			from = p2
		}
		lo := cube * primitives.FacesPerCube
		copy(c[lo:lo+primitives.FacesPerCube], from[lo:lo+primitives.FacesPerCube])
	}
	if err := inv.Repair(c, rng); err != nil {
		return nil, err
	}
	return c, nil
}
