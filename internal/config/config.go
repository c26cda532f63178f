// Package config loads search settings from BLOCKS_* environment variables
// and command-line flags.
package config

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"

	"crosswarped.com/blocks"
	"crosswarped.com/blocks/pkg/primitives"
)

// Config is everything a search run can be configured with.
type Config struct {
	Strategy  string `env:"BLOCKS_STRATEGY"  envDefault:"random"`
	Objective string `env:"BLOCKS_OBJECTIVE" envDefault:"sum"`
	Cubes     int    `env:"BLOCKS_CUBES"     envDefault:"6"`
	Budget    int    `env:"BLOCKS_BUDGET"    envDefault:"10000"`
	Capacity  int    `env:"BLOCKS_CAPACITY"  envDefault:"10"`
	// Root is "base", "random" or an explicit arrangement.
	Root string `env:"BLOCKS_ROOT" envDefault:"base"`

	Frontier int `env:"BLOCKS_FRONTIER" envDefault:"360"`

	Temperature float64 `env:"BLOCKS_TEMPERATURE"  envDefault:"1000"`
	CoolingRate float64 `env:"BLOCKS_COOLING_RATE" envDefault:"0.9999"`
	ChainedDraw bool    `env:"BLOCKS_CHAINED_DRAW"`

	Population   int `env:"BLOCKS_POPULATION"    envDefault:"100"`
	Elite        int `env:"BLOCKS_ELITE"         envDefault:"20"`
	CrossedElite int `env:"BLOCKS_CROSSED_ELITE" envDefault:"60"`
	CrossedMixed int `env:"BLOCKS_CROSSED_MIXED" envDefault:"60"`
	Mutated      int `env:"BLOCKS_MUTATED"       envDefault:"10"`
	Random       int `env:"BLOCKS_RANDOM"        envDefault:"10"`

	// Seed is the base of every worker's random stream; zero picks one from
	// the clock.
	Seed           uint64        `env:"BLOCKS_SEED"`
	Workers        int           `env:"BLOCKS_WORKERS"         envDefault:"1"`
	RecordCapacity int           `env:"BLOCKS_RECORD_CAPACITY" envDefault:"10"`
	Timeout        time.Duration `env:"BLOCKS_TIMEOUT"         envDefault:"10m"`

	WordsFile  string `env:"BLOCKS_WORDS"`
	RecordsDir string `env:"BLOCKS_RECORDS_DIR"`
	DBPath     string `env:"BLOCKS_DB"`

	BigQueryProject  string `env:"BLOCKS_BQ_PROJECT"`
	BigQueryTable    string `env:"BLOCKS_BQ_TABLE"`
	BigQueryLocation string `env:"BLOCKS_BQ_LOCATION" envDefault:"US"`
	WordScope        string `env:"BLOCKS_WORD_SCOPE"`

	OTelEndpoint string `env:"BLOCKS_OTEL_ENDPOINT"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RegisterFlags binds every field to a flag on fs, defaulting to its current
// value, so flags override the environment.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Strategy, "strategy", c.Strategy, fmt.Sprintf("search strategy, one of %v", blocks.StrategyNames()))
	fs.StringVar(&c.Objective, "objective", c.Objective, "objective to maximize: mono, rainbow or sum")
	fs.IntVar(&c.Cubes, "cubes", c.Cubes, "number of cubes")
	fs.IntVar(&c.Budget, "budget", c.Budget, "iterations, unique neighbors or generations, depending on the strategy")
	fs.IntVar(&c.Capacity, "capacity", c.Capacity, "size of each strategy's ranking")
	fs.StringVar(&c.Root, "root", c.Root, `starting arrangement: "base", "random" or an arrangement`)
	fs.IntVar(&c.Frontier, "frontier", c.Frontier, "best-first frontier size")
	fs.Float64Var(&c.Temperature, "temperature", c.Temperature, "annealing start temperature")
	fs.Float64Var(&c.CoolingRate, "cooling", c.CoolingRate, "annealing cooling rate")
	fs.BoolVar(&c.ChainedDraw, "chained-draw", c.ChainedDraw, "annealing accepts worse moves with two chained draws")
	fs.IntVar(&c.Population, "population", c.Population, "genetic population size")
	fs.IntVar(&c.Elite, "elite", c.Elite, "genetic elite size")
	fs.IntVar(&c.CrossedElite, "crossed-elite", c.CrossedElite, "children of two elite parents per generation")
	fs.IntVar(&c.CrossedMixed, "crossed-mixed", c.CrossedMixed, "children of an elite and a non-elite parent per generation")
	fs.IntVar(&c.Mutated, "mutated", c.Mutated, "mutated elites per generation")
	fs.IntVar(&c.Random, "random", c.Random, "fresh random arrangements per generation")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed, 0 for the clock")
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of parallel workers")
	fs.IntVar(&c.RecordCapacity, "record-capacity", c.RecordCapacity, "size of the best-of-record lists")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "overall timeout")
	fs.StringVar(&c.WordsFile, "words", c.WordsFile, "the file to load words from")
	fs.StringVar(&c.RecordsDir, "records", c.RecordsDir, "directory of best-of-record text files")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite best-of-record database")
}

// Validate rejects settings no strategy can run with.
func (c Config) Validate() error {
	if !slices.Contains(blocks.StrategyNames(), c.Strategy) {
		return fmt.Errorf("%w: %q", blocks.ErrUnknownStrategy, c.Strategy)
	}
	if _, err := blocks.ParseObjective(c.Objective); err != nil {
		return err
	}
	switch {
	case c.Cubes < primitives.MinCubes || c.Cubes > primitives.MaxCubes:
		return fmt.Errorf("%w: cubes %d (want %d..%d)", blocks.ErrInvalidConfig, c.Cubes, primitives.MinCubes, primitives.MaxCubes)
	case c.Budget < 0:
		return fmt.Errorf("%w: budget %d", blocks.ErrInvalidConfig, c.Budget)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers %d", blocks.ErrInvalidConfig, c.Workers)
	case c.Capacity < 1 || c.RecordCapacity < 1:
		return fmt.Errorf("%w: capacity %d, record capacity %d", blocks.ErrInvalidConfig, c.Capacity, c.RecordCapacity)
	case c.Temperature <= 0 || c.CoolingRate <= 0 || c.CoolingRate >= 1:
		return fmt.Errorf("%w: temperature %v, cooling rate %v", blocks.ErrInvalidConfig, c.Temperature, c.CoolingRate)
	case c.Elite < 1 || c.Elite > c.Population:
		return fmt.Errorf("%w: elite %d, population %d", blocks.ErrInvalidConfig, c.Elite, c.Population)
	case c.RecordsDir != "" && c.DBPath != "":
		return fmt.Errorf("%w: set at most one of records dir and db", blocks.ErrInvalidConfig)
	}
	return nil
}

// ResolveRoot returns the starting arrangement Root names, nil for the
// inventory's base.
func (c Config) ResolveRoot(inv *primitives.Inventory, rng *rand.Rand) (primitives.Arrangement, error) {
	switch c.Root {
	case "", "base":
		return nil, nil
	case "random":
		return inv.Shuffle(rng), nil
	}
	a, err := primitives.ParseArrangement(c.Root)
	if err != nil {
		return nil, err
	}
	if err := inv.Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Params converts the configuration into strategy parameters. root comes from
// ResolveRoot.
func (c Config) Params(root primitives.Arrangement) (blocks.Params, error) {
	o, err := blocks.ParseObjective(c.Objective)
	if err != nil {
		return blocks.Params{}, err
	}
	return blocks.Params{
		Objective:    o,
		Budget:       c.Budget,
		Capacity:     c.Capacity,
		Root:         root,
		Frontier:     c.Frontier,
		Temperature:  c.Temperature,
		CoolingRate:  c.CoolingRate,
		ChainedDraw:  c.ChainedDraw,
		Population:   c.Population,
		Elite:        c.Elite,
		CrossedElite: c.CrossedElite,
		CrossedMixed: c.CrossedMixed,
		Mutated:      c.Mutated,
		Random:       c.Random,
	}, nil
}
