package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"crosswarped.com/blocks"
	"crosswarped.com/blocks/internal/config"
	"crosswarped.com/blocks/internal/lexicon"
	"crosswarped.com/blocks/internal/runner"
	"crosswarped.com/blocks/internal/store"
	"crosswarped.com/blocks/internal/telemetry"
	"crosswarped.com/blocks/pkg/primitives"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)

	verbose := flag.Bool("v", false, "Log debug events")
	judgeArrangement := flag.String("judge", "", "Score one arrangement, list its words and exit")
	excludedFile := flag.String("excluded", "", "The file to load excluded words from")

	profile := flag.Bool("profile", false, "Profile the search")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid-config")
	}
	log.Debug().Msg(pretty.Sprint(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	shutdown, err := telemetry.Setup(ctx, "blockscli", cfg.OTelEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry-setup")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("telemetry-shutdown")
		}
	}()

	var excluded []string
	if *excludedFile != "" {
		if excluded, err = lexicon.LoadFile(ctx, *excludedFile, lexicon.Params{}); err != nil {
			log.Fatal().Err(err).Msg("load-excluded-words")
		}
	}
	words, err := loadWords(ctx, cfg, excluded)
	if err != nil {
		log.Fatal().Err(err).Msg("load-words")
	}
	log.Info().Str("words", humanize.Comma(int64(len(words)))).Msg("words-loaded")

	judge, inv, err := runner.Prepare(words, cfg.Cubes)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare")
	}
	log.Info().Int("cubes", inv.Cubes()).Str("letters", inv.Letters().String()).Msg("inventory")

	if *judgeArrangement != "" {
		if err := judgeOne(judge, inv, *judgeArrangement); err != nil {
			log.Fatal().Err(err).Msg("judge")
		}
		return
	}

	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			log.Fatal().Err(err).Msg("create-profile-file")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("start-cpu-profile")
		}
		defer pprof.StopCPUProfile()
	}

	if err := search(ctx, cfg, judge, inv); err != nil {
		log.Error().Err(err).Msg("search")
		pprof.StopCPUProfile()
		os.Exit(1)
	}

	if *profile {
		mf, err := os.Create(*memoryProfileFile)
		if err != nil {
			log.Fatal().Err(err).Msg("create-memory-profile-file")
		}
		defer mf.Close()
		if err := pprof.WriteHeapProfile(mf); err != nil {
			log.Warn().Err(err).Msg("write-heap-profile")
		}
	}
}

func loadWords(ctx context.Context, cfg config.Config, excluded []string) ([]string, error) {
	p := lexicon.Params{ExcludedWords: excluded}
	switch {
	case cfg.WordsFile != "":
		return lexicon.LoadFile(ctx, cfg.WordsFile, p)
	case cfg.WordScope != "":
		return lexicon.LoadBigQuery(ctx, lexicon.BigQueryParams{
			Project:  cfg.BigQueryProject,
			Table:    cfg.BigQueryTable,
			Scope:    cfg.WordScope,
			Location: cfg.BigQueryLocation,
			Params:   p,
		})
	}
	return nil, errors.New("no word source: set -words or BLOCKS_WORD_SCOPE")
}

func judgeOne(judge *blocks.Judge, inv *primitives.Inventory, s string) error {
	a, err := primitives.ParseArrangement(s)
	if err != nil {
		return err
	}
	if err := inv.Validate(a); err != nil {
		log.Warn().Err(err).Msg("arrangement-differs-from-inventory")
	}
	score := judge.Score(a)
	mono, rainbow := judge.Spellable(a)
	words := judge.Words()

	list := func(set interface{ NextSet(uint) (uint, bool) }) string {
		var out []string
		for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
			out = append(out, words[i])
		}
		return strings.Join(out, " ")
	}
	for c := range a.Cubes() {
		fmt.Printf("cube %d: %s\n", c, a[c*primitives.FacesPerCube:(c+1)*primitives.FacesPerCube])
	}
	fmt.Printf("mono (%d): %s\n", score.Mono, list(mono))
	fmt.Printf("rainbow (%d): %s\n", score.Rainbow, list(rainbow))
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (store.Records, func() error, error) {
	switch {
	case cfg.DBPath != "":
		s, err := store.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case cfg.RecordsDir != "":
		return store.Dir(cfg.RecordsDir), func() error { return nil }, nil
	}
	return nil, func() error { return nil }, nil
}

func search(ctx context.Context, cfg config.Config, judge *blocks.Judge, inv *primitives.Inventory) error {
	records, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	prior := make(map[blocks.Objective][]blocks.Record)
	if records != nil {
		for _, o := range blocks.Objectives {
			recs, err := records.Load(ctx, o, cfg.RecordCapacity)
			if err != nil {
				return fmt.Errorf("load %s: %w", o.RecordName(), err)
			}
			if prior[o], err = runner.UsablePrior(judge, inv, o, recs); err != nil {
				return fmt.Errorf("load %s: %w", o.RecordName(), err)
			}
		}
	}

	offset := 0
	sqlite, _ := records.(*store.SQLite)
	if sqlite != nil {
		if offset, err = sqlite.Iterations(ctx, cfg.Strategy); err != nil {
			return err
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	root, err := cfg.ResolveRoot(inv, runner.WorkerRand(seed, -1))
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	params, err := cfg.Params(root)
	if err != nil {
		return err
	}
	if cfg.Strategy == "random" {
		params.Prior = prior
	}

	bar := progressbar.Default(int64(cfg.Workers), cfg.Strategy)
	start := time.Now()
	sum, err := runner.Run(ctx, runner.Params{
		Judge:          judge,
		Inventory:      inv,
		Logger:         log.Logger,
		Workers:        cfg.Workers,
		Seed:           seed,
		RecordCapacity: cfg.RecordCapacity,
		Prior:          prior,
		OnWorkerDone:   func(int, blocks.Result) { _ = bar.Add(1) },
	}, runner.Strategies(cfg.Strategy, params, offset))
	_ = bar.Finish()
	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn().Msg("timed out, keeping partial results")
	} else if err != nil {
		return err
	}

	// ctx may be done by now; what was found is saved regardless.
	saveCtx, cancelSave := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancelSave()

	fmt.Println("--------------------------------")
	fmt.Printf("Explored %s arrangements in %v (seed %d)\n",
		humanize.Comma(int64(sum.Explored)), time.Since(start).Round(time.Millisecond), seed)
	for _, o := range blocks.Objectives {
		recs, ok := sum.Records[o]
		if !ok {
			continue
		}
		fmt.Printf("%s (%s new bests)\n", o.RecordName(), humanize.Comma(int64(len(sum.Updates[o]))))
		if err := blocks.WriteRecords(os.Stdout, recs); err != nil {
			return err
		}
		if records != nil {
			if err := records.Save(saveCtx, o, recs); err != nil {
				return fmt.Errorf("save %s: %w", o.RecordName(), err)
			}
		}
	}
	if sqlite != nil && cfg.Strategy == "random" {
		total, err := sqlite.AddIterations(saveCtx, cfg.Strategy, cfg.Budget*cfg.Workers)
		if err != nil {
			return err
		}
		log.Info().Str("total", humanize.Comma(int64(total))).Msg("iterations-recorded")
	}
	return nil
}
