// Package runner fans a strategy out over parallel workers and merges what
// they find into best-of-record lists.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"crosswarped.com/blocks"
	"crosswarped.com/blocks/pkg/primitives"
)

var tracer = otel.Tracer("crosswarped.com/blocks/internal/runner")

// Params configures a parallel run.
type Params struct {
	Judge     *blocks.Judge
	Inventory *primitives.Inventory
	Logger    zerolog.Logger

	// Workers is the number of strategy instances run concurrently.
	Workers int
	// Seed is the base every worker's random stream is derived from.
	Seed uint64
	// RecordCapacity bounds each merged best-of-record list. Defaults to 10.
	RecordCapacity int
	// Prior holds earlier best-of-record lists to merge into. Their keys must
	// be current; see blocks.Rescore.
	Prior map[blocks.Objective][]blocks.Record

	// OnWorkerDone, if set, is called as each worker finishes. It may be called
	// from several goroutines at once.
	OnWorkerDone func(worker int, res blocks.Result)
}

// Summary is the merged outcome of every worker.
type Summary struct {
	// Records holds, per objective, the merged best-of-record list, best first.
	// Objectives no worker tracked keep their prior list.
	Records map[blocks.Objective][]blocks.Record
	// Updates concatenates the workers' update iterations in worker order.
	Updates map[blocks.Objective][]int
	// Explored sums the unique arrangements the workers scored.
	Explored int
	// Results are the raw per-worker results, indexed by worker.
	Results []blocks.Result
}

// Run starts p.Workers strategies built by newStrategy and waits for all of
// them. If ctx ends first, the partial summary is returned with ctx's error.
func Run(ctx context.Context, p Params, newStrategy func(worker int) (blocks.Strategy, error)) (Summary, error) {
	if p.Judge == nil || p.Inventory == nil {
		return Summary{}, fmt.Errorf("%w: runner needs a judge and an inventory", blocks.ErrInvalidConfig)
	}
	if p.Workers < 1 {
		return Summary{}, fmt.Errorf("%w: workers %d", blocks.ErrInvalidConfig, p.Workers)
	}

	strategies := make([]blocks.Strategy, p.Workers)
	for i := range strategies {
		s, err := newStrategy(i)
		if err != nil {
			return Summary{}, fmt.Errorf("worker %d: %w", i, err)
		}
		strategies[i] = s
	}

	ctx, span := tracer.Start(ctx, "runner.Run", trace.WithAttributes(
		attribute.Int("workers", p.Workers),
		attribute.String("strategy", strategies[0].Name()),
	))
	defer span.End()

	results := make([]blocks.Result, p.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			res, err := runWorker(gctx, p, i, s)
			results[i] = res
			if err != nil && !isContextErr(err) {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			if p.OnWorkerDone != nil {
				p.OnWorkerDone(i, res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Summary{}, err
	}

	sum := merge(p, results)
	span.SetAttributes(attribute.Int("explored", sum.Explored))
	p.Logger.Info().
		Int("workers", p.Workers).
		Int("explored", sum.Explored).
		Msg("runner-done")
	return sum, ctx.Err()
}

func runWorker(ctx context.Context, p Params, worker int, s blocks.Strategy) (blocks.Result, error) {
	ctx, span := tracer.Start(ctx, "runner.worker", trace.WithAttributes(
		attribute.Int("worker", worker),
		attribute.String("strategy", s.Name()),
	))
	defer span.End()

	env := blocks.Env{
		Judge:     p.Judge,
		Inventory: p.Inventory,
		Rand:      WorkerRand(p.Seed, worker),
		Logger:    p.Logger.With().Int("worker", worker).Logger(),
	}
	res, err := s.Run(ctx, env)
	span.SetAttributes(attribute.Int("explored", res.Explored))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func merge(p Params, results []blocks.Result) Summary {
	capacity := p.RecordCapacity
	if capacity <= 0 {
		capacity = 10
	}
	sum := Summary{
		Records: make(map[blocks.Objective][]blocks.Record),
		Updates: make(map[blocks.Objective][]int),
		Results: results,
	}
	for _, o := range blocks.Objectives {
		lists := [][]blocks.Record{p.Prior[o]}
		tracked := false
		for _, res := range results {
			if _, ok := res.Rankings[o]; !ok {
				continue
			}
			tracked = true
			lists = append(lists, res.Records(o))
			sum.Updates[o] = append(sum.Updates[o], res.Updates[o]...)
		}
		if tracked || len(p.Prior[o]) > 0 {
			sum.Records[o] = blocks.MergeRecords(capacity, lists...)
		}
	}
	for _, res := range results {
		sum.Explored += res.Explored
	}
	return sum
}

// WorkerRand returns the random stream of one worker. Streams for different
// workers of the same seed are independent.
func WorkerRand(seed uint64, worker int) *rand.Rand {
	s1 := deriveSeed(seed, uint64(worker))
	s2 := deriveSeed(s1, uint64(worker))
	return rand.New(rand.NewPCG(s1, s2))
}

// deriveSeed mixes a parent seed and a stream identifier with a SplitMix64
// finalizer.
func deriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
