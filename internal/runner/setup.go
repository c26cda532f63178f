package runner

import (
	"fmt"

	"crosswarped.com/blocks"
	"crosswarped.com/blocks/internal/lexicon"
	"crosswarped.com/blocks/pkg/primitives"
)

// Prepare builds the judge for words and the inventory for cubes from the
// words' letter frequencies.
func Prepare(words []string, cubes int) (*blocks.Judge, *primitives.Inventory, error) {
	judge, err := blocks.NewJudge(words)
	if err != nil {
		return nil, nil, err
	}
	freq, err := lexicon.Frequencies(words)
	if err != nil {
		return nil, nil, err
	}
	inv, err := primitives.NewInventory(cubes, freq)
	if err != nil {
		return nil, nil, err
	}
	return judge, inv, nil
}

// Strategies returns a factory for Run building the named strategy for each
// worker. Random sampling workers number their iterations after offset and
// after each other, so tags stay unique across workers and runs.
func Strategies(name string, p blocks.Params, offset int) func(worker int) (blocks.Strategy, error) {
	return func(worker int) (blocks.Strategy, error) {
		wp := p
		wp.Offset = offset + worker*p.Budget
		return blocks.NewStrategy(name, wp)
	}
}

// UsablePrior rescores prior records for judge and drops those that do not
// fit inv, e.g. because they were found with another cube count.
func UsablePrior(judge *blocks.Judge, inv *primitives.Inventory, o blocks.Objective, recs []blocks.Record) ([]blocks.Record, error) {
	var out []blocks.Record
	for _, r := range recs {
		a, err := primitives.ParseArrangement(r.Arrangement)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", blocks.ErrMalformedRecord, err)
		}
		if inv.Validate(a) != nil {
			continue
		}
		out = append(out, r)
	}
	if err := blocks.Rescore(judge, o, out); err != nil {
		return nil, err
	}
	return out, nil
}
