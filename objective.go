package blocks

import (
	"fmt"
	"strings"
)

// Objective selects which count a search maximizes.
type Objective int

const (
	ObjectiveMono Objective = iota
	ObjectiveRainbow
	ObjectiveSum
)

// Objectives lists every objective in record-file order.
var Objectives = []Objective{ObjectiveMono, ObjectiveRainbow, ObjectiveSum}

// ParseObjective accepts "mono", "rainbow" or "sum", with or without the
// "_max" suffix used by record names.
func ParseObjective(s string) (Objective, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "_max") {
	case "mono":
		return ObjectiveMono, nil
	case "rainbow":
		return ObjectiveRainbow, nil
	case "sum", "both":
		return ObjectiveSum, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownObjective, s)
}

func (o Objective) String() string {
	switch o {
	case ObjectiveMono:
		return "mono"
	case ObjectiveRainbow:
		return "rainbow"
	case ObjectiveSum:
		return "sum"
	}
	return fmt.Sprintf("Objective(%d)", int(o))
}

// RecordName is the name of the best-of-record series for o, e.g. "mono_max".
func (o Objective) RecordName() string {
	return o.String() + "_max"
}

// Value returns the count o maximizes.
func (o Objective) Value(s Score) int {
	switch o {
	case ObjectiveMono:
		return s.Mono
	case ObjectiveRainbow:
		return s.Rainbow
	}
	return s.Sum()
}

// Key returns the ranking key for s: the objective value, tie-broken by the
// other rule's count (mono for sum).
func (o Objective) Key(s Score) (primary, tieBreak int) {
	switch o {
	case ObjectiveMono:
		return s.Mono, s.Rainbow
	case ObjectiveRainbow:
		return s.Rainbow, s.Mono
	}
	return s.Sum(), s.Mono
}
