package primitives

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

const (
	// MinCubes is the smallest cube count with room for every letter.
	MinCubes = 5

	// MaxCubes bounds the cube count so that cube usage fits in a uint64 mask.
	MaxCubes = 64

	frequencyTolerance = 1e-6
)

// Frequencies maps each letter (by alphabet index) to its share of the corpus.
type Frequencies [AlphabetSize]float64

// Inventory is the fixed multiset of letters to place on the cubes.
//
// It is computed once per run and read-only afterwards.
type Inventory struct {
	cubes   int
	letters Letters
	// order is the alphabet sorted by descending frequency, ties alphabetical.
	order []byte
}

// NewInventory distributes 6*cubes letters across the alphabet.
//
// Every letter gets one slot. The remainder is handed out in rounds: each round
// snapshots what is left and gives each letter, most frequent first,
// round(freq*snapshot) more, half to even, capped at what is left. A round ends
// at the first letter whose share rounds to zero; if that letter is the most
// frequent one, distribution stops. Whatever remains goes out one at a time,
// most frequent first.
func NewInventory(cubes int, freq Frequencies) (*Inventory, error) {
	if cubes < MinCubes || cubes > MaxCubes {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidCubeCount, cubes, MinCubes, MaxCubes)
	}
	sum := 0.0
	for i, f := range freq {
		if f < 0 || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: %c has frequency %v", ErrInvalidFrequencies, Alphabet[i], f)
		}
		sum += f
	}
	if math.Abs(sum-1) > frequencyTolerance {
		return nil, fmt.Errorf("%w: sum is %v", ErrInvalidFrequencies, sum)
	}

	order := []byte(Alphabet)
	slices.SortStableFunc(order, func(a, b byte) int {
		fa, fb := freq[a-'a'], freq[b-'a']
		switch {
		case fa > fb:
			return -1
		case fa < fb:
			return 1
		}
		return 0
	})

	var letters Letters
	for i := range letters {
		letters[i] = 1
	}

	remaining := FacesPerCube*cubes - AlphabetSize
	for done := false; !done; {
		snapshot := remaining
		for i, b := range order {
			if remaining == 0 {
				done = true
				break
			}
			share := int(math.RoundToEven(freq[b-'a'] * float64(snapshot)))
			if share == 0 {
				done = i == 0
				break
			}
			share = min(share, remaining)
			letters[b-'a'] += share
			remaining -= share
		}
	}
	for _, b := range order {
		if remaining == 0 {
			break
		}
		letters[b-'a']++
		remaining--
	}

	return &Inventory{cubes: cubes, letters: letters, order: order}, nil
}

// Cubes returns the cube count the inventory was built for.
func (inv *Inventory) Cubes() int {
	return inv.cubes
}

// Size returns the arrangement length, 6*cubes.
func (inv *Inventory) Size() int {
	return inv.cubes * FacesPerCube
}

// Count returns how many times b must appear.
func (inv *Inventory) Count(b byte) int {
	return inv.letters.Count(b)
}

// Letters returns the required multiset.
func (inv *Inventory) Letters() Letters {
	return inv.letters
}

// Order returns the alphabet sorted by descending frequency.
func (inv *Inventory) Order() []byte {
	return slices.Clone(inv.order)
}

// Base returns the canonical arrangement: letters in descending-frequency
// order, each repeated by its count.
func (inv *Inventory) Base() Arrangement {
	a := make(Arrangement, 0, inv.Size())
	for _, b := range inv.order {
		for range inv.letters[b-'a'] {
			a = append(a, b)
		}
	}
	return a
}

// Shuffle returns a uniformly random rearrangement of the inventory.
func (inv *Inventory) Shuffle(rng *rand.Rand) Arrangement {
	a := inv.Base()
	rng.Shuffle(len(a), a.Swap)
	return a
}

// Validate returns ErrInventoryViolation if a is not a rearrangement of the inventory.
func (inv *Inventory) Validate(a Arrangement) error {
	if len(a) != inv.Size() {
		return fmt.Errorf("%w: length %d, want %d", ErrInventoryViolation, len(a), inv.Size())
	}
	got := a.Letters()
	if got != inv.letters {
		return fmt.Errorf("%w: have %q, want %q", ErrInventoryViolation, got.String(), inv.letters.String())
	}
	return nil
}

// Repair rewrites a in place so that it matches the inventory again.
//
// For every over-represented letter, surplus occurrences are picked at random
// and overwritten with the missing letters in shuffled order. Slots holding
// letters that are not in surplus are never touched.
func (inv *Inventory) Repair(a Arrangement, rng *rand.Rand) error {
	if len(a) != inv.Size() {
		return fmt.Errorf("%w: length %d, want %d", ErrInventoryViolation, len(a), inv.Size())
	}
	have := a.Letters()
	if have == inv.letters {
		return nil
	}

	var missing []byte
	for i, want := range inv.letters {
		for range want - have[i] {
			missing = append(missing, Alphabet[i])
		}
	}

	positions := make([][]int, AlphabetSize)
	for i, b := range a {
		idx := LetterIndex(b)
		if idx < 0 {
			return fmt.Errorf("%w: %q at slot %d", ErrInvalidArrangement, b, i)
		}
		if have[idx] > inv.letters[idx] {
			positions[idx] = append(positions[idx], i)
		}
	}

	var replace []int
	for idx, pos := range positions {
		surplus := have[idx] - inv.letters[idx]
		for range surplus {
			k := rng.IntN(len(pos))
			replace = append(replace, pos[k])
			pos = slices.Delete(pos, k, k+1)
		}
	}

	rng.Shuffle(len(missing), func(i, j int) {
		missing[i], missing[j] = missing[j], missing[i]
	})
	for i, slot := range replace {
		a[slot] = missing[i]
	}
	return inv.Validate(a)
}
