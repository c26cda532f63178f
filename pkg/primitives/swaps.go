package primitives

import "math/rand/v2"

// Swap exchanges the letters at two slots. Swaps never change an
// arrangement's letter multiset.
type Swap struct {
	I, J int
}

// Apply performs the swap on a.
func (s Swap) Apply(a Arrangement) {
	a.Swap(s.I, s.J)
}

// StructuredSwaps returns the physically realizable moves for the given cube
// count: every pair of faces turned within one cube, followed by every pair of
// cubes exchanging the letter on one face. For 6 cubes that is 90+90 moves.
func StructuredSwaps(cubes int) []Swap {
	faces := FacesPerCube
	within := cubes * faces * (faces - 1) / 2
	across := faces * cubes * (cubes - 1) / 2
	swaps := make([]Swap, 0, within+across)

	for c := range cubes {
		for p := 0; p < faces-1; p++ {
			for q := p + 1; q < faces; q++ {
				swaps = append(swaps, Swap{I: c*faces + p, J: c*faces + q})
			}
		}
	}
	for f := range faces {
		for i := 0; i < cubes-1; i++ {
			for j := i + 1; j < cubes; j++ {
				swaps = append(swaps, Swap{I: i*faces + f, J: j*faces + f})
			}
		}
	}
	return swaps
}

// RandomSwap picks two distinct slots out of n uniformly at random.
func RandomSwap(rng *rand.Rand, n int) Swap {
	i := rng.IntN(n)
	j := rng.IntN(n - 1)
	if j >= i {
		j++
	}
	return Swap{I: i, J: j}
}
