package primitives

import "fmt"

// Arrangement is an assignment of one letter to every (cube, face) slot.
//
// Slot i belongs to cube i/FacesPerCube and face i%FacesPerCube.
type Arrangement []byte

// ParseArrangement validates s and returns it as an Arrangement.
func ParseArrangement(s string) (Arrangement, error) {
	if len(s) == 0 || len(s)%FacesPerCube != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrInvalidArrangement, len(s), FacesPerCube)
	}
	for i := 0; i < len(s); i++ {
		if LetterIndex(s[i]) < 0 {
			return nil, fmt.Errorf("%w: %q at slot %d", ErrInvalidArrangement, s[i], i)
		}
	}
	return Arrangement(s), nil
}

// Cubes returns the number of cubes the arrangement covers.
func (a Arrangement) Cubes() int {
	return len(a) / FacesPerCube
}

// At returns the letter at the given face of the given cube.
func (a Arrangement) At(cube, face int) byte {
	return a[cube*FacesPerCube+face]
}

// Face returns the letters on face f, one per cube, in cube order.
func (a Arrangement) Face(f int) []byte {
	out := make([]byte, 0, a.Cubes())
	for i := f; i < len(a); i += FacesPerCube {
		out = append(out, a[i])
	}
	return out
}

// Swap exchanges the letters at slots i and j.
func (a Arrangement) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}

// Clone returns an independent copy.
func (a Arrangement) Clone() Arrangement {
	c := make(Arrangement, len(a))
	copy(c, a)
	return c
}

// Letters returns the multiset of letters in the arrangement.
func (a Arrangement) Letters() Letters {
	var l Letters
	for _, b := range a {
		if idx := LetterIndex(b); idx >= 0 {
			l[idx]++
		}
	}
	return l
}

func (a Arrangement) String() string {
	return string(a)
}
