package primitives

import (
	"math/rand/v2"
	"testing"
)

func TestStructuredSwaps_Count(t *testing.T) {
	tests := []struct {
		cubes int
		want  int
	}{
		{5, 75 + 60},
		{6, 90 + 90},
		{7, 105 + 126},
	}

	for _, tt := range tests {
		if got := len(StructuredSwaps(tt.cubes)); got != tt.want {
			t.Errorf("len(StructuredSwaps(%d)) = %d, want %d", tt.cubes, got, tt.want)
		}
	}
}

func TestStructuredSwaps_Shape(t *testing.T) {
	swaps := StructuredSwaps(6)

	seen := make(map[Swap]bool)
	for k, s := range swaps {
		if s.I >= s.J {
			t.Errorf("swap %d = %+v, want I < J", k, s)
		}
		if seen[s] {
			t.Errorf("swap %d = %+v is duplicated", k, s)
		}
		seen[s] = true

		sameCube := s.I/FacesPerCube == s.J/FacesPerCube
		sameFace := s.I%FacesPerCube == s.J%FacesPerCube
		if k < 90 && !sameCube {
			t.Errorf("swap %d = %+v, want within-cube", k, s)
		}
		if k >= 90 && !sameFace {
			t.Errorf("swap %d = %+v, want within-face", k, s)
		}
	}

	if swaps[0] != (Swap{0, 1}) || swaps[89] != (Swap{34, 35}) {
		t.Errorf("within-cube bounds = %+v..%+v", swaps[0], swaps[89])
	}
	if swaps[90] != (Swap{0, 6}) || swaps[179] != (Swap{29, 35}) {
		t.Errorf("within-face bounds = %+v..%+v", swaps[90], swaps[179])
	}
}

func TestSwaps_PreserveLetters(t *testing.T) {
	inv, err := NewInventory(6, skewedFrequencies())
	if err != nil {
		t.Fatalf("NewInventory() error = %v", err)
	}
	rng := rand.New(rand.NewPCG(42, 1024))
	a := inv.Shuffle(rng)

	for _, s := range StructuredSwaps(6) {
		s.Apply(a)
		if err := inv.Validate(a); err != nil {
			t.Fatalf("after %+v: %v", s, err)
		}
	}
	for range 1000 {
		s := RandomSwap(rng, len(a))
		if s.I == s.J {
			t.Fatalf("RandomSwap() = %+v, want distinct slots", s)
		}
		if s.I < 0 || s.J < 0 || s.I >= len(a) || s.J >= len(a) {
			t.Fatalf("RandomSwap() = %+v out of range", s)
		}
		s.Apply(a)
		if err := inv.Validate(a); err != nil {
			t.Fatalf("after %+v: %v", s, err)
		}
	}
}
