package primitives

import "fmt"

const (
	// AlphabetSize is the number of distinct letters an arrangement may hold.
	AlphabetSize = 26

	// FacesPerCube is the number of letter slots on each cube. A face index
	// doubles as the "color" that groups slots across cubes.
	FacesPerCube = 6
)

// Alphabet is the ordered set of letters, index-addressable.
const Alphabet = "abcdefghijklmnopqrstuvwxyz"

// LetterIndex returns the alphabet index of b, or -1 if b is not a lowercase letter.
func LetterIndex(b byte) int {
	if b < 'a' || b > 'z' {
		return -1
	}
	return int(b - 'a')
}

// Letters is a multiset of lowercase letters.
type Letters [AlphabetSize]int

// LettersOf counts the letters in s.
func LettersOf(s string) (Letters, error) {
	var l Letters
	for i := 0; i < len(s); i++ {
		if err := l.Add(s[i]); err != nil {
			return Letters{}, err
		}
	}
	return l, nil
}

// Add adds one occurrence of b.
func (l *Letters) Add(b byte) error {
	idx := LetterIndex(b)
	if idx < 0 {
		return fmt.Errorf("character %q is out of range", b)
	}
	l[idx]++
	return nil
}

// Remove removes one occurrence of b, reporting whether there was one to remove.
func (l *Letters) Remove(b byte) bool {
	idx := LetterIndex(b)
	if idx < 0 || l[idx] == 0 {
		return false
	}
	l[idx]--
	return true
}

// Contains checks if at least one occurrence of b is in the set.
func (l *Letters) Contains(b byte) bool {
	return l.Count(b) > 0
}

// Count returns the number of occurrences of b.
func (l *Letters) Count(b byte) int {
	idx := LetterIndex(b)
	if idx < 0 {
		return 0
	}
	return l[idx]
}

// Total returns the size of the multiset.
func (l *Letters) Total() int {
	total := 0
	for _, n := range l {
		total += n
	}
	return total
}

// Covers reports whether every letter of other appears in l at least as many times.
func (l *Letters) Covers(other *Letters) bool {
	for i, n := range other {
		if l[i] < n {
			return false
		}
	}
	return true
}

func (l Letters) String() string {
	var b []byte
	for i, n := range l {
		for range n {
			b = append(b, Alphabet[i])
		}
	}
	return string(b)
}
