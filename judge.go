package blocks

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"crosswarped.com/blocks/pkg/primitives"
)

const (
	// MinWordLength and MaxWordLength bound the words a Judge accepts.
	MinWordLength = 2
	MaxWordLength = primitives.FacesPerCube
)

// Score is the number of words spellable under each rule for one arrangement.
type Score struct {
	Mono    int
	Rainbow int
}

// Sum returns Mono + Rainbow.
func (s Score) Sum() int {
	return s.Mono + s.Rainbow
}

// need is one distinct letter of a word and how many times the word uses it.
type need struct {
	letter uint8
	count  int8
}

type compiledWord struct {
	text  string
	needs []need
	// letters is the word as alphabet indices.
	letters []uint8
}

// Judge decides which words an arrangement can spell.
//
// A Judge is immutable after construction and safe for concurrent use.
type Judge struct {
	words []compiledWord
}

// NewJudge compiles words. Every word must be 2-6 lowercase letters; repeated
// words are kept once.
func NewJudge(words []string) (*Judge, error) {
	if len(words) == 0 {
		return nil, ErrEmptyWordList
	}
	seen := make(map[string]bool, len(words))
	compiled := make([]compiledWord, 0, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		cw, err := compileWord(w)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, cw)
	}
	return &Judge{words: compiled}, nil
}

func compileWord(w string) (compiledWord, error) {
	if len(w) < MinWordLength || len(w) > MaxWordLength {
		return compiledWord{}, fmt.Errorf("%w: %q has length %d", ErrInvalidWord, w, len(w))
	}
	counts, err := primitives.LettersOf(w)
	if err != nil {
		return compiledWord{}, fmt.Errorf("%w: %q: %v", ErrInvalidWord, w, err)
	}
	cw := compiledWord{text: w, letters: make([]uint8, len(w))}
	for i := 0; i < len(w); i++ {
		cw.letters[i] = w[i] - 'a'
	}
	for i, n := range counts {
		if n > 0 {
			cw.needs = append(cw.needs, need{letter: uint8(i), count: int8(n)})
		}
	}
	return cw, nil
}

// Len returns the number of distinct words.
func (j *Judge) Len() int {
	return len(j.words)
}

// Words returns the words in the order they are indexed by Spellable.
func (j *Judge) Words() []string {
	out := make([]string, len(j.words))
	for i, w := range j.words {
		out[i] = w.text
	}
	return out
}

// faceTable is an arrangement laid out for the two tests: per-face letter
// counts for mono, and per-face letters in cube order for rainbow.
type faceTable struct {
	counts  [primitives.FacesPerCube][primitives.AlphabetSize]int8
	letters [primitives.FacesPerCube][]uint8
}

func newFaceTable(a primitives.Arrangement) *faceTable {
	t := &faceTable{}
	cubes := a.Cubes()
	for f := range primitives.FacesPerCube {
		t.letters[f] = make([]uint8, cubes)
	}
	for i, b := range a {
		f := i % primitives.FacesPerCube
		l := b - 'a'
		t.counts[f][l]++
		t.letters[f][i/primitives.FacesPerCube] = l
	}
	return t
}

// mono returns the first face that holds every letter of w, or -1.
func (t *faceTable) mono(w *compiledWord) int {
	for f := range primitives.FacesPerCube {
		ok := true
		for _, n := range w.needs {
			if t.counts[f][n.letter] < n.count {
				ok = false
				break
			}
		}
		if ok {
			return f
		}
	}
	return -1
}

// rainbow reports whether w can be spelled taking each letter from a
// different cube and a different face.
func (t *faceTable) rainbow(w *compiledWord) bool {
	var remaining [primitives.AlphabetSize]int8
	for _, n := range w.needs {
		remaining[n.letter] = n.count
	}
	return t.rainbowFrom(0, &remaining, len(w.letters), 0)
}

// rainbowFrom tries to place the remaining letters on faces depth..5. At each
// depth it either takes one letter from an unused cube or skips the face.
// remaining is restored before every return.
func (t *faceTable) rainbowFrom(depth int, remaining *[primitives.AlphabetSize]int8, left int, used uint64) bool {
	if depth == primitives.FacesPerCube {
		return false
	}
	for c, l := range t.letters[depth] {
		bit := uint64(1) << uint(c)
		if remaining[l] == 0 || used&bit != 0 {
			continue
		}
		if left == 1 {
			return true
		}
		remaining[l]--
		ok := t.rainbowFrom(depth+1, remaining, left-1, used|bit)
		remaining[l]++
		if ok {
			return true
		}
	}
	return t.rainbowFrom(depth+1, remaining, left, used)
}

// Score counts the mono and rainbow words of a. a must be well formed with at
// most primitives.MaxCubes cubes, as every arrangement an Inventory accepts
// is; ClassifyMono and ClassifyRainbow check this for single words.
func (j *Judge) Score(a primitives.Arrangement) Score {
	t := newFaceTable(a)
	var s Score
	for i := range j.words {
		w := &j.words[i]
		if t.mono(w) >= 0 {
			s.Mono++
		}
		if t.rainbow(w) {
			s.Rainbow++
		}
	}
	return s
}

// Spellable returns, indexed like Words, which words are mono and which are
// rainbow for a. a must be well formed as for Score.
func (j *Judge) Spellable(a primitives.Arrangement) (mono, rainbow *bitset.BitSet) {
	t := newFaceTable(a)
	mono = bitset.New(uint(len(j.words)))
	rainbow = bitset.New(uint(len(j.words)))
	for i := range j.words {
		w := &j.words[i]
		if t.mono(w) >= 0 {
			mono.Set(uint(i))
		}
		if t.rainbow(w) {
			rainbow.Set(uint(i))
		}
	}
	return mono, rainbow
}

// checkArrangement rejects arrangements the face table cannot hold: a
// length that is not a whole number of cubes, letters outside a-z, or more
// than primitives.MaxCubes cubes.
func checkArrangement(a primitives.Arrangement) error {
	if _, err := primitives.ParseArrangement(string(a)); err != nil {
		return err
	}
	if a.Cubes() > primitives.MaxCubes {
		return fmt.Errorf("%w: %d cubes, at most %d", primitives.ErrInvalidArrangement, a.Cubes(), primitives.MaxCubes)
	}
	return nil
}

// ClassifyMono returns the lowest face whose letters, across all cubes, can
// spell word with each letter used at most once. It fails with
// ErrInvalidWord for a word a Judge would reject and with
// primitives.ErrInvalidArrangement for a malformed arrangement.
func ClassifyMono(word string, a primitives.Arrangement) (face int, ok bool, err error) {
	cw, err := compileWord(word)
	if err != nil {
		return -1, false, err
	}
	if err := checkArrangement(a); err != nil {
		return -1, false, err
	}
	face = newFaceTable(a).mono(&cw)
	return face, face >= 0, nil
}

// ClassifyRainbow reports whether word can be spelled with one letter per
// cube, where the letters come from distinct faces. It fails like
// ClassifyMono.
func ClassifyRainbow(word string, a primitives.Arrangement) (bool, error) {
	cw, err := compileWord(word)
	if err != nil {
		return false, err
	}
	if err := checkArrangement(a); err != nil {
		return false, err
	}
	return newFaceTable(a).rainbow(&cw), nil
}
