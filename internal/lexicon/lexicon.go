// Package lexicon loads word lists and derives letter statistics from them.
package lexicon

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"crosswarped.com/blocks/pkg/primitives"
)

// ErrNoLetters is returned by Frequencies for a list without any letters.
var ErrNoLetters = errors.New("lexicon: no letters to count")

// Params filters the words a loader keeps.
type Params struct {
	ExcludedWords []string
	// MinWordLength defaults to 2.
	MinWordLength *int
	// MaxWordLength defaults to 6.
	MaxWordLength *int
}

type params struct {
	excluded      map[string]bool
	minWordLength int
	maxWordLength int
}

func asParams(p Params) params {
	pp := params{
		excluded:      make(map[string]bool, len(p.ExcludedWords)),
		minWordLength: 2,
		maxWordLength: primitives.FacesPerCube,
	}
	if p.MinWordLength != nil {
		pp.minWordLength = *p.MinWordLength
	}
	if p.MaxWordLength != nil {
		pp.maxWordLength = *p.MaxWordLength
	}
	for _, w := range p.ExcludedWords {
		pp.excluded[normalize(w)] = true
	}
	return pp
}

func normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

// filter returns the normalized words that pass p, first occurrence first.
func (p params) filter(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = normalize(w)
		if w == "" || strings.HasPrefix(w, "#") || seen[w] || p.excluded[w] {
			continue
		}
		if len(w) < p.minWordLength || len(w) > p.maxWordLength || !lettersOnly(w) {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func lettersOnly(w string) bool {
	for i := 0; i < len(w); i++ {
		if primitives.LetterIndex(w[i]) < 0 {
			return false
		}
	}
	return true
}

// Filter applies p to words the same way the loaders do.
func Filter(words []string, p Params) []string {
	return asParams(p).filter(words)
}

// Read loads one word per line from r. Lines starting with '#' are comments.
// Words are lowercased; words outside the length bounds or containing anything
// but a-z are skipped, and repeats are kept once.
func Read(ctx context.Context, r io.Reader, p Params) ([]string, error) {
	var raw []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw = append(raw, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return asParams(p).filter(raw), nil
}

// LoadFile reads the word list at path.
func LoadFile(ctx context.Context, path string, p Params) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words, err := Read(ctx, f, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// Frequencies returns each letter's share of all letters in words.
func Frequencies(words []string) (primitives.Frequencies, error) {
	var counts primitives.Letters
	for _, w := range words {
		for i := 0; i < len(w); i++ {
			// Non-letters were filtered by the loaders; ignore them here too.
			_ = counts.Add(w[i])
		}
	}
	total := counts.Total()
	if total == 0 {
		return primitives.Frequencies{}, ErrNoLetters
	}
	var freq primitives.Frequencies
	for i, n := range counts {
		freq[i] = float64(n) / float64(total)
	}
	return freq, nil
}
