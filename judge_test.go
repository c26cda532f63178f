package blocks

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosswarped.com/blocks/internal/lexicon"
	"crosswarped.com/blocks/pkg/primitives"
)

func loadWords(t testing.TB) []string {
	words, err := lexicon.LoadFile(t.Context(), "testdata/words.txt", lexicon.Params{})
	if err != nil {
		t.Fatalf("failed to load words file: %v", err)
	}
	return words
}

func newTestEnv(t testing.TB, cubes int) Env {
	words := loadWords(t)
	judge, err := NewJudge(words)
	require.NoError(t, err)
	freq, err := lexicon.Frequencies(words)
	require.NoError(t, err)
	inv, err := primitives.NewInventory(cubes, freq)
	require.NoError(t, err)
	return Env{
		Judge:     judge,
		Inventory: inv,
		// Use a fixed seed for reproducibility.
		Rand: rand.New(rand.NewPCG(42, 1024)),
	}
}

func mustArrangement(t testing.TB, s string) primitives.Arrangement {
	a, err := primitives.ParseArrangement(s)
	require.NoError(t, err)
	return a
}

func TestNewJudge(t *testing.T) {
	_, err := NewJudge(nil)
	require.ErrorIs(t, err, ErrEmptyWordList)

	for _, w := range []string{"a", "toolong", "Cat", "it's"} {
		_, err := NewJudge([]string{"ok", w})
		require.ErrorIs(t, err, ErrInvalidWord, w)
	}

	j, err := NewJudge([]string{"ab", "cd", "ab"})
	require.NoError(t, err)
	assert.Equal(t, 2, j.Len())
	assert.Equal(t, []string{"ab", "cd"}, j.Words())
}

func classifyMono(t *testing.T, word string, a primitives.Arrangement) (int, bool) {
	t.Helper()
	face, ok, err := ClassifyMono(word, a)
	require.NoError(t, err)
	return face, ok
}

func classifyRainbow(t *testing.T, word string, a primitives.Arrangement) bool {
	t.Helper()
	ok, err := ClassifyRainbow(word, a)
	require.NoError(t, err)
	return ok
}

func TestClassifyMono(t *testing.T) {
	// Face 0 holds a (cube 0) and b (cube 1).
	a := mustArrangement(t, "acdefg"+"bhijkl")

	face, ok := classifyMono(t, "ab", a)
	assert.True(t, ok)
	assert.Equal(t, 0, face)

	face, ok = classifyMono(t, "ba", a)
	assert.True(t, ok)
	assert.Equal(t, 0, face)

	// A repeated letter needs two occurrences on the face.
	_, ok = classifyMono(t, "aa", a)
	assert.False(t, ok)

	// a and b on different faces.
	_, ok = classifyMono(t, "ab", mustArrangement(t, "abdefg"+"hijklm"))
	assert.False(t, ok)

	// First matching face wins.
	face, ok = classifyMono(t, "ab", mustArrangement(t, "cabdef"+"gbahij"))
	assert.True(t, ok)
	assert.Equal(t, 1, face)
}

func TestClassifyRainbow(t *testing.T) {
	// The only y (face 0) and the only x (face 1) are both on cube 0.
	sameCube := mustArrangement(t, "yxcdef"+"ghijkl")
	assert.False(t, classifyRainbow(t, "yx", sameCube))

	// Cube 1 offers another x on face 1.
	alternative := mustArrangement(t, "yxcdef"+"gxijkl")
	assert.True(t, classifyRainbow(t, "yx", alternative))

	// Letter order in the word does not matter, only cubes and faces.
	assert.True(t, classifyRainbow(t, "xy", alternative))

	// Same face on two cubes is not a rainbow.
	assert.False(t, classifyRainbow(t, "ag", mustArrangement(t, "abcdef"+"ghijkl")))
	assert.True(t, classifyRainbow(t, "ah", mustArrangement(t, "abcdef"+"ghijkl")))

	// A word may skip faces.
	assert.True(t, classifyRainbow(t, "al", mustArrangement(t, "abcdef"+"ghijkl")))
}

func TestClassify_RejectsBadInput(t *testing.T) {
	a := mustArrangement(t, "abcdef"+"ghijkl")
	for _, w := range []string{"a", "toolong", "Ab", "a-"} {
		_, _, err := ClassifyMono(w, a)
		assert.ErrorIs(t, err, ErrInvalidWord, w)
		_, err = ClassifyRainbow(w, a)
		assert.ErrorIs(t, err, ErrInvalidWord, w)
	}

	tooMany := primitives.Arrangement(strings.Repeat("abcdef", primitives.MaxCubes+1))
	for name, bad := range map[string]primitives.Arrangement{
		"partial cube":   primitives.Arrangement("abcdefg"),
		"upper case":     primitives.Arrangement("ABCDEF"),
		"empty":          nil,
		"too many cubes": tooMany,
	} {
		_, _, err := ClassifyMono("ab", bad)
		assert.ErrorIs(t, err, primitives.ErrInvalidArrangement, name)
		_, err = ClassifyRainbow("ab", bad)
		assert.ErrorIs(t, err, primitives.ErrInvalidArrangement, name)
	}

	// The largest arrangement the cube mask covers is still accepted.
	_, err := ClassifyRainbow("ab", primitives.Arrangement(strings.Repeat("abcdef", primitives.MaxCubes)))
	assert.NoError(t, err)
}

// bruteRainbow tries every assignment of the word's letters to distinct cubes
// and distinct faces.
func bruteRainbow(word string, a primitives.Arrangement) bool {
	var usedCube, usedFace [primitives.MaxCubes]bool
	var place func(k int) bool
	place = func(k int) bool {
		if k == len(word) {
			return true
		}
		for c := range a.Cubes() {
			if usedCube[c] {
				continue
			}
			for f := range primitives.FacesPerCube {
				if usedFace[f] || a.At(c, f) != word[k] {
					continue
				}
				usedCube[c], usedFace[f] = true, true
				ok := place(k + 1)
				usedCube[c], usedFace[f] = false, false
				if ok {
					return true
				}
			}
		}
		return false
	}
	return place(0)
}

func bruteMono(word string, a primitives.Arrangement) bool {
	for f := range primitives.FacesPerCube {
		face, _ := primitives.LettersOf(string(a.Face(f)))
		need, _ := primitives.LettersOf(word)
		if face.Covers(&need) {
			return true
		}
	}
	return false
}

func TestJudge_ScoreMatchesBruteForce(t *testing.T) {
	env := newTestEnv(t, 6)
	words := env.Judge.Words()

	for range 20 {
		a := env.Inventory.Shuffle(env.Rand)
		var want Score
		for _, w := range words {
			if bruteMono(w, a) {
				want.Mono++
			}
			if bruteRainbow(w, a) {
				want.Rainbow++
			}
		}
		assert.Equal(t, want, env.Judge.Score(a), a.String())
	}
}

func TestJudge_Pure(t *testing.T) {
	env := newTestEnv(t, 6)
	a := env.Inventory.Shuffle(env.Rand)
	before := a.String()

	first := env.Judge.Score(a)
	second := env.Judge.Score(a)
	assert.Equal(t, first, second)
	assert.Equal(t, before, a.String())

	for _, w := range env.Judge.Words() {
		f1, ok1 := classifyMono(t, w, a)
		f2, ok2 := classifyMono(t, w, a)
		assert.Equal(t, f1, f2)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, classifyRainbow(t, w, a), classifyRainbow(t, w, a))
	}
	assert.Equal(t, before, a.String())
}

func TestJudge_Spellable(t *testing.T) {
	env := newTestEnv(t, 6)
	a := env.Inventory.Shuffle(env.Rand)
	mono, rainbow := env.Judge.Spellable(a)

	score := env.Judge.Score(a)
	assert.Equal(t, uint(score.Mono), mono.Count())
	assert.Equal(t, uint(score.Rainbow), rainbow.Count())

	for i, w := range env.Judge.Words() {
		_, ok := classifyMono(t, w, a)
		assert.Equal(t, ok, mono.Test(uint(i)), w)
		assert.Equal(t, classifyRainbow(t, w, a), rainbow.Test(uint(i)), w)
	}
}

func BenchmarkJudge_Score(b *testing.B) {
	b.ReportAllocs()

	for _, cubes := range []int{6, 8} {
		env := newTestEnv(b, cubes)
		a := env.Inventory.Shuffle(env.Rand)
		b.Run(fmt.Sprintf("%dcubes", cubes), func(b *testing.B) {
			for b.Loop() {
				env.Judge.Score(a)
			}
		})
	}
}
