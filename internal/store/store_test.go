package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosswarped.com/blocks"
)

var sample = []blocks.Record{
	{Primary: 40, TieBreak: 12, Arrangement: "abcdefghijkl", Tag: "gen3-iter120"},
	{Primary: 38, TieBreak: 15, Arrangement: "lkjihgfedcba", Tag: "P17"},
	{Primary: 38, TieBreak: 9, Arrangement: "ghijklabcdef", Tag: "g2c"},
}

func openTempStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(t.Context(), filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(t.Context(), " ")
	require.Error(t, err)
}

func TestSQLite_SaveLoad(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := t.Context()

	got, err := s.Load(ctx, blocks.ObjectiveMono, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Save(ctx, blocks.ObjectiveMono, sample))
	got, err = s.Load(ctx, blocks.ObjectiveMono, 0)
	require.NoError(t, err)
	assert.Equal(t, sample, got)

	got, err = s.Load(ctx, blocks.ObjectiveMono, 2)
	require.NoError(t, err)
	assert.Equal(t, sample[:2], got)

	// Objectives are stored separately.
	got, err = s.Load(ctx, blocks.ObjectiveSum, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Save replaces.
	require.NoError(t, s.Save(ctx, blocks.ObjectiveMono, sample[2:]))
	got, err = s.Load(ctx, blocks.ObjectiveMono, 0)
	require.NoError(t, err)
	assert.Equal(t, sample[2:], got)
}

func TestSQLite_Iterations(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := t.Context()

	n, err := s.Iterations(ctx, "random")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = s.AddIterations(ctx, "random", 1000)
	require.NoError(t, err)
	assert.Equal(t, 1000, n)

	n, err = s.AddIterations(ctx, "random", 500)
	require.NoError(t, err)
	assert.Equal(t, 1500, n)

	n, err = s.Iterations(ctx, "random")
	require.NoError(t, err)
	assert.Equal(t, 1500, n)
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "records.db")
	s, err := Open(t.Context(), path)
	require.NoError(t, err)
	require.NoError(t, s.Save(t.Context(), blocks.ObjectiveRainbow, sample))
	require.NoError(t, s.Close())

	s, err = Open(t.Context(), path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load(t.Context(), blocks.ObjectiveRainbow, 0)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestExtractUpMigration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\nUP\n", extractUpMigration("-- +migrate Up\nUP\n-- +migrate Down\nDOWN\n"))
	assert.Equal(t, "\nUP\n", extractUpMigration("-- +migrate Up\nUP\n"))
	assert.Equal(t, "PLAIN", extractUpMigration("PLAIN"))
}

func TestDir_SaveLoad(t *testing.T) {
	t.Parallel()

	d := Dir(filepath.Join(t.TempDir(), "records"))
	ctx := t.Context()

	got, err := d.Load(ctx, blocks.ObjectiveSum, 0)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, d.Save(ctx, blocks.ObjectiveSum, sample))

	content, err := os.ReadFile(filepath.Join(string(d), "sum_max.txt"))
	require.NoError(t, err)
	assert.Equal(t, "40,abcdefghijkl,gen3-iter120\n38,lkjihgfedcba,P17\n38,ghijklabcdef,g2c\n", string(content))

	got, err = d.Load(ctx, blocks.ObjectiveSum, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sample[1].Arrangement, got[1].Arrangement)
	assert.Zero(t, got[1].TieBreak)

	entries, err := os.ReadDir(string(d))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestDir_LoadMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mono_max.txt"), []byte("oops\n"), 0o644))
	_, err := Dir(dir).Load(t.Context(), blocks.ObjectiveMono, 0)
	require.ErrorIs(t, err, blocks.ErrMalformedRecord)
}
