package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"crosswarped.com/blocks"
)

// Records is a best-of-record store.
type Records interface {
	Load(ctx context.Context, o blocks.Objective, limit int) ([]blocks.Record, error)
	Save(ctx context.Context, o blocks.Objective, recs []blocks.Record) error
}

var (
	_ Records = (*SQLite)(nil)
	_ Records = Dir("")
)

// Dir keeps one "score,arrangement,tag" text file per objective, named after
// the objective's record name, e.g. "mono_max.txt".
//
// The text format drops tie-breaks; loaded records report a zero TieBreak
// until they are rescored.
type Dir string

func (d Dir) path(o blocks.Objective) string {
	return filepath.Join(string(d), o.RecordName()+".txt")
}

// Load reads the records for o. A missing file is an empty list.
func (d Dir) Load(ctx context.Context, o blocks.Objective, limit int) ([]blocks.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.path(o))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	recs, err := blocks.ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name(), err)
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Save replaces the file for o. The new contents are written to a temporary
// file first and renamed into place.
func (d Dir) Save(ctx context.Context, o blocks.Objective, recs []blocks.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(string(d), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := blocks.WriteRecords(&buf, recs); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(string(d), ".records-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), d.path(o))
}
