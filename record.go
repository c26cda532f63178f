package blocks

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"crosswarped.com/blocks/pkg/primitives"
)

// Record is one entry of a best-of-record list.
type Record struct {
	Primary     int
	TieBreak    int
	Arrangement string
	Tag         string
}

// WriteRecords writes recs as "score,arrangement,tag" lines in the given order.
func WriteRecords(w io.Writer, recs []Record) error {
	bw := bufio.NewWriter(w)
	for _, r := range recs {
		if _, err := fmt.Fprintf(bw, "%d,%s,%s\n", r.Primary, r.Arrangement, r.Tag); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadRecords parses "score,arrangement,tag" lines. Blank lines are skipped.
// The text format carries no tie-break; use Rescore to restore it.
func ReadRecords(r io.Reader) ([]Record, error) {
	var recs []Record
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.SplitN(text, ",", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: want 3 fields, got %d", ErrMalformedRecord, line, len(fields))
		}
		score, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: score %q", ErrMalformedRecord, line, fields[0])
		}
		if _, err := primitives.ParseArrangement(fields[1]); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)
		}
		recs = append(recs, Record{Primary: score, Arrangement: fields[1], Tag: fields[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Rescore recomputes the keys of recs under o with judge, in place.
func Rescore(judge *Judge, o Objective, recs []Record) error {
	for i := range recs {
		a, err := primitives.ParseArrangement(recs[i].Arrangement)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		recs[i].Primary, recs[i].TieBreak = o.Key(judge.Score(a))
	}
	return nil
}

// MergeRecords ranks lists of records together and returns the best capacity
// of them, best first. Arrangements listed more than once are kept once.
func MergeRecords(capacity int, lists ...[]Record) []Record {
	rk := primitives.NewRanking[Record](capacity)
	seen := make(map[string]bool)
	for _, recs := range lists {
		for _, r := range recs {
			if seen[r.Arrangement] {
				continue
			}
			seen[r.Arrangement] = true
			rk.Insert(r.Primary, r.TieBreak, r)
		}
	}
	out := make([]Record, 0, rk.Len())
	for it := range rk.All() {
		out = append(out, it.Payload)
	}
	return out
}
