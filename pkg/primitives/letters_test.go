package primitives

import (
	"testing"
)

func TestLetters_Add(t *testing.T) {
	var l Letters

	tests := []struct {
		name      string
		char      byte
		wantErr   bool
		wantTotal int
	}{
		{"add 'a'", 'a', false, 1},
		{"add 'b'", 'b', false, 2},
		{"add 'c'", 'c', false, 3},
		{"add 'a' again", 'a', false, 4}, // multiset, so count increases
		{"add out of range low", 'A', true, 4},
		{"add out of range high", '~', true, 4},
		{"add backtick", '`', true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Add(tt.char)
			if (err != nil) != tt.wantErr {
				t.Errorf("Add() error = %v, wantErr %v", err, tt.wantErr)
			}
			if l.Total() != tt.wantTotal {
				t.Errorf("Total() = %d, want %d", l.Total(), tt.wantTotal)
			}
		})
	}

	if l.Count('a') != 2 {
		t.Errorf("Count('a') = %d, want 2", l.Count('a'))
	}
}

func TestLetters_Remove(t *testing.T) {
	l, err := LettersOf("aab")
	if err != nil {
		t.Fatalf("LettersOf() error = %v", err)
	}

	tests := []struct {
		name      string
		char      byte
		want      bool
		wantTotal int
	}{
		{"remove 'a'", 'a', true, 2},
		{"remove 'a' again", 'a', true, 1},
		{"remove 'a' when exhausted", 'a', false, 1},
		{"remove missing 'z'", 'z', false, 1},
		{"remove out of range", '!', false, 1},
		{"remove 'b'", 'b', true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Remove(tt.char); got != tt.want {
				t.Errorf("Remove() = %v, want %v", got, tt.want)
			}
			if l.Total() != tt.wantTotal {
				t.Errorf("Total() = %d, want %d", l.Total(), tt.wantTotal)
			}
		})
	}
}

func TestLetters_Contains(t *testing.T) {
	l, _ := LettersOf("ac")

	tests := []struct {
		name string
		char byte
		want bool
	}{
		{"contains 'a'", 'a', true},
		{"contains 'b'", 'b', false},
		{"contains 'c'", 'c', true},
		{"contains out of range", '{', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Contains(tt.char); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLetters_Covers(t *testing.T) {
	tests := []struct {
		name  string
		have  string
		other string
		want  bool
	}{
		{"empty covers empty", "", "", true},
		{"superset", "aabbc", "abc", true},
		{"needs two of a letter", "abc", "aa", false},
		{"exact", "banana", "nanaba", true},
		{"missing letter", "abc", "d", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			have, _ := LettersOf(tt.have)
			other, _ := LettersOf(tt.other)
			if got := have.Covers(&other); got != tt.want {
				t.Errorf("Covers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLetters_String(t *testing.T) {
	l, err := LettersOf("zebra")
	if err != nil {
		t.Fatalf("LettersOf() error = %v", err)
	}
	if got := l.String(); got != "aberz" {
		t.Errorf("String() = %q, want %q", got, "aberz")
	}

	if _, err := LettersOf("Zebra"); err == nil {
		t.Error("LettersOf() error = nil, want error for uppercase letter")
	}
}
