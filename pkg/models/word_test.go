package models

import "testing"

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Serendipity", "serendipity"},
		{"  EPHEMERAL  ", "ephemeral"},
		{"déjà vu", "déjà vu"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeWord(tt.in); got != tt.want {
			t.Errorf("NormalizeWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewWordID(t *testing.T) {
	a := NewWordID("Petrichor", "https://example.com/a")
	b := NewWordID("  petrichor ", "https://example.com/a")
	if a != b {
		t.Error("casing and whitespace changed the derived ID")
	}
	if len(a) != 16 {
		t.Errorf("ID length = %d, want 16", len(a))
	}

	if NewWordID("petrichor", "https://example.com/b") == a {
		t.Error("different source pages produced the same ID")
	}
	if NewWordID("zenith", "https://example.com/a") == a {
		t.Error("different words produced the same ID")
	}
}

func TestTouch(t *testing.T) {
	w := &WordEntry{UpdatedAt: 1000}

	w.Touch(2000)
	if w.UpdatedAt != 2000 {
		t.Errorf("UpdatedAt = %d, want 2000", w.UpdatedAt)
	}

	// Clock stepped backwards: the signal still moves forward.
	w.Touch(500)
	if w.UpdatedAt != 2001 {
		t.Errorf("UpdatedAt = %d, want 2001", w.UpdatedAt)
	}

	// Same instant twice also advances.
	w.Touch(2001)
	if w.UpdatedAt != 2002 {
		t.Errorf("UpdatedAt = %d, want 2002", w.UpdatedAt)
	}
}

func TestReviewStateLastReviewedAt(t *testing.T) {
	s := &ReviewState{}
	if s.LastReviewedAt() != 0 {
		t.Error("empty history should report 0")
	}
	s.History = ReviewLog{{ReviewedAt: 100}, {ReviewedAt: 250}}
	if got := s.LastReviewedAt(); got != 250 {
		t.Errorf("LastReviewedAt = %d, want 250", got)
	}
}
