package ids

import (
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	id := Generate("ticket-123", 8)

	if len(id) != 8 {
		t.Fatalf("expected ID length 8, got %d: %q", len(id), id)
	}

	for _, c := range id {
		if !((c >= 'a' && c <= 'z') || (c >= '2' && c <= '7')) {
			t.Errorf("ID contains invalid character %q: %q", c, id)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	id1 := Generate("ticket-123", 10)
	id2 := Generate("ticket-123", 10)

	if id1 != id2 {
		t.Errorf("same inputs should produce same ID: got %q and %q", id1, id2)
	}
}

func TestGenerateWithTimestamp(t *testing.T) {
	timestamp := time.Date(2024, 3, 2, 9, 12, 0, 0, time.UTC)

	id1 := GenerateWithTimestamp("ticket-123", timestamp, 8)
	id2 := GenerateWithTimestamp("ticket-123", timestamp.Add(time.Nanosecond), 8)
	if id1 == id2 {
		t.Error("different timestamps should produce different IDs")
	}
}

func TestNew_IsRandomized(t *testing.T) {
	timestamp := time.Date(2024, 3, 2, 9, 12, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := New("same title", timestamp, DefaultLength)
		if len(id) != DefaultLength {
			t.Fatalf("expected ID length %d, got %q", DefaultLength, id)
		}
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestMatchPrefixNormalized(t *testing.T) {
	ids := NormalizeUniqueIDs([]string{"abc12345", "ABD99999", "xyz", "xyz1"})

	tests := []struct {
		prefix    string
		match     string
		found     bool
		ambiguous bool
	}{
		{prefix: "abc", match: "abc12345", found: true},
		{prefix: "ABD", match: "abd99999", found: true},
		{prefix: "ab", found: true, ambiguous: true},
		{prefix: "xyz", match: "xyz", found: true},
		{prefix: "q", found: false},
		{prefix: "", found: false},
	}

	for _, tt := range tests {
		match, found, ambiguous := MatchPrefixNormalized(ids, tt.prefix)
		if match != tt.match || found != tt.found || ambiguous != tt.ambiguous {
			t.Errorf("MatchPrefixNormalized(%q) = (%q, %v, %v), want (%q, %v, %v)",
				tt.prefix, match, found, ambiguous, tt.match, tt.found, tt.ambiguous)
		}
	}
}

func TestUniquePrefixLengths(t *testing.T) {
	ids := []string{"2u3iutfd", "2a9k1111", "abc12345"}
	lengths := UniquePrefixLengths(ids)

	if got := lengths["2u3iutfd"]; got != 2 {
		t.Fatalf("expected 2u3iutfd prefix length 2, got %d", got)
	}
	if got := lengths["2a9k1111"]; got != 2 {
		t.Fatalf("expected 2a9k1111 prefix length 2, got %d", got)
	}
	if got := lengths["abc12345"]; got != 1 {
		t.Fatalf("expected abc12345 prefix length 1, got %d", got)
	}
}

func TestUniquePrefixLengthsSkipsDuplicatesAndEmpty(t *testing.T) {
	lengths := UniquePrefixLengths([]string{"abc", "", "ABC"})

	if len(lengths) != 1 {
		t.Fatalf("expected 1 unique ID, got %d", len(lengths))
	}
	if got := lengths["abc"]; got != 1 {
		t.Fatalf("expected abc prefix length 1, got %d", got)
	}
}
