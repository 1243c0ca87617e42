package validation

import (
	"errors"
	"testing"
)

type level string

const (
	levelHigh level = "high"
	levelLow  level = "low"
)

func TestFormatValidValues(t *testing.T) {
	got := FormatValidValues([]level{levelHigh, levelLow})
	want := "high, low"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatInvalidValueError(t *testing.T) {
	base := errors.New("invalid level")
	err := FormatInvalidValueError(base, level("urgent"), []level{levelHigh, levelLow})
	if !errors.Is(err, base) {
		t.Fatalf("expected error to wrap %v", base)
	}

	want := "invalid level: \"urgent\" (valid: high, low)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
