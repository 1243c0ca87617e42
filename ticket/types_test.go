package ticket

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"  Completed ", StatusCompleted, false},
		{"in_progress", StatusInProgress, false},
		{"in-progress", StatusInProgress, false},
		{"ARCHIVED", StatusArchived, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatus) {
					t.Fatalf("ParseStatus(%q) error = %v, want ErrInvalidStatus", tt.input, err)
				}
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseStatus(%q) error = %v, want ErrValidation", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePriorityTypePrivacy(t *testing.T) {
	if got, err := ParsePriority(" HIGH "); err != nil || got != PriorityHigh {
		t.Errorf("ParsePriority = %q, %v", got, err)
	}
	if _, err := ParsePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("ParsePriority(urgent) error = %v", err)
	}

	if got, err := ParseType("Bug"); err != nil || got != TypeBug {
		t.Errorf("ParseType = %q, %v", got, err)
	}
	if _, err := ParseType("chore"); !errors.Is(err, ErrInvalidType) {
		t.Errorf("ParseType(chore) error = %v", err)
	}

	if got, err := ParsePrivacy("local_only"); err != nil || got != PrivacyLocalOnly {
		t.Errorf("ParsePrivacy = %q, %v", got, err)
	}
	if _, err := ParsePrivacy("secret"); !errors.Is(err, ErrInvalidPrivacy) {
		t.Errorf("ParsePrivacy(secret) error = %v", err)
	}
}

func TestInvalidValueMessageListsValidValues(t *testing.T) {
	_, err := ParsePriority("urgent")
	want := `invalid priority: "urgent" (valid: high, medium, low)`
	if err == nil || err.Error() != want {
		t.Fatalf("error = %v, want %q", err, want)
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if validationErr.Field != "priority" || validationErr.Value != "urgent" {
		t.Errorf("ValidationError = %+v", validationErr)
	}
}

func TestUnmarshalRejectsUnknownEnumValues(t *testing.T) {
	var tk Ticket
	err := json.Unmarshal([]byte(`{"id":"abc","title":"x","status":"done"}`), &tk)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	err = json.Unmarshal([]byte(`{"id":"abc","title":"x","privacy":"secret"}`), &tk)
	if !errors.Is(err, ErrInvalidPrivacy) {
		t.Fatalf("expected ErrInvalidPrivacy, got %v", err)
	}
}
