package ticket

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusInProgress}:   true,
		{StatusPending, StatusCompleted}:    true,
		{StatusPending, StatusArchived}:     true,
		{StatusInProgress, StatusCompleted}: true,
		{StatusInProgress, StatusArchived}:  true,
		{StatusCompleted, StatusArchived}:   true,
	}

	for _, from := range ValidStatuses() {
		for _, to := range ValidStatuses() {
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				got, changed, err := Transition(from, to)

				switch {
				case allowed[[2]Status{from, to}]:
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if got != to || !changed {
						t.Fatalf("Transition = (%s, %v), want (%s, true)", got, changed, to)
					}
				case from == StatusArchived && to == StatusArchived:
					if err != nil {
						t.Fatalf("re-archive should be a no-op, got %v", err)
					}
					if got != StatusArchived || changed {
						t.Fatalf("Transition = (%s, %v), want (archived, false)", got, changed)
					}
				default:
					var transitionErr *TransitionError
					if !errors.As(err, &transitionErr) {
						t.Fatalf("expected *TransitionError, got %v", err)
					}
					if transitionErr.From != from || transitionErr.To != to {
						t.Fatalf("TransitionError = %+v", transitionErr)
					}
					if got != from || changed {
						t.Fatalf("Transition = (%s, %v), want (%s, false)", got, changed, from)
					}
				}
			})
		}
	}
}

func TestTransitionRejectsUnknownTarget(t *testing.T) {
	_, _, err := Transition(StatusPending, "done")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestNextStatuses(t *testing.T) {
	tests := []struct {
		from Status
		want []Status
	}{
		{StatusPending, []Status{StatusInProgress, StatusCompleted, StatusArchived}},
		{StatusInProgress, []Status{StatusCompleted, StatusArchived}},
		{StatusCompleted, []Status{StatusArchived}},
		{StatusArchived, nil},
	}
	for _, tt := range tests {
		if got := NextStatuses(tt.from); !slices.Equal(got, tt.want) {
			t.Errorf("NextStatuses(%s) = %v, want %v", tt.from, got, tt.want)
		}
	}
}
