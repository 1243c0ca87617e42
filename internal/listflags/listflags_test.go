package listflags

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestAddAllFlag(t *testing.T) {
	var all bool
	cmd := &cobra.Command{Use: "list"}
	AddAllFlag(cmd, &all)

	if err := cmd.Flags().Parse([]string{"--all"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !all {
		t.Fatal("expected --all to set the target")
	}

	bare := &cobra.Command{Use: "list"}
	AddAllFlag(bare, nil)
	if bare.Flags().Lookup("all") == nil {
		t.Fatal("expected --all without a target")
	}
}

func TestHideArchived(t *testing.T) {
	tests := []struct {
		all    bool
		status string
		want   bool
	}{
		{all: false, status: "", want: true},
		{all: true, status: "", want: false},
		{all: false, status: "archived", want: false},
		{all: false, status: "  ", want: true},
	}
	for _, tt := range tests {
		if got := HideArchived(tt.all, tt.status); got != tt.want {
			t.Errorf("HideArchived(%v, %q) = %v, want %v", tt.all, tt.status, got, tt.want)
		}
	}
}
