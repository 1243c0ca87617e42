// Package listflags holds flags shared by the ticket listing commands.
package listflags

import (
	"strings"

	"github.com/spf13/cobra"
)

// AddAllFlag adds the shared --all flag to commands that hide archived
// tickets by default.
func AddAllFlag(cmd *cobra.Command, target *bool) {
	if target == nil {
		cmd.Flags().Bool("all", false, "Include archived tickets")
		return
	}

	cmd.Flags().BoolVar(target, "all", false, "Include archived tickets")
}

// HideArchived reports whether a listing should drop archived tickets:
// only when neither --all nor an explicit status filter was given.
func HideArchived(all bool, statusFilter string) bool {
	return !all && strings.TrimSpace(statusFilter) == ""
}
