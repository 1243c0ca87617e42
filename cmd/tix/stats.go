package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amonks/tix/internal/ui"
	"github.com/amonks/tix/ticket"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count tickets by status, priority, type, and privacy",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	format, err := a.format()
	if err != nil {
		return err
	}

	stats, err := a.svc.GetTicketStats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		return encodeJSON(out, stats)
	case formatCompact:
		fmt.Fprintln(out, formatStatsCompact(stats))
		return nil
	}
	fmt.Fprint(out, formatStatsTable(stats))
	return nil
}

func formatStatsTable(stats ticket.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total: %d\n", stats.Total)
	writeBreakdown(&b, "STATUS", ticket.ValidStatuses(), stats.ByStatus)
	writeBreakdown(&b, "PRIORITY", ticket.ValidPriorities(), stats.ByPriority)
	writeBreakdown(&b, "TYPE", ticket.ValidTypes(), stats.ByType)
	writeBreakdown(&b, "PRIVACY", ticket.ValidPrivacies(), stats.ByPrivacy)
	return b.String()
}

func writeBreakdown[T ~string](b *strings.Builder, header string, keys []T, counts map[T]int) {
	builder := ui.NewTableBuilder([]string{header, "COUNT"}, len(keys))
	for _, key := range keys {
		builder.AddRow([]string{string(key), strconv.Itoa(counts[key])})
	}
	b.WriteString("\n")
	b.WriteString(builder.String())
}

func formatStatsCompact(stats ticket.Stats) string {
	parts := []string{"total=" + strconv.Itoa(stats.Total)}
	for _, s := range ticket.ValidStatuses() {
		parts = append(parts, fmt.Sprintf("%s=%d", s, stats.ByStatus[s]))
	}
	return strings.Join(parts, " ")
}
