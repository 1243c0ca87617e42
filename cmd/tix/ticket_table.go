package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/tix/internal/ui"
	"github.com/amonks/tix/ticket"
)

func formatTicketTable(tickets []ticket.Ticket, highlight func(string) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "PRI", "TYPE", "STATUS", "PRIVACY", "AGE", "TITLE"}, len(tickets))

	for _, t := range tickets {
		builder.AddRow([]string{
			highlight(t.ID),
			ui.Priority(t.Priority),
			string(t.Type),
			ui.Status(t.Status),
			string(t.Privacy),
			ui.FormatTimeAgeShort(t.CreatedAt, now),
			ui.TruncateTableCell(t.Title),
		})
	}

	return builder.String()
}

// formatTicketCompact renders one line per ticket.
func formatTicketCompact(tickets []ticket.Ticket, highlight func(string) string) string {
	var builder strings.Builder
	for _, t := range tickets {
		fmt.Fprintf(&builder, "%s [%s] (%s) %s\n",
			highlight(t.ID), ui.Status(t.Status), ui.Priority(t.Priority), ui.TruncateTableCell(t.Title))
	}
	return builder.String()
}
