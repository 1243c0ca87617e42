package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/tix/internal/markdown"
	"github.com/amonks/tix/internal/ui"
	"github.com/amonks/tix/ticket"
)

const (
	ticketDetailLineWidth = 80
	ticketDetailIndent    = 2
	detailTimeLayout      = "2006-01-02 15:04:05"
)

// formatTicketDetail renders every field of a ticket.
func formatTicketDetail(t ticket.Ticket, highlight func(string) string, now time.Time) string {
	var b strings.Builder
	open := t.Status == ticket.StatusPending || t.Status == ticket.StatusInProgress

	fmt.Fprintf(&b, "%s       %s\n", ui.Label("ID:"), highlight(t.ID))
	fmt.Fprintf(&b, "%s    %s\n", ui.Label("Title:"), t.Title)
	fmt.Fprintf(&b, "%s   %s\n", ui.Label("Status:"), ui.Status(t.Status))
	fmt.Fprintf(&b, "%s     %s\n", ui.Label("Next:"), formatNextStatuses(t.Status))
	fmt.Fprintf(&b, "%s %s\n", ui.Label("Priority:"), ui.Priority(t.Priority))
	fmt.Fprintf(&b, "%s     %s\n", ui.Label("Type:"), t.Type)
	fmt.Fprintf(&b, "%s  %s\n", ui.Label("Privacy:"), t.Privacy)
	fmt.Fprintf(&b, "%s  %s (%s)\n", ui.Label("Created:"), t.CreatedAt.Local().Format(detailTimeLayout), ui.FormatTimeAgo(t.CreatedAt, now))
	fmt.Fprintf(&b, "%s  %s (%s)\n", ui.Label("Updated:"), t.UpdatedAt.Local().Format(detailTimeLayout), ui.FormatTimeAgo(t.UpdatedAt, now))
	fmt.Fprintf(&b, "%s %s\n", ui.Label("Open for:"), ui.FormatOpenFor(t.CreatedAt, t.UpdatedAt, open, now))
	fmt.Fprintf(&b, "\n%s\n%s\n", ui.Label("Description:"), formatTicketDescription(t.Description))
	return b.String()
}

// formatNextStatuses lists the statuses a ticket may move to.
func formatNextStatuses(status ticket.Status) string {
	next := ticket.NextStatuses(status)
	if len(next) == 0 {
		return ui.Muted("-")
	}
	parts := make([]string, 0, len(next))
	for _, s := range next {
		parts = append(parts, ui.Status(s))
	}
	return strings.Join(parts, ", ")
}

func formatTicketDescription(value string) string {
	rendered := markdown.SafeRender(ticketDetailLineWidth, ticketDetailIndent, []byte(value))
	if rendered == nil {
		return strings.Repeat(" ", ticketDetailIndent) + ui.Muted("-")
	}
	return string(rendered)
}
