package main

import (
	"github.com/amonks/tix/internal/ui"
	"github.com/amonks/tix/ticket"
	"github.com/amonks/tix/tracker"
)

func logHighlighter(prefixLengths map[string]int, highlight func(string, int) string) func(string) string {
	return func(id string) string {
		if id == "" {
			return id
		}
		return highlight(id, ui.PrefixLength(prefixLengths, id))
	}
}

func ticketIDPrefixLengths(tickets []ticket.Ticket) map[string]int {
	return ticket.NewIDIndex(tickets).PrefixLengths()
}

// ticketHighlighter highlights IDs by their shortest unique prefix across
// the whole store.
func ticketHighlighter(svc *tracker.Service) (func(string) string, error) {
	all, err := svc.ListTickets()
	if err != nil {
		return nil, err
	}
	return logHighlighter(ticketIDPrefixLengths(all), ui.HighlightID), nil
}
