package main

import (
	"fmt"
	"strings"
)

func ticketEmptyListMessage(total int, status string, includeAll bool, hasArchived bool) string {
	if total == 0 {
		return "No tickets found."
	}

	status = strings.TrimSpace(status)
	if status != "" {
		return fmt.Sprintf("No tickets found with status %s.", strings.ToLower(status))
	}

	if !includeAll && hasArchived {
		return "No tickets found. Use --all to include archived tickets."
	}

	return "No tickets found."
}
