package ui

import (
	"github.com/amonks/tix/ticket"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	statusStyles = map[ticket.Status]lipgloss.Style{
		ticket.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		ticket.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		ticket.StatusCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		ticket.StatusArchived:   mutedStyle,
	}

	priorityStyles = map[ticket.Priority]lipgloss.Style{
		ticket.PriorityHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		ticket.PriorityLow:  mutedStyle,
	}
)

// Status renders a status for terminal output.
func Status(status ticket.Status) string {
	return render(statusStyles[status], string(status))
}

// Priority renders a priority for terminal output.
func Priority(priority ticket.Priority) string {
	return render(priorityStyles[priority], string(priority))
}

// Label renders a field label in detail views.
func Label(label string) string {
	return render(labelStyle, label)
}

// Muted renders secondary text.
func Muted(text string) string {
	return render(mutedStyle, text)
}

func render(style lipgloss.Style, text string) string {
	if !ansiEnabled() {
		return text
	}
	return style.Render(text)
}
