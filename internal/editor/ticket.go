package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/tix/ticket"
	"github.com/amonks/tix/tracker"
)

// TicketData represents the data used to render the TOML template.
type TicketData struct {
	// IsUpdate is true when editing an existing ticket.
	IsUpdate bool
	// ID is the ticket ID (only for updates).
	ID string

	Title    string
	Type     string
	Priority string
	Privacy  string

	// Status is the ticket status (only for updates).
	Status string

	Description string
}

// DefaultCreateData returns TicketData for a new ticket. Empty enumerated
// values fall back to the ticket defaults.
func DefaultCreateData(priority, typ, privacy string) TicketData {
	return TicketData{
		Type:     orDefault(typ, string(ticket.DefaultType)),
		Priority: orDefault(priority, string(ticket.DefaultPriority)),
		Privacy:  orDefault(privacy, string(ticket.DefaultPrivacy)),
	}
}

// DataFromTicket creates TicketData from an existing ticket for editing.
func DataFromTicket(t ticket.Ticket) TicketData {
	return TicketData{
		IsUpdate:    true,
		ID:          t.ID,
		Title:       t.Title,
		Type:        string(t.Type),
		Priority:    string(t.Priority),
		Privacy:     string(t.Privacy),
		Status:      string(t.Status),
		Description: t.Description,
	}
}

var ticketTemplate = template.Must(template.New("ticket").Funcs(template.FuncMap{
	"valid": func(values []string) string { return strings.Join(values, ", ") },
}).Parse(`{{- if .IsUpdate }}# editing {{ .ID }}
{{ end -}}
title = {{ printf "%q" .Title }}
type = {{ printf "%q" .Type }} # {{ valid .Types }}
priority = {{ printf "%q" .Priority }} # {{ valid .Priorities }}
privacy = {{ printf "%q" .Privacy }} # {{ valid .Privacies }}
{{- if .IsUpdate }}
status = {{ printf "%q" .Status }} # {{ valid .Statuses }}
{{- end }}
---
{{ .Description }}
`))

type templateData struct {
	TicketData
	Types      []string
	Priorities []string
	Privacies  []string
	Statuses   []string
}

// RenderTicketTOML renders the ticket data as a TOML string for editing.
func RenderTicketTOML(data TicketData) (string, error) {
	var buf bytes.Buffer
	err := ticketTemplate.Execute(&buf, templateData{
		TicketData: data,
		Types:      enumStrings(ticket.ValidTypes()),
		Priorities: enumStrings(ticket.ValidPriorities()),
		Privacies:  enumStrings(ticket.ValidPrivacies()),
		Statuses:   enumStrings(ticket.ValidStatuses()),
	})
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTicket represents the parsed result from the TOML editor output.
type ParsedTicket struct {
	Title       string  `toml:"title"`
	Type        string  `toml:"type"`
	Priority    string  `toml:"priority"`
	Privacy     string  `toml:"privacy"`
	Status      *string `toml:"status"`
	Description string  `toml:"-"`
}

// ParseTicketTOML parses the TOML content from the editor. Enumerated
// values come back in canonical form.
func ParseTicketTOML(content string) (*ParsedTicket, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedTicket
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Title = ticket.NormalizeTitle(parsed.Title)
	parsed.Description = strings.TrimRight(strings.TrimLeft(body, "\n"), "\n")

	if err := ticket.ValidateTitle(parsed.Title, -1); err != nil {
		return nil, err
	}
	typ, err := ticket.ParseType(parsed.Type)
	if err != nil {
		return nil, err
	}
	priority, err := ticket.ParsePriority(parsed.Priority)
	if err != nil {
		return nil, err
	}
	privacy, err := ticket.ParsePrivacy(parsed.Privacy)
	if err != nil {
		return nil, err
	}
	parsed.Type, parsed.Priority, parsed.Privacy = string(typ), string(priority), string(privacy)
	if parsed.Status != nil {
		status, err := ticket.ParseStatus(*parsed.Status)
		if err != nil {
			return nil, err
		}
		normalized := string(status)
		parsed.Status = &normalized
	}

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

// EditTicketWithData opens the editor with pre-populated data and returns the parsed result.
func EditTicketWithData(data TicketData) (*ParsedTicket, error) {
	content, err := RenderTicketTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "tix-ticket-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTicketTOML(string(edited))
}

// ToCreateRequest converts a ParsedTicket to a tracker.CreateRequest.
func (p *ParsedTicket) ToCreateRequest() tracker.CreateRequest {
	return tracker.CreateRequest{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Type:        p.Type,
		Privacy:     p.Privacy,
	}
}

// ToUpdateRequest converts a ParsedTicket to a tracker.UpdateRequest that
// sets only the fields that differ from original.
func (p *ParsedTicket) ToUpdateRequest(original TicketData) tracker.UpdateRequest {
	var req tracker.UpdateRequest
	req.Title = changed(p.Title, original.Title)
	req.Description = changed(p.Description, strings.TrimRight(original.Description, "\n"))
	req.Type = changed(p.Type, original.Type)
	req.Priority = changed(p.Priority, original.Priority)
	req.Privacy = changed(p.Privacy, original.Privacy)
	if p.Status != nil {
		req.Status = changed(*p.Status, original.Status)
	}
	return req
}

func changed(value, original string) *string {
	if value == original {
		return nil
	}
	return &value
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}
