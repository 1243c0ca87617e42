package ticket

import (
	"fmt"
	"strings"

	internalstrings "github.com/amonks/tix/internal/strings"
	"github.com/amonks/tix/internal/validation"
)

// SearchField names a text field the query is matched against.
type SearchField string

const (
	SearchTitle       SearchField = "title"
	SearchDescription SearchField = "description"
)

// ValidSearchFields returns all searchable text fields.
func ValidSearchFields() []SearchField {
	return []SearchField{SearchTitle, SearchDescription}
}

// ParseSearchField converts user input into a SearchField.
func ParseSearchField(value string) (SearchField, error) {
	normalized := SearchField(internalstrings.NormalizeLowerTrimSpace(value))
	for _, valid := range ValidSearchFields() {
		if normalized == valid {
			return normalized, nil
		}
	}
	return "", &ValidationError{
		Field: "fields",
		Value: value,
		Err:   validation.FormatInvalidValueError(fmt.Errorf("invalid search field"), SearchField(value), ValidSearchFields()),
	}
}

// Criteria configures which tickets Search returns. Every field is optional
// and filters compose with AND.
type Criteria struct {
	// Status filters by exact status match.
	Status *Status

	// Priority filters by exact priority match.
	Priority *Priority

	// Type filters by exact type match.
	Type *Type

	// Privacy filters by exact privacy match.
	Privacy *Privacy

	// Query is a case-insensitive substring matched against Fields.
	Query string

	// Fields lists the text fields Query is matched against; a ticket
	// matches if any of them contains Query. Empty means title and description.
	Fields []SearchField

	// Limit caps the number of results. Nil means no limit; zero returns none.
	Limit *int
}

// Matches reports whether a ticket satisfies every filter in the criteria.
// Limit is not considered.
func (c Criteria) Matches(t Ticket) bool {
	if c.Status != nil && t.Status != *c.Status {
		return false
	}
	if c.Priority != nil && t.Priority != *c.Priority {
		return false
	}
	if c.Type != nil && t.Type != *c.Type {
		return false
	}
	if c.Privacy != nil && t.Privacy != *c.Privacy {
		return false
	}
	if c.Query == "" {
		return true
	}

	query := strings.ToLower(c.Query)
	fields := c.Fields
	if len(fields) == 0 {
		fields = ValidSearchFields()
	}
	for _, field := range fields {
		var text string
		switch field {
		case SearchTitle:
			text = t.Title
		case SearchDescription:
			text = t.Description
		default:
			continue
		}
		if strings.Contains(strings.ToLower(text), query) {
			return true
		}
	}
	return false
}

// Filter returns the tickets matching the criteria, in their given order,
// truncated to the limit.
func Filter(tickets []Ticket, c Criteria) []Ticket {
	result := []Ticket{}
	if c.Limit != nil && *c.Limit <= 0 {
		return result
	}
	for _, t := range tickets {
		if !c.Matches(t) {
			continue
		}
		result = append(result, t)
		if c.Limit != nil && len(result) >= *c.Limit {
			break
		}
	}
	return result
}
