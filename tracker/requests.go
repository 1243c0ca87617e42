package tracker

import (
	"github.com/amonks/tix/ticket"
	internalstrings "github.com/amonks/tix/internal/strings"
)

// CreateRequest carries the raw input for a new ticket. Blank enumerated
// fields take the service defaults.
type CreateRequest struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Type        string
	Privacy     string
}

// SearchRequest carries raw search input. Blank filters are ignored.
type SearchRequest struct {
	Status   string
	Priority string
	Type     string
	Privacy  string
	Query    string

	// Fields lists the text fields Query applies to ("title",
	// "description"). Empty means both.
	Fields []string

	// Limit caps the number of results. Nil means no limit.
	Limit *int
}

// FieldUpdate changes free-text fields. Nil pointers mean "don't update this
// field".
type FieldUpdate struct {
	Title       *string
	Description *string
}

// UpdateRequest changes any combination of fields in one write. Nil pointers
// mean "don't update this field"; enumerated values are raw input.
type UpdateRequest struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Type        *string
	Privacy     *string
}

func (r CreateRequest) draft(defaults Options) (ticket.Draft, error) {
	draft := ticket.Draft{
		Title:       r.Title,
		Description: r.Description,
		Priority:    defaults.DefaultPriority,
		Type:        defaults.DefaultType,
		Privacy:     defaults.DefaultPrivacy,
	}
	var err error
	if !internalstrings.IsBlank(r.Status) {
		if draft.Status, err = ticket.ParseStatus(r.Status); err != nil {
			return ticket.Draft{}, err
		}
	}
	if !internalstrings.IsBlank(r.Priority) {
		if draft.Priority, err = ticket.ParsePriority(r.Priority); err != nil {
			return ticket.Draft{}, err
		}
	}
	if !internalstrings.IsBlank(r.Type) {
		if draft.Type, err = ticket.ParseType(r.Type); err != nil {
			return ticket.Draft{}, err
		}
	}
	if !internalstrings.IsBlank(r.Privacy) {
		if draft.Privacy, err = ticket.ParsePrivacy(r.Privacy); err != nil {
			return ticket.Draft{}, err
		}
	}
	return draft, nil
}

func (r SearchRequest) criteria() (ticket.Criteria, error) {
	c := ticket.Criteria{Query: r.Query, Limit: r.Limit}
	if !internalstrings.IsBlank(r.Status) {
		status, err := ticket.ParseStatus(r.Status)
		if err != nil {
			return ticket.Criteria{}, err
		}
		c.Status = &status
	}
	if !internalstrings.IsBlank(r.Priority) {
		priority, err := ticket.ParsePriority(r.Priority)
		if err != nil {
			return ticket.Criteria{}, err
		}
		c.Priority = &priority
	}
	if !internalstrings.IsBlank(r.Type) {
		typ, err := ticket.ParseType(r.Type)
		if err != nil {
			return ticket.Criteria{}, err
		}
		c.Type = &typ
	}
	if !internalstrings.IsBlank(r.Privacy) {
		privacy, err := ticket.ParsePrivacy(r.Privacy)
		if err != nil {
			return ticket.Criteria{}, err
		}
		c.Privacy = &privacy
	}
	for _, raw := range r.Fields {
		field, err := ticket.ParseSearchField(raw)
		if err != nil {
			return ticket.Criteria{}, err
		}
		c.Fields = append(c.Fields, field)
	}
	return c, nil
}

func (r UpdateRequest) fields() (ticket.Fields, error) {
	fields := ticket.Fields{Title: r.Title, Description: r.Description}
	if r.Status != nil {
		status, err := ticket.ParseStatus(*r.Status)
		if err != nil {
			return ticket.Fields{}, err
		}
		fields.Status = &status
	}
	if r.Priority != nil {
		priority, err := ticket.ParsePriority(*r.Priority)
		if err != nil {
			return ticket.Fields{}, err
		}
		fields.Priority = &priority
	}
	if r.Type != nil {
		typ, err := ticket.ParseType(*r.Type)
		if err != nil {
			return ticket.Fields{}, err
		}
		fields.Type = &typ
	}
	if r.Privacy != nil {
		privacy, err := ticket.ParsePrivacy(*r.Privacy)
		if err != nil {
			return ticket.Fields{}, err
		}
		fields.Privacy = &privacy
	}
	return fields, nil
}
