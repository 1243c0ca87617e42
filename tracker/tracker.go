// Package tracker holds the ticket use cases. Each operation parses raw
// input, delegates to a ticket.Repository, and returns domain values or
// domain errors unchanged; presentation is left to the caller.
package tracker

import (
	"errors"
	"io"
	"log/slog"

	"github.com/amonks/tix/ticket"
)

// ErrNothingToUpdate is returned when an update names no fields.
var ErrNothingToUpdate = errors.New("nothing to update")

// Options configures a Service.
type Options struct {
	// DefaultPriority applies when a create request leaves priority blank.
	DefaultPriority ticket.Priority

	// DefaultType applies when a create request leaves type blank.
	DefaultType ticket.Type

	// DefaultPrivacy applies when a create request leaves privacy blank.
	DefaultPrivacy ticket.Privacy

	// Logger receives debug records for every change. If nil, nothing is
	// logged.
	Logger *slog.Logger
}

// Service runs ticket use cases against a repository.
type Service struct {
	repo     ticket.Repository
	defaults Options
	logger   *slog.Logger
}

// New returns a Service backed by repo. Zero-valued defaults fall back to
// the ticket package defaults.
func New(repo ticket.Repository, opts Options) *Service {
	if opts.DefaultPriority == "" {
		opts.DefaultPriority = ticket.DefaultPriority
	}
	if opts.DefaultType == "" {
		opts.DefaultType = ticket.DefaultType
	}
	if opts.DefaultPrivacy == "" {
		opts.DefaultPrivacy = ticket.DefaultPrivacy
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, defaults: opts, logger: logger}
}

// CreateTicket stores a new ticket.
func (s *Service) CreateTicket(req CreateRequest) (ticket.Ticket, error) {
	draft, err := req.draft(s.defaults)
	if err != nil {
		return ticket.Ticket{}, err
	}
	created, err := s.repo.Create(draft)
	if err != nil {
		return ticket.Ticket{}, err
	}
	s.logger.Debug("ticket created", "id", created.ID, "title", created.Title)
	return created, nil
}

// GetTicketByID returns the ticket with the exact ID. A miss is ok == false.
func (s *Service) GetTicketByID(id string) (ticket.Ticket, bool, error) {
	return s.repo.GetByID(id)
}

// ListTickets returns every ticket in stored order.
func (s *Service) ListTickets() ([]ticket.Ticket, error) {
	return s.repo.GetAll()
}

// SearchTickets returns the tickets matching the request, in stored order.
func (s *Service) SearchTickets(req SearchRequest) ([]ticket.Ticket, error) {
	criteria, err := req.criteria()
	if err != nil {
		return nil, err
	}
	return s.repo.Search(criteria)
}

// UpdateTicketField changes the title and/or description.
func (s *Service) UpdateTicketField(id string, update FieldUpdate) (ticket.Ticket, error) {
	return s.UpdateTicket(id, UpdateRequest{Title: update.Title, Description: update.Description})
}

// UpdateTicket applies every field in the request in a single write. A status
// goes through the transition policy.
func (s *Service) UpdateTicket(id string, req UpdateRequest) (ticket.Ticket, error) {
	fields, err := req.fields()
	if err != nil {
		return ticket.Ticket{}, err
	}
	if fields.IsEmpty() {
		return ticket.Ticket{}, &ticket.ValidationError{Field: "fields", Err: ErrNothingToUpdate}
	}
	updated, err := s.repo.Update(id, fields)
	if err != nil {
		return ticket.Ticket{}, err
	}
	s.logger.Debug("ticket updated", "id", updated.ID)
	return updated, nil
}

// UpdateTicketPriority sets the priority.
func (s *Service) UpdateTicketPriority(id, priority string) (ticket.Ticket, error) {
	return s.UpdateTicket(id, UpdateRequest{Priority: &priority})
}

// UpdateTicketType sets the type.
func (s *Service) UpdateTicketType(id, typ string) (ticket.Ticket, error) {
	return s.UpdateTicket(id, UpdateRequest{Type: &typ})
}

// UpdateTicketPrivacy sets the privacy.
func (s *Service) UpdateTicketPrivacy(id, privacy string) (ticket.Ticket, error) {
	return s.UpdateTicket(id, UpdateRequest{Privacy: &privacy})
}

// UpdateTicketStatus moves the ticket to status according to the transition
// policy.
func (s *Service) UpdateTicketStatus(id, status string) (ticket.Ticket, error) {
	target, err := ticket.ParseStatus(status)
	if err != nil {
		return ticket.Ticket{}, err
	}
	return s.transition(id, target)
}

// StartTicket moves a pending ticket to in_progress.
func (s *Service) StartTicket(id string) (ticket.Ticket, error) {
	return s.transition(id, ticket.StatusInProgress)
}

// CompleteTicket marks a pending or in-progress ticket completed.
func (s *Service) CompleteTicket(id string) (ticket.Ticket, error) {
	return s.transition(id, ticket.StatusCompleted)
}

// ArchiveTicket retires a ticket. Archiving an archived ticket succeeds and
// changes nothing.
func (s *Service) ArchiveTicket(id string) (ticket.Ticket, error) {
	return s.transition(id, ticket.StatusArchived)
}

func (s *Service) transition(id string, target ticket.Status) (ticket.Ticket, error) {
	updated, err := s.repo.UpdateStatus(id, target)
	if err != nil {
		return ticket.Ticket{}, err
	}
	s.logger.Debug("ticket status changed", "id", updated.ID, "status", updated.Status)
	return updated, nil
}

// DeleteTicket removes a ticket permanently.
func (s *Service) DeleteTicket(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.Debug("ticket deleted", "id", id)
	return nil
}

// GetTicketStats aggregates the collection.
func (s *Service) GetTicketStats() (ticket.Stats, error) {
	return s.repo.Stats()
}

// ResolveID expands a unique ID prefix to the full ticket ID. Matching
// ignores case and an exact match always wins.
func (s *Service) ResolveID(prefix string) (string, error) {
	tickets, err := s.repo.GetAll()
	if err != nil {
		return "", err
	}
	return ticket.NewIDIndex(tickets).Resolve(prefix)
}

// ResolveIDs resolves several prefixes, failing on the first that does not
// resolve.
func (s *Service) ResolveIDs(prefixes []string) ([]string, error) {
	tickets, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	index := ticket.NewIDIndex(tickets)
	resolved := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		id, err := index.Resolve(prefix)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, id)
	}
	return resolved, nil
}
