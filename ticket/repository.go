package ticket

// Repository is the storage-independent contract for the ticket collection.
type Repository interface {
	// Create validates the draft, assigns an ID and timestamps, and stores it.
	Create(draft Draft) (Ticket, error)

	// GetByID returns the ticket with the given ID. A miss is ok == false,
	// not an error.
	GetByID(id string) (Ticket, bool, error)

	// GetAll returns the whole collection in stored order.
	GetAll() ([]Ticket, error)

	// Update merges the non-nil fields into the ticket and refreshes UpdatedAt.
	Update(id string, fields Fields) (Ticket, error)

	// UpdateStatus moves the ticket to target according to Transition.
	UpdateStatus(id string, target Status) (Ticket, error)

	// Delete permanently removes the ticket.
	Delete(id string) error

	// Search returns the tickets matching the criteria in stored order.
	Search(criteria Criteria) ([]Ticket, error)

	// Stats aggregates the current collection.
	Stats() (Stats, error)
}
