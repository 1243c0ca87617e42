package ticket

import "time"

// Ticket represents a single trackable work item.
type Ticket struct {
	// ID is a unique identifier (8-char lowercase base32), assigned at creation.
	ID string `json:"id"`

	// Title is the short summary of the ticket.
	Title string `json:"title"`

	// Description provides additional context about the ticket.
	Description string `json:"description"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// Priority is the importance level.
	Priority Priority `json:"priority"`

	// Type categorizes the ticket (feature, bug, task).
	Type Type `json:"type"`

	// Privacy controls where the ticket may be shared.
	Privacy Privacy `json:"privacy"`

	// CreatedAt is when the ticket was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the ticket was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft holds the caller-supplied fields for a new ticket. Zero-valued
// enumerated fields take their defaults.
type Draft struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Type        Type
	Privacy     Privacy
}

// Fields configures a partial update. Nil pointers mean "don't update this
// field". A Status runs through the transition policy.
type Fields struct {
	Title       *string
	Description *string
	Priority    *Priority
	Type        *Type
	Privacy     *Privacy
	Status      *Status
}

// IsEmpty reports whether no field is set.
func (f Fields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil && f.Priority == nil &&
		f.Type == nil && f.Privacy == nil && f.Status == nil
}

// withDefaults fills zero-valued enumerated fields.
func (d Draft) withDefaults() Draft {
	if d.Status == "" {
		d.Status = DefaultStatus
	}
	if d.Priority == "" {
		d.Priority = DefaultPriority
	}
	if d.Type == "" {
		d.Type = DefaultType
	}
	if d.Privacy == "" {
		d.Privacy = DefaultPrivacy
	}
	return d
}

// Ptr returns a pointer to v, for building Fields.
func Ptr[T any](v T) *T {
	return &v
}
