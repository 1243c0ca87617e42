// Package ticket implements the ticket domain for tix: the entity and its
// enumerated fields, the status transition policy, search and statistics over
// a collection, and a file-backed repository that keeps the whole collection
// in one JSON document.
//
// The public API mirrors the repository contract:
//   - Create, GetByID, GetAll, Update, UpdateStatus, Delete for the lifecycle
//   - Search and Stats for querying
//   - GuardReport for detecting and recovering a corrupted store file
package ticket

import (
	"strings"

	internalstrings "github.com/amonks/tix/internal/strings"
	"github.com/amonks/tix/internal/validation"
)

// Status represents the lifecycle state of a ticket.
type Status string

const (
	// StatusPending indicates the ticket has not been started.
	StatusPending Status = "pending"

	// StatusInProgress indicates the ticket is being worked on.
	StatusInProgress Status = "in_progress"

	// StatusCompleted indicates the work is finished.
	StatusCompleted Status = "completed"

	// StatusArchived indicates the ticket is retired. It is terminal.
	StatusArchived Status = "archived"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusArchived}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// ParseStatus converts user input into a Status. Matching ignores case and
// surrounding whitespace, and accepts "in-progress" for "in_progress".
func ParseStatus(value string) (Status, error) {
	normalized := Status(strings.ReplaceAll(internalstrings.NormalizeLowerTrimSpace(value), "-", "_"))
	if !normalized.IsValid() {
		return "", invalidValue("status", value, ErrInvalidStatus, ValidStatuses())
	}
	return normalized, nil
}

// UnmarshalText rejects values outside the enumeration.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Priority represents the importance of a ticket.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium" // default
	PriorityLow    Priority = "low"
)

// ValidPriorities returns all valid priority values, most important first.
func ValidPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// ParsePriority converts user input into a Priority.
func ParsePriority(value string) (Priority, error) {
	normalized := Priority(internalstrings.NormalizeLowerTrimSpace(value))
	if !normalized.IsValid() {
		return "", invalidValue("priority", value, ErrInvalidPriority, ValidPriorities())
	}
	return normalized, nil
}

// UnmarshalText rejects values outside the enumeration.
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Type categorizes a ticket.
type Type string

const (
	TypeFeature Type = "feature"
	TypeBug     Type = "bug"
	TypeTask    Type = "task" // default
)

// ValidTypes returns all valid ticket type values.
func ValidTypes() []Type {
	return []Type{TypeFeature, TypeBug, TypeTask}
}

// IsValid returns true if the type is a known valid value.
func (t Type) IsValid() bool {
	for _, valid := range ValidTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// ParseType converts user input into a Type.
func ParseType(value string) (Type, error) {
	normalized := Type(internalstrings.NormalizeLowerTrimSpace(value))
	if !normalized.IsValid() {
		return "", invalidValue("type", value, ErrInvalidType, ValidTypes())
	}
	return normalized, nil
}

// UnmarshalText rejects values outside the enumeration.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Privacy controls where a ticket may be shared.
type Privacy string

const (
	// PrivacyLocalOnly tickets never leave this machine.
	PrivacyLocalOnly Privacy = "local-only"

	// PrivacyShareable tickets may be shared with collaborators.
	PrivacyShareable Privacy = "shareable"

	// PrivacyPublic tickets may be published.
	PrivacyPublic Privacy = "public"
)

// ValidPrivacies returns all valid privacy values.
func ValidPrivacies() []Privacy {
	return []Privacy{PrivacyLocalOnly, PrivacyShareable, PrivacyPublic}
}

// IsValid returns true if the privacy is a known valid value.
func (p Privacy) IsValid() bool {
	for _, valid := range ValidPrivacies() {
		if p == valid {
			return true
		}
	}
	return false
}

// ParsePrivacy converts user input into a Privacy. "local_only" is accepted
// for "local-only".
func ParsePrivacy(value string) (Privacy, error) {
	normalized := Privacy(strings.ReplaceAll(internalstrings.NormalizeLowerTrimSpace(value), "_", "-"))
	if !normalized.IsValid() {
		return "", invalidValue("privacy", value, ErrInvalidPrivacy, ValidPrivacies())
	}
	return normalized, nil
}

// UnmarshalText rejects values outside the enumeration.
func (p *Privacy) UnmarshalText(text []byte) error {
	parsed, err := ParsePrivacy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Default field values for new tickets.
const (
	DefaultStatus   = StatusPending
	DefaultPriority = PriorityMedium
	DefaultType     = TypeTask
	DefaultPrivacy  = PrivacyLocalOnly
)

// DefaultMaxTitleLength is the title length bound, in characters, used when
// none is configured.
const DefaultMaxTitleLength = 500

func invalidValue[T ~string](field, value string, base error, valid []T) error {
	return &ValidationError{
		Field: field,
		Value: value,
		Err:   validation.FormatInvalidValueError(base, T(value), valid),
	}
}
