package ticket

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrValidation matches every input validation failure, including
	// illegal status transitions.
	ErrValidation = errors.New("invalid ticket")

	// ErrNotFound is returned when a ticket with the given ID doesn't exist.
	ErrNotFound = errors.New("ticket not found")

	// ErrStorage matches failures reading or writing the store document.
	ErrStorage = errors.New("ticket storage")

	// ErrEmptyTitle is returned when a ticket title is empty after trimming.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a title exceeds the configured maximum.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidStatus is returned when an invalid status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority is returned when an invalid priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidType is returned when an invalid ticket type is provided.
	ErrInvalidType = errors.New("invalid ticket type")

	// ErrInvalidPrivacy is returned when an invalid privacy is provided.
	ErrInvalidPrivacy = errors.New("invalid privacy")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAmbiguousIDPrefix is returned when an ID prefix matches multiple tickets.
	ErrAmbiguousIDPrefix = errors.New("ambiguous ticket ID prefix")

	// ErrDuplicateID is returned when a collection holds the same ID twice.
	ErrDuplicateID = errors.New("duplicate ticket ID")

	// ErrUpdatedBeforeCreated is returned when updatedAt precedes createdAt.
	ErrUpdatedBeforeCreated = errors.New("updatedAt is before createdAt")
)

// ValidationError reports malformed input for a single field.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// TransitionError reports an illegal status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// Is makes TransitionError match both ErrInvalidTransition and ErrValidation.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition || target == ErrValidation
}

// StorageError reports a failure reading, decoding, or writing the store.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes every StorageError match ErrStorage.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func notFound(id string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// NormalizeTitle trims surrounding whitespace from a title.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// ValidateTitle checks a normalized title against maxLength characters.
// A maxLength of zero uses DefaultMaxTitleLength; a negative maxLength
// disables the length check.
func ValidateTitle(title string, maxLength int) error {
	if maxLength == 0 {
		maxLength = DefaultMaxTitleLength
	}
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Value: title, Err: ErrEmptyTitle}
	}
	if length := utf8.RuneCountInString(title); maxLength > 0 && length > maxLength {
		return &ValidationError{
			Field: "title",
			Value: title,
			Err:   fmt.Errorf("%w: %d > %d", ErrTitleTooLong, length, maxLength),
		}
	}
	return nil
}

// ValidateTicket checks that a ticket satisfies the entity invariants.
func ValidateTicket(t *Ticket, maxTitleLength int) error {
	if t.ID == "" {
		return &ValidationError{Field: "id", Err: errors.New("id cannot be empty")}
	}
	if err := ValidateTitle(t.Title, maxTitleLength); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return invalidValue("status", string(t.Status), ErrInvalidStatus, ValidStatuses())
	}
	if !t.Priority.IsValid() {
		return invalidValue("priority", string(t.Priority), ErrInvalidPriority, ValidPriorities())
	}
	if !t.Type.IsValid() {
		return invalidValue("type", string(t.Type), ErrInvalidType, ValidTypes())
	}
	if !t.Privacy.IsValid() {
		return invalidValue("privacy", string(t.Privacy), ErrInvalidPrivacy, ValidPrivacies())
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return &ValidationError{Field: "updatedAt", Err: ErrUpdatedBeforeCreated}
	}
	return nil
}

// ValidateCollection checks every ticket and the uniqueness of IDs.
func ValidateCollection(tickets []Ticket, maxTitleLength int) error {
	seen := make(map[string]bool, len(tickets))
	for i := range tickets {
		if err := ValidateTicket(&tickets[i], maxTitleLength); err != nil {
			return fmt.Errorf("ticket %d (%s): %w", i, tickets[i].ID, err)
		}
		if seen[tickets[i].ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, tickets[i].ID)
		}
		seen[tickets[i].ID] = true
	}
	return nil
}
