package ticket

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/natefinch/atomic"
)

// maxIDAttempts bounds how many IDs Create draws before giving up on a
// collision-free one.
const maxIDAttempts = 16

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures a FileStore.
type Options struct {
	// Now returns the current time. If nil, time.Now is used.
	Now func() time.Time

	// NewID returns a candidate ID for a new ticket. If nil, GenerateID is used.
	NewID func(title string, at time.Time) string

	// MaxTitleLength bounds titles accepted by Create and Update. Zero means
	// DefaultMaxTitleLength; negative values are rejected.
	MaxTitleLength int

	// Logger receives integrity guard warnings. If nil, nothing is logged.
	Logger *slog.Logger
}

// FileStore is a Repository that keeps the whole collection in one JSON file.
//
// Every call reads the file, applies its change, and writes the file back.
// Nothing is cached between calls, so several processes can share a store;
// a flock on a sidecar lock file serializes their read-modify-write cycles.
type FileStore struct {
	path           string
	now            func() time.Time
	newID          func(string, time.Time) string
	maxTitleLength int
	logger         *slog.Logger

	guardOnce sync.Once
	guard     GuardReport

	// mu serializes cycles between goroutines sharing this store.
	mu sync.Mutex
}

var _ Repository = (*FileStore)(nil)

// Open returns a FileStore backed by the file at path. The file and its
// directory are created on the first write.
func Open(path string, opts Options) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = GenerateID
	}
	if opts.MaxTitleLength < 0 {
		return nil, fmt.Errorf("max title length must not be negative: %d", opts.MaxTitleLength)
	}
	if opts.MaxTitleLength == 0 {
		opts.MaxTitleLength = DefaultMaxTitleLength
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger
	}
	return &FileStore{
		path:           path,
		now:            opts.Now,
		newID:          opts.NewID,
		maxTitleLength: opts.MaxTitleLength,
		logger:         opts.Logger,
	}, nil
}

// Path returns the store file path.
func (s *FileStore) Path() string {
	return s.path
}

// GuardReport runs the integrity guard if it has not run yet and returns its
// report.
func (s *FileStore) GuardReport() GuardReport {
	s.guardOnce.Do(func() {
		s.guard = guard(s.path, s.now, s.logger)
	})
	return s.guard
}

// Create validates the draft, assigns an ID and timestamps, and appends the
// ticket to the collection.
func (s *FileStore) Create(draft Draft) (Ticket, error) {
	draft = draft.withDefaults()
	draft.Title = NormalizeTitle(draft.Title)
	if err := ValidateTitle(draft.Title, s.maxTitleLength); err != nil {
		return Ticket{}, err
	}
	if err := validateEnums(draft.Status, draft.Priority, draft.Type, draft.Privacy); err != nil {
		return Ticket{}, err
	}

	var created Ticket
	err := s.mutate(func(doc *Document) error {
		now := s.timestamp()
		id, err := s.uniqueID(doc.Tickets, draft.Title, now)
		if err != nil {
			return err
		}
		created = Ticket{
			ID:          id,
			Title:       draft.Title,
			Description: draft.Description,
			Status:      draft.Status,
			Priority:    draft.Priority,
			Type:        draft.Type,
			Privacy:     draft.Privacy,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		doc.Tickets = append(doc.Tickets, created)
		return nil
	})
	if err != nil {
		return Ticket{}, err
	}
	return created, nil
}

// GetByID returns the ticket with the given ID.
func (s *FileStore) GetByID(id string) (Ticket, bool, error) {
	doc, err := s.read()
	if err != nil {
		return Ticket{}, false, err
	}
	if i := indexOf(doc.Tickets, id); i >= 0 {
		return doc.Tickets[i], true, nil
	}
	return Ticket{}, false, nil
}

// GetAll returns every ticket in stored order.
func (s *FileStore) GetAll() ([]Ticket, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	if doc.Tickets == nil {
		return []Ticket{}, nil
	}
	return doc.Tickets, nil
}

// Update merges the non-nil fields into the ticket. A Status in fields goes
// through the transition policy. Nothing is written when validation fails or
// when fields change nothing at all (empty, or only re-archiving).
func (s *FileStore) Update(id string, fields Fields) (Ticket, error) {
	if fields.Title != nil {
		title := NormalizeTitle(*fields.Title)
		if err := ValidateTitle(title, s.maxTitleLength); err != nil {
			return Ticket{}, err
		}
		fields.Title = &title
	}
	if err := validateFieldEnums(fields); err != nil {
		return Ticket{}, err
	}

	var updated Ticket
	err := s.mutate(func(doc *Document) error {
		i := indexOf(doc.Tickets, id)
		if i < 0 {
			return notFound(id)
		}
		t := doc.Tickets[i]
		if fields.Status != nil {
			status, changed, err := Transition(t.Status, *fields.Status)
			if err != nil {
				return err
			}
			if !changed {
				fields.Status = nil
			}
			t.Status = status
		}
		if fields.IsEmpty() {
			updated = t
			return errUnchanged
		}
		if fields.Title != nil {
			t.Title = *fields.Title
		}
		if fields.Description != nil {
			t.Description = *fields.Description
		}
		if fields.Priority != nil {
			t.Priority = *fields.Priority
		}
		if fields.Type != nil {
			t.Type = *fields.Type
		}
		if fields.Privacy != nil {
			t.Privacy = *fields.Privacy
		}
		t.UpdatedAt = s.updatedAt(t.UpdatedAt)
		doc.Tickets[i] = t
		updated = t
		return nil
	})
	if err != nil {
		return Ticket{}, err
	}
	return updated, nil
}

// UpdateStatus moves a ticket to target. An illegal transition returns a
// *TransitionError and leaves the file untouched, as does re-archiving an
// archived ticket, which succeeds without changes.
func (s *FileStore) UpdateStatus(id string, target Status) (Ticket, error) {
	if !target.IsValid() {
		return Ticket{}, invalidValue("status", string(target), ErrInvalidStatus, ValidStatuses())
	}

	var result Ticket
	err := s.mutate(func(doc *Document) error {
		i := indexOf(doc.Tickets, id)
		if i < 0 {
			return notFound(id)
		}
		t := doc.Tickets[i]
		status, changed, err := Transition(t.Status, target)
		if err != nil {
			return err
		}
		if !changed {
			result = t
			return errUnchanged
		}
		t.Status = status
		t.UpdatedAt = s.updatedAt(t.UpdatedAt)
		doc.Tickets[i] = t
		result = t
		return nil
	})
	if err != nil {
		return Ticket{}, err
	}
	return result, nil
}

// Delete removes the ticket permanently.
func (s *FileStore) Delete(id string) error {
	return s.mutate(func(doc *Document) error {
		i := indexOf(doc.Tickets, id)
		if i < 0 {
			return notFound(id)
		}
		doc.Tickets = append(doc.Tickets[:i], doc.Tickets[i+1:]...)
		return nil
	})
}

// Search returns the tickets matching criteria, in stored order.
func (s *FileStore) Search(criteria Criteria) ([]Ticket, error) {
	tickets, err := s.GetAll()
	if err != nil {
		return nil, err
	}
	return Filter(tickets, criteria), nil
}

// Stats aggregates the current collection.
func (s *FileStore) Stats() (Stats, error) {
	tickets, err := s.GetAll()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(tickets), nil
}

// errUnchanged lets a mutation succeed without rewriting the file.
var errUnchanged = errors.New("unchanged")

// read loads the document under a shared lock.
func (s *FileStore) read() (Document, error) {
	s.GuardReport()
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc Document
	err := withFileLock(s.path, false, func() error {
		var err error
		doc, err = s.load()
		return err
	})
	if err != nil {
		return Document{}, s.storageError("lock", err)
	}
	return doc, nil
}

// mutate runs one read-modify-write cycle under an exclusive lock. If fn
// returns an error the file is left as it was.
func (s *FileStore) mutate(fn func(doc *Document) error) error {
	s.GuardReport()
	s.mu.Lock()
	defer s.mu.Unlock()

	var fnErr error
	err := withFileLock(s.path, true, func() error {
		doc, err := s.load()
		if err != nil {
			return err
		}
		if fnErr = fn(&doc); fnErr != nil {
			return nil
		}
		return s.save(doc)
	})
	if err != nil {
		return s.storageError("lock", err)
	}
	if errors.Is(fnErr, errUnchanged) {
		return nil
	}
	return fnErr
}

func (s *FileStore) load() (Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Document{}, nil
	}
	if err != nil {
		return Document{}, &StorageError{Op: "read", Path: s.path, Err: err}
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return Document{}, &StorageError{Op: "decode", Path: s.path, Err: err}
	}
	return doc, nil
}

func (s *FileStore) save(doc Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return &StorageError{Op: "encode", Path: s.path, Err: err}
	}
	if err := writeFile(s.path, data); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// storageError wraps lock failures. Errors that are already StorageErrors
// pass through unchanged.
func (s *FileStore) storageError(op string, err error) error {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return err
	}
	return &StorageError{Op: op, Path: s.path, Err: err}
}

// timestamp returns the current time in UTC at millisecond precision, the
// resolution the document keeps.
func (s *FileStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// updatedAt returns a modification time strictly after previous.
func (s *FileStore) updatedAt(previous time.Time) time.Time {
	now := s.timestamp()
	if !now.After(previous) {
		now = previous.Add(time.Millisecond)
	}
	return now
}

func (s *FileStore) uniqueID(tickets []Ticket, title string, at time.Time) (string, error) {
	taken := make(map[string]bool, len(tickets))
	for _, t := range tickets {
		taken[t.ID] = true
	}
	for range maxIDAttempts {
		id := s.newID(title, at)
		if id != "" && !taken[id] {
			return id, nil
		}
	}
	return "", &StorageError{
		Op:   "create",
		Path: s.path,
		Err:  fmt.Errorf("no unique id after %d attempts", maxIDAttempts),
	}
}

// writeFile replaces path atomically and leaves it world-readable.
func writeFile(path string, data []byte) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	return os.Chmod(path, 0o644)
}

func indexOf(tickets []Ticket, id string) int {
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func validateEnums(status Status, priority Priority, typ Type, privacy Privacy) error {
	if !status.IsValid() {
		return invalidValue("status", string(status), ErrInvalidStatus, ValidStatuses())
	}
	if !priority.IsValid() {
		return invalidValue("priority", string(priority), ErrInvalidPriority, ValidPriorities())
	}
	if !typ.IsValid() {
		return invalidValue("type", string(typ), ErrInvalidType, ValidTypes())
	}
	if !privacy.IsValid() {
		return invalidValue("privacy", string(privacy), ErrInvalidPrivacy, ValidPrivacies())
	}
	return nil
}

func validateFieldEnums(fields Fields) error {
	if fields.Status != nil && !fields.Status.IsValid() {
		return invalidValue("status", string(*fields.Status), ErrInvalidStatus, ValidStatuses())
	}
	if fields.Priority != nil && !fields.Priority.IsValid() {
		return invalidValue("priority", string(*fields.Priority), ErrInvalidPriority, ValidPriorities())
	}
	if fields.Type != nil && !fields.Type.IsValid() {
		return invalidValue("type", string(*fields.Type), ErrInvalidType, ValidTypes())
	}
	if fields.Privacy != nil && !fields.Privacy.IsValid() {
		return invalidValue("privacy", string(*fields.Privacy), ErrInvalidPrivacy, ValidPrivacies())
	}
	return nil
}
