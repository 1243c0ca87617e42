package ticket

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeClock returns successive times one second apart.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return newTestStoreAt(t, filepath.Join(t.TempDir(), "tickets.json"))
}

func newTestStoreAt(t *testing.T, path string) *FileStore {
	t.Helper()

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	n := 0
	store, err := Open(path, Options{
		Now: clock.Now,
		NewID: func(string, time.Time) string {
			n++
			return fmt.Sprintf("id%06d", n)
		},
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

func mustCreate(t *testing.T, store *FileStore, draft Draft) Ticket {
	t.Helper()
	created, err := store.Create(draft)
	if err != nil {
		t.Fatalf("create %q: %v", draft.Title, err)
	}
	return created
}

// sameTicket compares tickets field by field, using time.Time.Equal for
// timestamps.
func sameTicket(a, b Ticket) bool {
	return a.ID == b.ID && a.Title == b.Title && a.Description == b.Description &&
		a.Status == b.Status && a.Priority == b.Priority && a.Type == b.Type &&
		a.Privacy == b.Privacy && a.CreatedAt.Equal(b.CreatedAt) && a.UpdatedAt.Equal(b.UpdatedAt)
}
