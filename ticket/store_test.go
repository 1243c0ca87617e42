package ticket

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCreateAppliesDefaults(t *testing.T) {
	store := newTestStore(t)

	created := mustCreate(t, store, Draft{Title: "  Fix login bug  "})

	if created.Title != "Fix login bug" {
		t.Errorf("Title = %q, want trimmed", created.Title)
	}
	if created.Status != StatusPending || created.Priority != PriorityMedium ||
		created.Type != TypeTask || created.Privacy != PrivacyLocalOnly {
		t.Errorf("defaults not applied: %+v", created)
	}
	if created.ID == "" {
		t.Error("expected an ID")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", created.CreatedAt, created.UpdatedAt)
	}
	if created.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt should be UTC, got %v", created.CreatedAt.Location())
	}
}

func TestOpenRejectsNegativeMaxTitleLength(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "tickets.json"), Options{MaxTitleLength: -1})
	if err == nil || !strings.Contains(err.Error(), "must not be negative") {
		t.Fatalf("Open with negative max title length: err = %v", err)
	}
}

func TestDefaultMaxTitleLengthBoundsTitles(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "tickets.json"), Options{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	_, err = store.Create(Draft{Title: strings.Repeat("x", DefaultMaxTitleLength+1)})
	if !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("Create with an overlong title: err = %v, want ErrTitleTooLong", err)
	}
	if _, err := store.Create(Draft{Title: strings.Repeat("x", DefaultMaxTitleLength)}); err != nil {
		t.Fatalf("Create at the limit: %v", err)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"empty title", Draft{Title: "   "}, ErrEmptyTitle},
		{"long title", Draft{Title: strings.Repeat("x", DefaultMaxTitleLength+1)}, ErrTitleTooLong},
		{"bad priority", Draft{Title: "x", Priority: "urgent"}, ErrInvalidPriority},
		{"bad type", Draft{Title: "x", Type: "chore"}, ErrInvalidType},
		{"bad privacy", Draft{Title: "x", Privacy: "secret"}, ErrInvalidPrivacy},
		{"bad status", Draft{Title: "x", Status: "done"}, ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(tt.draft)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Create error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("rejected creates should not write the store, stat err = %v", err)
	}
}

func TestCreateRetriesIDCollisions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	candidates := []string{"same", "same", "other"}
	store, err := Open(path, Options{
		NewID: func(string, time.Time) string {
			id := candidates[0]
			candidates = candidates[1:]
			return id
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	first := mustCreate(t, store, Draft{Title: "one"})
	second := mustCreate(t, store, Draft{Title: "two"})
	if first.ID != "same" || second.ID != "other" {
		t.Fatalf("ids = %q, %q", first.ID, second.ID)
	}
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	store, err := Open(path, Options{
		NewID: func(string, time.Time) string { return "same" },
	})
	if err != nil {
		t.Fatal(err)
	}
	mustCreate(t, store, Draft{Title: "one"})

	_, err = store.Create(Draft{Title: "two"})
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestCreateGeneratesDistinctIDs(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "tickets.json"), Options{})
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for range 20 {
		created := mustCreate(t, store, Draft{Title: "same title"})
		if len(created.ID) != 8 {
			t.Fatalf("ID %q should be 8 characters", created.ID)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate ID %q", created.ID)
		}
		seen[created.ID] = true
	}
}

func TestRoundTripThroughFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tickets.json")
	store := newTestStoreAt(t, path)

	created := mustCreate(t, store, Draft{
		Title:       "Round trip",
		Description: "multi\nline",
		Priority:    PriorityHigh,
		Type:        TypeBug,
		Privacy:     PrivacyPublic,
	})

	reopened := newTestStoreAt(t, path)
	got, ok, err := reopened.GetByID(created.ID)
	if err != nil || !ok {
		t.Fatalf("GetByID = %v, %v", ok, err)
	}
	if !sameTicket(got, created) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, created)
	}

	data := readFile(t, path)
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Error("document should end with a newline")
	}
	if !bytes.Contains(data, []byte("\n  \"tickets\": [\n")) {
		t.Errorf("document should use two-space indentation:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"epics": []`)) {
		t.Errorf("document should carry an empty epics array:\n%s", data)
	}
	if !bytes.Contains(data, []byte(`"createdAt": "2026-03-01T12:00:01Z"`)) {
		t.Errorf("timestamps should be RFC 3339 UTC:\n%s", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("store mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestReadsAreIdempotent(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, Draft{Title: "one"})
	before := readFile(t, store.Path())

	first, err := store.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Search(Criteria{Query: "one"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Stats(); err != nil {
		t.Fatal(err)
	}
	second, err := store.GetAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 || len(second) != 1 || !sameTicket(first[0], second[0]) {
		t.Fatalf("reads differ: %+v vs %+v", first, second)
	}
	if !bytes.Equal(before, readFile(t, store.Path())) {
		t.Fatal("reads should not modify the file")
	}
}

func TestMissingAndBlankFilesReadAsEmpty(t *testing.T) {
	store := newTestStoreAt(t, filepath.Join(t.TempDir(), "missing", "tickets.json"))
	all, err := store.GetAll()
	if err != nil || all == nil || len(all) != 0 {
		t.Fatalf("GetAll on missing file = %v, %v", all, err)
	}

	path := filepath.Join(t.TempDir(), "tickets.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store = newTestStoreAt(t, path)
	all, err = store.GetAll()
	if err != nil || len(all) != 0 {
		t.Fatalf("GetAll on blank file = %v, %v", all, err)
	}
	if got := readFile(t, path); string(got) != "  \n" {
		t.Fatalf("blank file was rewritten: %q", got)
	}
}

func TestGetByIDMiss(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, Draft{Title: "one"})

	_, ok, err := store.GetByID("nope")
	if err != nil || ok {
		t.Fatalf("GetByID miss = %v, %v", ok, err)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, Draft{Title: "one", Description: "keep"})

	updated, err := store.Update(created.ID, Fields{
		Title:    Ptr("  two "),
		Priority: Ptr(PriorityLow),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "two" || updated.Priority != PriorityLow || updated.Description != "keep" {
		t.Fatalf("Update = %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("UpdatedAt %v should advance past %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("CreatedAt changed")
	}

	got, _, _ := store.GetByID(created.ID)
	if !sameTicket(got, updated) {
		t.Fatalf("stored %+v, returned %+v", got, updated)
	}
}

func TestUpdateValidation(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, Draft{Title: "one"})
	before := readFile(t, store.Path())

	if _, err := store.Update(created.ID, Fields{Title: Ptr("")}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("empty title error = %v", err)
	}
	if _, err := store.Update(created.ID, Fields{Type: Ptr(Type("chore"))}); !errors.Is(err, ErrInvalidType) {
		t.Errorf("bad type error = %v", err)
	}
	if _, err := store.Update(created.ID, Fields{Status: Ptr(StatusPending)}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pending to pending error = %v", err)
	}
	if _, err := store.Update("nope", Fields{Title: Ptr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ticket error = %v", err)
	}

	if !bytes.Equal(before, readFile(t, store.Path())) {
		t.Fatal("failed updates should leave the file unchanged")
	}
}

func TestUpdatedAtIsMonotonicWhenClockStalls(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, err := Open(filepath.Join(t.TempDir(), "tickets.json"), Options{
		Now: func() time.Time { return fixed },
	})
	if err != nil {
		t.Fatal(err)
	}

	created := mustCreate(t, store, Draft{Title: "one"})
	first, err := store.Update(created.ID, Fields{Description: Ptr("a")})
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Update(created.ID, Fields{Description: Ptr("b")})
	if err != nil {
		t.Fatal(err)
	}
	if !first.UpdatedAt.After(created.UpdatedAt) || !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("UpdatedAt not strictly increasing: %v, %v, %v", created.UpdatedAt, first.UpdatedAt, second.UpdatedAt)
	}
}

func TestLifecycleScenario(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, Draft{Title: "Fix login bug"})
	if created.Status != StatusPending || created.Priority != PriorityMedium || created.Type != TypeTask {
		t.Fatalf("created = %+v", created)
	}

	step := func(target Status, wantErr bool) {
		t.Helper()
		before := readFile(t, store.Path())
		got, err := store.UpdateStatus(created.ID, target)
		if wantErr {
			var transitionErr *TransitionError
			if !errors.As(err, &transitionErr) {
				t.Fatalf("UpdateStatus(%s) error = %v, want *TransitionError", target, err)
			}
			if !bytes.Equal(before, readFile(t, store.Path())) {
				t.Fatalf("UpdateStatus(%s) failure changed the file", target)
			}
			return
		}
		if err != nil {
			t.Fatalf("UpdateStatus(%s): %v", target, err)
		}
		if got.Status != target {
			t.Fatalf("UpdateStatus(%s) status = %s", target, got.Status)
		}
	}

	step(StatusInProgress, false)
	step(StatusInProgress, true)
	step(StatusCompleted, false)
	step(StatusCompleted, true)
	step(StatusArchived, false)
	step(StatusPending, true)
	step(StatusInProgress, true)
	step(StatusCompleted, true)
}

func TestReArchiveIsNoOp(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, Draft{Title: "old"})
	archived, err := store.UpdateStatus(created.ID, StatusArchived)
	if err != nil {
		t.Fatal(err)
	}
	before := readFile(t, store.Path())

	again, err := store.UpdateStatus(created.ID, StatusArchived)
	if err != nil {
		t.Fatalf("re-archive: %v", err)
	}
	if !sameTicket(again, archived) {
		t.Fatalf("re-archive changed the ticket: %+v vs %+v", again, archived)
	}
	if !bytes.Equal(before, readFile(t, store.Path())) {
		t.Fatal("re-archive should not rewrite the file")
	}

	viaUpdate, err := store.Update(created.ID, Fields{Status: Ptr(StatusArchived)})
	if err != nil || !sameTicket(viaUpdate, archived) {
		t.Fatalf("Update re-archive = %+v, %v", viaUpdate, err)
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	store := newTestStore(t)
	created := mustCreate(t, store, Draft{Title: "one"})

	if _, err := store.UpdateStatus("nope", StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ticket error = %v", err)
	}
	if _, err := store.UpdateStatus(created.ID, "done"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status error = %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	a := mustCreate(t, store, Draft{Title: "a"})
	b := mustCreate(t, store, Draft{Title: "b"})
	c := mustCreate(t, store, Draft{Title: "c"})

	if err := store.Delete(b.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete error = %v", err)
	}

	all, err := store.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != c.ID {
		t.Fatalf("GetAll after delete = %v", idsOf(all))
	}
}

func TestSearchScenario(t *testing.T) {
	store := newTestStore(t)
	login := mustCreate(t, store, Draft{Title: "Fix login bug"})
	mustCreate(t, store, Draft{Title: "Login page copy", Status: StatusCompleted})
	mustCreate(t, store, Draft{Title: "Unrelated"})

	got, err := store.Search(Criteria{Status: Ptr(StatusPending), Query: "login"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != login.ID {
		t.Fatalf("Search = %v", idsOf(got))
	}

	got, err = store.Search(Criteria{Query: "login", Limit: Ptr(0)})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("Search with limit 0 = %v", got)
	}
}

func TestStatsFromStore(t *testing.T) {
	store := newTestStore(t)
	mustCreate(t, store, Draft{Title: "a", Priority: PriorityHigh})
	mustCreate(t, store, Draft{Title: "b", Type: TypeBug})

	stats, err := store.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 || stats.ByPriority[PriorityHigh] != 1 || stats.ByType[TypeBug] != 1 ||
		stats.ByStatus[StatusPending] != 2 {
		t.Fatalf("Stats = %+v", stats)
	}
}

func TestEpicsSurviveRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	seed := `{"tickets": [], "epics": [{"id": "e1", "title": "Q3"}]}`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newTestStoreAt(t, path)
	mustCreate(t, store, Draft{Title: "a"})

	data := readFile(t, path)
	if !bytes.Contains(data, []byte(`"id": "e1"`)) || !bytes.Contains(data, []byte(`"title": "Q3"`)) {
		t.Fatalf("epics lost:\n%s", data)
	}
}

func TestStrictDecodeSurfacesStorageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	bad := `{"tickets": [{"id": "a", "title": "x", "status": "done", "priority": "low", "type": "bug", "privacy": "public"}], "epics": []}`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	store := newTestStoreAt(t, path)
	_, err := store.GetAll()
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected the cause to be kept, got %v", err)
	}
	if string(readFile(t, path)) != bad {
		t.Fatal("a well-formed document with bad values must not be reset")
	}
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	stores := []*FileStore{}
	for range 4 {
		s, err := Open(path, Options{})
		if err != nil {
			t.Fatal(err)
		}
		stores = append(stores, s)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for _, s := range stores {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				if _, err := s.Create(Draft{Title: "concurrent"}); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	all, err := stores[0].GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 40 {
		t.Fatalf("expected 40 tickets, got %d", len(all))
	}
}
