package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"busops/internal/domain"
	"busops/internal/domain/models"
)

type memBackend struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	failErr error
	saveCtx []error
}

func (m *memBackend) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

func (m *memBackend) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCtx = append(m.saveCtx, ctx.Err())
	if m.failErr != nil {
		return m.failErr
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func appendTrip(id string) func(*models.Document) error {
	return func(doc *models.Document) error {
		doc.Trips = append(doc.Trips, models.Trip{Meta: models.Meta{ID: id}, RouteID: "r1"})
		return nil
	}
}

func TestMutateConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s := New(NewFileBackend(path))
	ctx := context.Background()

	const writers = 40
	start := make(chan struct{})
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			_, err := s.Mutate(ctx, appendTrip(fmt.Sprintf("t%d", n)))
			errs <- err
		}(i)
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("mutate: %v", err)
		}
	}

	reopened := New(NewFileBackend(path))
	doc, err := reopened.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(doc.Trips) != writers {
		t.Fatalf("expected %d trips, got %d", writers, len(doc.Trips))
	}
	seen := map[string]bool{}
	for _, trip := range doc.Trips {
		if seen[trip.ID] {
			t.Fatalf("duplicate trip id %s", trip.ID)
		}
		seen[trip.ID] = true
	}
	if s.Commits() != writers {
		t.Fatalf("expected %d commits, got %d", writers, s.Commits())
	}
}

func TestMutateFailedSaveKeepsCommittedDocument(t *testing.T) {
	backend := &memBackend{}
	s := New(backend)
	ctx := context.Background()

	if _, err := s.Mutate(ctx, appendTrip("t1")); err != nil {
		t.Fatalf("first mutate: %v", err)
	}
	persisted := string(backend.data)

	backend.failErr = errors.New("disk full")
	_, err := s.Mutate(ctx, appendTrip("t2"))
	if !domain.IsStoreIO(err) {
		t.Fatalf("expected StoreIOError, got %v", err)
	}

	doc, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(doc.Trips) != 1 || doc.Trips[0].ID != "t1" {
		t.Fatalf("in-memory document changed after failed save: %+v", doc.Trips)
	}
	if string(backend.data) != persisted {
		t.Fatalf("persisted document changed after failed save")
	}
}

func TestMutateClosureErrorAbortsWithoutWrite(t *testing.T) {
	backend := &memBackend{}
	s := New(backend)
	want := domain.ValidationError{Field: "routeId", Msg: "is required"}

	_, err := s.Mutate(context.Background(), func(doc *models.Document) error {
		doc.Trips = append(doc.Trips, models.Trip{})
		return want
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if backend.saves != 0 {
		t.Fatalf("expected no save, got %d", backend.saves)
	}
	doc, _ := s.Read(context.Background())
	if len(doc.Trips) != 0 {
		t.Fatalf("aborted closure leaked into committed document")
	}
}

func TestMutateNoChangeSkipsWrite(t *testing.T) {
	backend := &memBackend{}
	s := New(backend)

	doc, err := s.Mutate(context.Background(), func(*models.Document) error { return ErrNoChange })
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if doc == nil {
		t.Fatalf("expected current document")
	}
	if backend.saves != 0 || s.Commits() != 0 {
		t.Fatalf("expected no writes, got saves=%d commits=%d", backend.saves, s.Commits())
	}
}

func TestReadSnapshotIsIsolatedFromLaterWrites(t *testing.T) {
	s := New(&memBackend{})
	ctx := context.Background()

	before, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := s.Mutate(ctx, appendTrip("t1")); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if len(before.Trips) != 0 {
		t.Fatalf("earlier snapshot observed a later write")
	}
	after, _ := s.Read(ctx)
	if len(after.Trips) != 1 {
		t.Fatalf("expected new snapshot to contain the trip")
	}
}

func TestMutatePersistsEvenIfRequestIsCancelled(t *testing.T) {
	backend := &memBackend{}
	s := New(backend)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := s.Mutate(ctx, func(doc *models.Document) error {
		doc.Trips = append(doc.Trips, models.Trip{Meta: models.Meta{ID: "t1"}})
		cancel()
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if backend.saves != 1 {
		t.Fatalf("expected the write to complete, saves=%d", backend.saves)
	}
	if backend.saveCtx[0] != nil {
		t.Fatalf("save ran with a cancelled context: %v", backend.saveCtx[0])
	}
}

func TestReadCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := New(NewFileBackend(path))

	_, err := s.Read(context.Background())
	if !domain.IsStoreCorrupt(err) {
		t.Fatalf("expected StoreCorruptError, got %v", err)
	}
	if _, err := s.Mutate(context.Background(), appendTrip("t1")); !domain.IsStoreCorrupt(err) {
		t.Fatalf("mutate over corrupt document should fail, got %v", err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "{not json" {
		t.Fatalf("corrupt document was overwritten")
	}
}

func TestReadMissingFileYieldsEmptyCollections(t *testing.T) {
	s := New(NewFileBackend(filepath.Join(t.TempDir(), "missing", "db.json")))
	doc, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if doc.Trips == nil || doc.Notifications == nil {
		t.Fatalf("expected empty, non-nil collections")
	}
}

func TestFileBackendLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileBackend(filepath.Join(dir, "db.json"))
	for i := 0; i < 3; i++ {
		if err := backend.Save(context.Background(), []byte(`{"trips":[]}`)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "db.json" {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected files left behind: %v", names)
	}
}
