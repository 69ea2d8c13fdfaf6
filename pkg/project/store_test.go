package project

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sliced/pkg/errors"
)

// testStore exercises the Store contract against any backend.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	p, err := New("Nocturne op. 9")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Apply(AddImage(img(100, 40)))
	p.Apply(AddImage(img(100, 60)))

	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != p.Name || got.State.Len() != 2 || got.State.Counter != 2 {
		t.Errorf("Get = %+v", got)
	}

	q, _ := New("Etude")
	q.UpdatedAt = p.UpdatedAt.Add(time.Minute)
	if err := s.Put(ctx, q); err != nil {
		t.Fatalf("Put: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != q.ID {
		t.Errorf("List order wrong: %d projects, first %v", len(list), list[0].Name)
	}

	if r, err := Resolve(ctx, s, "Etude"); err != nil || r.ID != q.ID {
		t.Errorf("Resolve by name = %v, %v", r, err)
	}
	if r, err := Resolve(ctx, s, p.ID[:8]); err != nil || r.ID != p.ID {
		t.Errorf("Resolve by prefix = %v, %v", r, err)
	}

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, p.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after Delete error = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Errorf("Delete of missing project: %v", err)
	}
	if _, err := Resolve(ctx, s, "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Resolve unknown = %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreRejectsBadID(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	if _, err := s.Get(context.Background(), "../../etc/passwd"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get with bad id = %v, want INVALID_INPUT", err)
	}
	if _, err := s.Get(context.Background(), uuid.NewString()); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get unknown id = %v, want NOT_FOUND", err)
	}
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("SLICED_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SLICED_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	for _, p := range mustList(t, s) {
		_ = s.Delete(ctx, p.ID)
	}
	testStore(t, s)
}

func mustList(t *testing.T, s Store) []*Project {
	t.Helper()
	list, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return list
}

func TestNewValidatesName(t *testing.T) {
	if _, err := New("   "); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New with blank name = %v", err)
	}
}
