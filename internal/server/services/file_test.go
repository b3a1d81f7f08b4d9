package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/server/config"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
	"github.com/dmitrijs2005/dropvault/internal/server/storage"
)

func newDiskFileService(t *testing.T, overwrite string) *FileService {
	t.Helper()
	store := storage.NewDiskStore(t.TempDir())
	return NewFileService(store, &config.Config{Overwrite: overwrite})
}

func TestFileSave_RejectsInvalidNames(t *testing.T) {
	s := newDiskFileService(t, config.OverwriteReject)
	ctx := context.Background()

	for _, name := range []string{"", "a_b.txt", "a/b.txt", `a\b.txt`} {
		_, err := s.Save(ctx, "alice", name, bytes.NewReader([]byte("x")))
		if !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("name %q: expected validation error, got %v", name, err)
		}
	}
}

func TestFileSave_RejectPolicy(t *testing.T) {
	s := newDiskFileService(t, config.OverwriteReject)
	ctx := context.Background()

	f, err := s.Save(ctx, "alice", "notes.txt", bytes.NewReader([]byte("0123456789")))
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if f.Size != 10 {
		t.Fatalf("unexpected size: %d", f.Size)
	}

	_, err = s.Save(ctx, "alice", "notes.txt", bytes.NewReader([]byte("replaced")))
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected common.ErrorAlreadyExists, got %v", err)
	}

	// same name is fine for a different owner
	if _, err := s.Save(ctx, "bob", "notes.txt", bytes.NewReader([]byte("bb"))); err != nil {
		t.Fatalf("Save for other owner error: %v", err)
	}
}

func TestFileSave_ReplacePolicy(t *testing.T) {
	s := newDiskFileService(t, config.OverwriteReplace)
	ctx := context.Background()

	if _, err := s.Save(ctx, "alice", "notes.txt", bytes.NewReader([]byte("old"))); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	f, err := s.Save(ctx, "alice", "notes.txt", bytes.NewReader([]byte("newer")))
	if err != nil {
		t.Fatalf("second Save error: %v", err)
	}
	if f.Size != 5 {
		t.Fatalf("expected replaced size 5, got %d", f.Size)
	}
}

func TestFileList_ScopedToOwner(t *testing.T) {
	s := newDiskFileService(t, config.OverwriteReject)
	ctx := context.Background()

	if _, err := s.Save(ctx, "alice", "notes.txt", bytes.NewReader([]byte("0123456789"))); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	aliceFiles, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(aliceFiles) != 1 || aliceFiles[0].Name != "notes.txt" || aliceFiles[0].Size != 10 {
		t.Fatalf("unexpected listing: %+v", aliceFiles[0])
	}

	bobFiles, err := s.List(ctx, "bob")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(bobFiles) != 0 {
		t.Fatalf("expected empty listing for bob, got %d entries", len(bobFiles))
	}
}

// failingStore simulates a storage outage.
type failingStore struct{}

func (failingStore) Save(context.Context, string, string, io.Reader) (*models.StoredFile, error) {
	return nil, errors.New("backend down")
}
func (failingStore) List(context.Context, string) ([]*models.StoredFile, error) {
	return nil, errors.New("backend down")
}
func (failingStore) Stat(context.Context, string, string) (*models.StoredFile, error) {
	return nil, errors.New("backend down")
}

func TestFileService_StorageFailuresAreWrapped(t *testing.T) {
	s := NewFileService(failingStore{}, &config.Config{Overwrite: config.OverwriteReplace})
	ctx := context.Background()

	if _, err := s.Save(ctx, "alice", "notes.txt", bytes.NewReader(nil)); err == nil {
		t.Fatalf("expected error from failing backend")
	}
	if _, err := s.List(ctx, "alice"); err == nil {
		t.Fatalf("expected error from failing backend")
	}
}
