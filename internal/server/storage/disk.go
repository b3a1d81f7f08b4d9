package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
)

// tempPrefix marks in-progress writes. Temp files are hidden from List.
const tempPrefix = ".upload-"

// DiskStore keeps uploaded files in a single flat directory, one file per
// storage name. This matches the layout the service has always used.
type DiskStore struct {
	dir string
}

// NewDiskStore returns a DiskStore rooted at dir. The directory must
// already exist (see filex.EnsureDir).
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Save streams r into a temp file next to the target and renames it into
// place, so a failed or aborted upload never becomes visible under the
// final storage name.
func (s *DiskStore) Save(ctx context.Context, owner, name string, r io.Reader) (*models.StoredFile, error) {

	tmp, err := os.CreateTemp(s.dir, tempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	written, err := io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("write upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		cleanup()
		return nil, fmt.Errorf("upload aborted: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return nil, fmt.Errorf("sync upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("close upload: %w", err)
	}

	target := filepath.Join(s.dir, MakeStorageName(owner, name))
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("finalize upload: %w", err)
	}

	return &models.StoredFile{Owner: owner, Name: name, Size: written}, nil
}

// List scans the directory for entries with the owner's prefix. ReadDir
// returns names in lexical order, so results are already sorted by name.
func (s *DiskStore) List(ctx context.Context, owner string) ([]*models.StoredFile, error) {

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	files := make([]*models.StoredFile, 0)
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		name, ok := SplitStorageName(owner, e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, &models.StoredFile{Owner: owner, Name: name, Size: info.Size()})
	}

	return files, nil
}

// Stat returns metadata for one stored file.
func (s *DiskStore) Stat(ctx context.Context, owner, name string) (*models.StoredFile, error) {
	info, err := os.Stat(filepath.Join(s.dir, MakeStorageName(owner, name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	return &models.StoredFile{Owner: owner, Name: name, Size: info.Size()}, nil
}
