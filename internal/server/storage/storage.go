// Package storage persists uploaded files under owner-qualified names.
//
// The on-disk identity of a file is the storage name
// "<owner><Separator><original name>"; there is no separate metadata
// index. Ownership isolation therefore depends on the separator never
// appearing inside an owner or an original name, which ValidateComponent
// enforces for callers.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
)

// Separator joins the owner and the original name to form a storage name.
const Separator = "_"

// FileStore is the durable backend for uploaded files. Implementations
// must never expose a partially written object under its final storage
// name.
type FileStore interface {
	// Save writes the contents of r under the storage name for
	// (owner, name) and returns the stored size. An existing object
	// under the same storage name is replaced.
	Save(ctx context.Context, owner, name string, r io.Reader) (*models.StoredFile, error)

	// List returns the owner's files sorted by name. An owner with no
	// files yields an empty slice, not an error.
	List(ctx context.Context, owner string) ([]*models.StoredFile, error)

	// Stat returns metadata for one stored file, or common.ErrorNotFound.
	Stat(ctx context.Context, owner, name string) (*models.StoredFile, error)
}

// MakeStorageName builds the persisted name for an owner's file.
func MakeStorageName(owner, name string) string {
	return owner + Separator + name
}

// SplitStorageName strips the owner prefix from a storage name. The
// second return value is false when storageName does not belong to owner.
func SplitStorageName(owner, storageName string) (string, bool) {
	prefix := owner + Separator
	if !strings.HasPrefix(storageName, prefix) {
		return "", false
	}
	return storageName[len(prefix):], true
}

// ValidateComponent checks that s is usable as an owner or an original
// name: non-empty, no separator, no path separators. Violations return
// common.ErrorValidation.
func ValidateComponent(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty name", common.ErrorValidation)
	}
	if strings.Contains(s, Separator) {
		return fmt.Errorf("%w: name must not contain %q", common.ErrorValidation, Separator)
	}
	if strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%w: name must not contain path separators", common.ErrorValidation)
	}
	return nil
}
