package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/server/config"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
	"github.com/dmitrijs2005/dropvault/internal/server/storage"
)

// FileService validates upload names and applies the overwrite policy in
// front of the storage backend. The owner value always comes from the
// authenticated request, never from client input.
type FileService struct {
	store   storage.FileStore
	replace bool
}

// NewFileService constructs a FileService over the given backend.
func NewFileService(store storage.FileStore, cfg *config.Config) *FileService {
	return &FileService{
		store:   store,
		replace: cfg.Overwrite == config.OverwriteReplace,
	}
}

// Save stores the upload for owner under name. An invalid name yields
// common.ErrorValidation; under the default reject policy, a name the
// owner already used yields common.ErrorAlreadyExists.
func (s *FileService) Save(ctx context.Context, owner, name string, r io.Reader) (*models.StoredFile, error) {

	if err := storage.ValidateComponent(name); err != nil {
		return nil, err
	}

	if !s.replace {
		_, err := s.store.Stat(ctx, owner, name)
		if err == nil {
			return nil, common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error checking existing file: %w", err)
		}
	}

	f, err := s.store.Save(ctx, owner, name, r)
	if err != nil {
		return nil, fmt.Errorf("error saving file: %w", err)
	}
	return f, nil
}

// List returns the owner's files sorted by name; an owner without files
// gets an empty slice.
func (s *FileService) List(ctx context.Context, owner string) ([]*models.StoredFile, error) {
	files, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return files, nil
}
