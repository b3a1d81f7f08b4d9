// Package models defines server-side data models.
package models

// StoredFile describes one uploaded file as seen by its owner. The
// persisted identity is the storage name "<owner>_<name>"; Name here is
// the original name with the owner prefix already stripped.
type StoredFile struct {
	// Owner is the username the file belongs to.
	Owner string
	// Name is the original upload name.
	Name string
	// Size is the stored size in bytes.
	Size int64
}
