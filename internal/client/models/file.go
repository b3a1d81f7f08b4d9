package models

// FileItem is one entry in the server's file listing.
type FileItem struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}
