package domain

import "time"

// DefaultFolderColor is used when a folder is created without a color.
const DefaultFolderColor = "#6366F1"

// Folder is a named, colored grouping of words
type Folder struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	CreatedAt time.Time
}

// NewFolder holds the caller-supplied fields for creating a folder.
type NewFolder struct {
	Name  string
	Color string
}

// FolderPatch is a partial update; nil fields are left untouched.
type FolderPatch struct {
	Name  *string
	Color *string
}
