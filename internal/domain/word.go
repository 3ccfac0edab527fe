package domain

import "time"

// Word is a bidirectional term pair filed under exactly one folder.
// ID and CreatedAt are assigned by the backend.
type Word struct {
	ID           string
	UserID       string
	FolderID     string
	LeftWord     string
	LeftExample  string
	RightWord    string
	RightExample string
	CreatedAt    time.Time
}

// NewWord holds the caller-supplied fields for creating a word.
type NewWord struct {
	FolderID     string
	LeftWord     string
	LeftExample  string
	RightWord    string
	RightExample string
}

// WordPatch is a partial update; nil fields are left untouched.
type WordPatch struct {
	FolderID     *string
	LeftWord     *string
	LeftExample  *string
	RightWord    *string
	RightExample *string
}
