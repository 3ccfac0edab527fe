package store

import (
	"context"

	"github.com/zsoro2/word-app/internal/domain"
)

// WordStore defines word document operations against the remote backend.
// All listings are ordered by creation time, newest first.
type WordStore interface {
	ListWords(ctx context.Context, userID string) ([]domain.Word, error)
	ListWordsByFolder(ctx context.Context, userID, folderID string) ([]domain.Word, error)
	CreateWord(ctx context.Context, userID string, w domain.NewWord) (*domain.Word, error)
	UpdateWord(ctx context.Context, id string, patch domain.WordPatch) (*domain.Word, error)
	DeleteWord(ctx context.Context, id string) error
}

// FolderStore defines folder document operations against the remote backend.
type FolderStore interface {
	ListFolders(ctx context.Context, userID string) ([]domain.Folder, error)
	CreateFolder(ctx context.Context, userID string, f domain.NewFolder) (*domain.Folder, error)
	UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) (*domain.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
}

// AccountStore defines account and session operations. Implementations hold
// the active session token internally, so one instance serves one identity.
type AccountStore interface {
	SignUp(ctx context.Context, name, email, password string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	Current(ctx context.Context) (*domain.User, error)
	SignOut(ctx context.Context) error
	UpdateName(ctx context.Context, name string) (*domain.User, error)
}

// Backend bundles the three stores of a single backend connection.
type Backend struct {
	Accounts AccountStore
	Words    WordStore
	Folders  FolderStore
}

// Factory produces a fresh Backend. Account session state is per identity,
// so each chat session gets its own Backend instance.
type Factory func() Backend
