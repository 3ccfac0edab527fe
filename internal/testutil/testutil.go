package testutil

import (
	"time"

	"go.uber.org/zap"

	"github.com/zsoro2/word-app/internal/domain"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(id, name, email string) *domain.User {
	return &domain.User{
		ID:    id,
		Name:  name,
		Email: email,
	}
}

// NewTestWord creates a test word
func NewTestWord(id, userID, folderID, left, right string) *domain.Word {
	return &domain.Word{
		ID:        id,
		UserID:    userID,
		FolderID:  folderID,
		LeftWord:  left,
		RightWord: right,
		CreatedAt: time.Now(),
	}
}

// NewTestFolder creates a test folder
func NewTestFolder(id, userID, name string) *domain.Folder {
	return &domain.Folder{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Color:     domain.DefaultFolderColor,
		CreatedAt: time.Now(),
	}
}
