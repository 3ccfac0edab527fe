package service

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zsoro2/word-app/internal/domain"
	"github.com/zsoro2/word-app/internal/store"
)

// LoadState tracks where the library is in its load cycle.
type LoadState string

const (
	StateUnloaded LoadState = "unloaded"
	StateLoading  LoadState = "loading"
	StateReady    LoadState = "ready"
)

// LibraryService keeps an in-memory mirror of one user's words and folders
// consistent with the remote backend. Every mutation goes remote first and
// touches local state only after the acknowledgment, so a failed call leaves
// the mirror exactly as it was. The one exception is the folder-deletion
// workflow, whose word reassignments are not rolled back on a mid-sequence
// failure; callers should treat that failure as "state may need a reload".
type LibraryService struct {
	words   store.WordStore
	folders store.FolderStore
	logger  *zap.Logger

	mu         sync.RWMutex
	userID     string
	wordList   []domain.Word
	folderList []domain.Folder
	state      LoadState
	lastErr    error
}

// NewLibraryService creates an unloaded library.
func NewLibraryService(words store.WordStore, folders store.FolderStore, logger *zap.Logger) *LibraryService {
	return &LibraryService{
		words:   words,
		folders: folders,
		logger:  logger,
		state:   StateUnloaded,
	}
}

// BindTo makes session transitions the sole trigger for reload and clear.
func (s *LibraryService) BindTo(sessions *SessionManager) {
	sessions.Subscribe(func(u *domain.User) {
		if u == nil {
			s.Reset()
			return
		}
		if err := s.Load(context.Background(), u.ID); err != nil {
			s.logger.Error("reload after auth change failed", zap.Error(err))
		}
	})
}

// Load fetches all words and folders owned by userID, newest first, and
// replaces local state wholesale. On failure the collections are left empty,
// never stale, and the error is recorded for display.
func (s *LibraryService) Load(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.userID = userID
	s.state = StateLoading
	s.lastErr = nil
	s.mu.Unlock()

	var (
		words   []domain.Word
		folders []domain.Folder
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		words, err = s.words.ListWords(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		folders, err = s.folders.ListFolders(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		ferr := &domain.FetchError{Op: "load", Err: err}
		s.mu.Lock()
		s.wordList = nil
		s.folderList = nil
		s.state = StateUnloaded
		s.lastErr = ferr
		s.mu.Unlock()
		return ferr
	}

	s.mu.Lock()
	s.wordList = words
	s.folderList = folders
	s.state = StateReady
	s.mu.Unlock()

	s.logger.Info("library loaded",
		zap.String("user_id", userID),
		zap.Int("words", len(words)),
		zap.Int("folders", len(folders)),
	)
	return nil
}

// Reset discards all local state, returning the library to unloaded.
func (s *LibraryService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.wordList = nil
	s.folderList = nil
	s.state = StateUnloaded
	s.lastErr = nil
}

// State returns the current load state.
func (s *LibraryService) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsLoading reports whether a load is in flight.
func (s *LibraryService) IsLoading() bool {
	return s.State() == StateLoading
}

// Err returns the last recorded error, for display.
func (s *LibraryService) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *LibraryService) currentUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *LibraryService) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Words returns a copy of the word collection in its internal order.
func (s *LibraryService) Words() []domain.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Word, len(s.wordList))
	copy(out, s.wordList)
	return out
}

// Folders returns a copy of the folder collection in its internal order.
func (s *LibraryService) Folders() []domain.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Folder, len(s.folderList))
	copy(out, s.folderList)
	return out
}

// WordsInFolder returns the words filed under folderID, in internal order.
// An empty folderID returns the whole collection.
func (s *LibraryService) WordsInFolder(folderID string) []domain.Word {
	if folderID == "" {
		return s.Words()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Word
	for _, w := range s.wordList {
		if w.FolderID == folderID {
			out = append(out, w)
		}
	}
	return out
}

// FolderCounts returns the number of words filed under each folder id.
func (s *LibraryService) FolderCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int, len(s.folderList))
	for _, w := range s.wordList {
		counts[w.FolderID]++
	}
	return counts
}

// AddWord creates the word remotely and prepends the server-assigned record,
// preserving newest-first order. Term validation is the caller's concern.
func (s *LibraryService) AddWord(ctx context.Context, w domain.NewWord) (*domain.Word, error) {
	userID := s.currentUser()
	if userID == "" {
		return nil, &domain.WriteError{Op: "add word", Err: domain.ErrNoSession}
	}

	created, err := s.words.CreateWord(ctx, userID, w)
	if err != nil {
		werr := &domain.WriteError{Op: "add word", Err: err}
		s.recordErr(werr)
		return nil, werr
	}

	s.mu.Lock()
	s.wordList = append([]domain.Word{*created}, s.wordList...)
	s.mu.Unlock()
	return created, nil
}

// UpdateWord sends a partial update and replaces the matching local record
// with the server's returned one, picking up any server-side normalization.
func (s *LibraryService) UpdateWord(ctx context.Context, id string, patch domain.WordPatch) (*domain.Word, error) {
	updated, err := s.words.UpdateWord(ctx, id, patch)
	if err != nil {
		werr := &domain.WriteError{Op: "update word", Err: err}
		s.recordErr(werr)
		return nil, werr
	}

	s.mu.Lock()
	for i := range s.wordList {
		if s.wordList[i].ID == id {
			s.wordList[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// DeleteWord deletes remotely, then removes the matching local record.
// An id absent from the mirror leaves local state unchanged.
func (s *LibraryService) DeleteWord(ctx context.Context, id string) error {
	if err := s.words.DeleteWord(ctx, id); err != nil {
		werr := &domain.WriteError{Op: "delete word", Err: err}
		s.recordErr(werr)
		return werr
	}

	s.mu.Lock()
	kept := s.wordList[:0]
	for _, w := range s.wordList {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	s.wordList = kept
	s.mu.Unlock()
	return nil
}

// Shuffle produces a uniformly random permutation of the in-memory word
// collection. Local only: persisted order is untouched and no remote call
// is made.
func (s *LibraryService) Shuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	rand.Shuffle(len(s.wordList), func(i, j int) {
		s.wordList[i], s.wordList[j] = s.wordList[j], s.wordList[i]
	})
}

// AddFolder creates the folder remotely and prepends the server record.
func (s *LibraryService) AddFolder(ctx context.Context, f domain.NewFolder) (*domain.Folder, error) {
	userID := s.currentUser()
	if userID == "" {
		return nil, &domain.WriteError{Op: "add folder", Err: domain.ErrNoSession}
	}

	created, err := s.folders.CreateFolder(ctx, userID, f)
	if err != nil {
		werr := &domain.WriteError{Op: "add folder", Err: err}
		s.recordErr(werr)
		return nil, werr
	}

	s.mu.Lock()
	s.folderList = append([]domain.Folder{*created}, s.folderList...)
	s.mu.Unlock()
	return created, nil
}

// UpdateFolder sends a partial update and replaces the matching local record.
func (s *LibraryService) UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) (*domain.Folder, error) {
	updated, err := s.folders.UpdateFolder(ctx, id, patch)
	if err != nil {
		werr := &domain.WriteError{Op: "update folder", Err: err}
		s.recordErr(werr)
		return nil, werr
	}

	s.mu.Lock()
	for i := range s.folderList {
		if s.folderList[i].ID == id {
			s.folderList[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// DeleteFolder removes a folder after re-pointing its words to the first
// remaining folder. Reassignments go out in parallel; if one fails, the ones
// already applied remotely stay applied while local state is untouched, and
// the next full load reconciles the divergence. Deleting the last folder is
// refused outright.
func (s *LibraryService) DeleteFolder(ctx context.Context, id string) error {
	userID := s.currentUser()
	if userID == "" {
		return &domain.WriteError{Op: "delete folder", Err: domain.ErrNoSession}
	}

	s.mu.RLock()
	target := ""
	for _, f := range s.folderList {
		if f.ID != id {
			target = f.ID
			break
		}
	}
	s.mu.RUnlock()

	if target == "" {
		return &domain.WriteError{Op: "delete folder", Err: domain.ErrLastFolder}
	}

	// Re-point every remote word filed under the doomed folder.
	affected, err := s.words.ListWordsByFolder(ctx, userID, id)
	if err != nil {
		werr := &domain.WriteError{Op: "delete folder", Err: err}
		s.recordErr(werr)
		return werr
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range affected {
		w := w
		g.Go(func() error {
			_, err := s.words.UpdateWord(gctx, w.ID, domain.WordPatch{FolderID: &target})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		werr := &domain.WriteError{Op: "delete folder", Err: err}
		s.recordErr(werr)
		return werr
	}

	s.mu.Lock()
	for i := range s.wordList {
		if s.wordList[i].FolderID == id {
			s.wordList[i].FolderID = target
		}
	}
	s.mu.Unlock()

	if err := s.folders.DeleteFolder(ctx, id); err != nil {
		werr := &domain.WriteError{Op: "delete folder", Err: err}
		s.recordErr(werr)
		return werr
	}

	s.mu.Lock()
	kept := s.folderList[:0]
	for _, f := range s.folderList {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.folderList = kept
	s.mu.Unlock()

	s.logger.Info("folder deleted",
		zap.String("folder_id", id),
		zap.String("target_id", target),
		zap.Int("reassigned", len(affected)),
	)
	return nil
}
