// Package postgres implements the store interfaces against a self-hosted
// PostgreSQL database, as an alternative to the hosted Appwrite backend.
// Identifiers are assigned here, so the core still sees them as server-side.
package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/zsoro2/word-app/internal/domain"
	"github.com/zsoro2/word-app/internal/store"
)

// WordRepo implements store.WordStore
type WordRepo struct {
	db *sql.DB
}

var _ store.WordStore = (*WordRepo)(nil)

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

const wordColumns = "id, user_id, folder_id, left_word, left_example, right_word, right_example, created_at"

func scanWord(row interface{ Scan(...any) error }) (*domain.Word, error) {
	var w domain.Word
	err := row.Scan(
		&w.ID, &w.UserID, &w.FolderID,
		&w.LeftWord, &w.LeftExample, &w.RightWord, &w.RightExample,
		&w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WordRepo) list(ctx context.Context, query string, args ...any) ([]domain.Word, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, *w)
	}
	return words, rows.Err()
}

// ListWords returns all of the user's words, newest first.
func (r *WordRepo) ListWords(ctx context.Context, userID string) ([]domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

// ListWordsByFolder returns the user's words filed under one folder, newest first.
func (r *WordRepo) ListWordsByFolder(ctx context.Context, userID, folderID string) ([]domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE user_id = $1 AND folder_id = $2
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID, folderID)
}

// CreateWord inserts a word and returns the stored record.
func (r *WordRepo) CreateWord(ctx context.Context, userID string, w domain.NewWord) (*domain.Word, error) {
	query := `
		INSERT INTO words (id, user_id, folder_id, left_word, left_example, right_word, right_example)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + wordColumns + `
	`
	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), userID, w.FolderID,
		w.LeftWord, w.LeftExample, w.RightWord, w.RightExample,
	)
	return scanWord(row)
}

// UpdateWord applies a partial update and returns the full stored record.
func (r *WordRepo) UpdateWord(ctx context.Context, id string, patch domain.WordPatch) (*domain.Word, error) {
	sets := []string{}
	args := []any{id}

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
		}
	}
	add("folder_id", patch.FolderID)
	add("left_word", patch.LeftWord)
	add("left_example", patch.LeftExample)
	add("right_word", patch.RightWord)
	add("right_example", patch.RightExample)

	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`
	if len(sets) > 0 {
		query = `
		UPDATE words
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING ` + wordColumns + `
	`
	}
	return scanWord(r.db.QueryRowContext(ctx, query, args...))
}

// DeleteWord deletes a word. Deleting an id that is already gone is not an error.
func (r *WordRepo) DeleteWord(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM words WHERE id = $1`, id)
	return err
}
