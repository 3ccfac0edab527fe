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

// FolderRepo implements store.FolderStore
type FolderRepo struct {
	db *sql.DB
}

var _ store.FolderStore = (*FolderRepo)(nil)

// NewFolderRepo creates a new folder repository
func NewFolderRepo(db *sql.DB) *FolderRepo {
	return &FolderRepo{db: db}
}

const folderColumns = "id, user_id, name, color, created_at"

func scanFolder(row interface{ Scan(...any) error }) (*domain.Folder, error) {
	var f domain.Folder
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFolders returns all of the user's folders, newest first.
func (r *FolderRepo) ListFolders(ctx context.Context, userID string) ([]domain.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []domain.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *f)
	}
	return folders, rows.Err()
}

// CreateFolder inserts a folder and returns the stored record.
func (r *FolderRepo) CreateFolder(ctx context.Context, userID string, f domain.NewFolder) (*domain.Folder, error) {
	color := f.Color
	if color == "" {
		color = domain.DefaultFolderColor
	}

	query := `
		INSERT INTO folders (id, user_id, name, color)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + folderColumns + `
	`
	row := r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, f.Name, color)
	return scanFolder(row)
}

// UpdateFolder applies a partial update and returns the full stored record.
func (r *FolderRepo) UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) (*domain.Folder, error) {
	sets := []string{}
	args := []any{id}

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
		}
	}
	add("name", patch.Name)
	add("color", patch.Color)

	query := `SELECT ` + folderColumns + ` FROM folders WHERE id = $1`
	if len(sets) > 0 {
		query = `
		UPDATE folders
		SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING ` + folderColumns + `
	`
	}
	return scanFolder(r.db.QueryRowContext(ctx, query, args...))
}

// DeleteFolder deletes a folder record. Word reassignment is handled above
// this layer, before the delete is issued.
func (r *FolderRepo) DeleteFolder(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	return err
}
