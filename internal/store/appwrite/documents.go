package appwrite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/zsoro2/word-app/internal/domain"
)

// listLimit effectively means "all": collections here are per-user and small.
const listLimit = 5000

// Appwrite queries travel as JSON strings in the queries[] parameter.
func queryEqual(attribute, value string) string {
	q, _ := json.Marshal(map[string]any{
		"method":    "equal",
		"attribute": attribute,
		"values":    []string{value},
	})
	return string(q)
}

func queryOrderDesc(attribute string) string {
	q, _ := json.Marshal(map[string]any{
		"method":    "orderDesc",
		"attribute": attribute,
	})
	return string(q)
}

func queryLimit(n int) string {
	q, _ := json.Marshal(map[string]any{
		"method": "limit",
		"values": []int{n},
	})
	return string(q)
}

func (c *Client) documentsPath(collectionID string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", c.cfg.DatabaseID, collectionID)
}

type wordDocument struct {
	ID           string    `json:"$id"`
	CreatedAt    time.Time `json:"$createdAt"`
	UserID       string    `json:"userId"`
	FolderID     string    `json:"folderId"`
	LeftWord     string    `json:"leftWord"`
	LeftExample  string    `json:"leftExample"`
	RightWord    string    `json:"rightWord"`
	RightExample string    `json:"rightExample"`
}

func (d wordDocument) toDomain() (*domain.Word, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("malformed word document: missing $id")
	}
	return &domain.Word{
		ID:           d.ID,
		UserID:       d.UserID,
		FolderID:     d.FolderID,
		LeftWord:     d.LeftWord,
		LeftExample:  d.LeftExample,
		RightWord:    d.RightWord,
		RightExample: d.RightExample,
		CreatedAt:    d.CreatedAt,
	}, nil
}

type folderDocument struct {
	ID        string    `json:"$id"`
	CreatedAt time.Time `json:"$createdAt"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
}

func (d folderDocument) toDomain() (*domain.Folder, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("malformed folder document: missing $id")
	}
	return &domain.Folder{
		ID:        d.ID,
		UserID:    d.UserID,
		Name:      d.Name,
		Color:     d.Color,
		CreatedAt: d.CreatedAt,
	}, nil
}

func (c *Client) listWords(ctx context.Context, queries []string) ([]domain.Word, error) {
	params := url.Values{"queries[]": queries}

	var payload struct {
		Total     int            `json:"total"`
		Documents []wordDocument `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, c.documentsPath(c.cfg.WordsCollectionID), params, nil, &payload); err != nil {
		return nil, err
	}

	words := make([]domain.Word, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		w, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		words = append(words, *w)
	}
	return words, nil
}

// ListWords returns all of the user's words, newest first.
func (c *Client) ListWords(ctx context.Context, userID string) ([]domain.Word, error) {
	return c.listWords(ctx, []string{
		queryEqual("userId", userID),
		queryOrderDesc("$createdAt"),
		queryLimit(listLimit),
	})
}

// ListWordsByFolder returns the user's words filed under one folder, newest first.
func (c *Client) ListWordsByFolder(ctx context.Context, userID, folderID string) ([]domain.Word, error) {
	return c.listWords(ctx, []string{
		queryEqual("userId", userID),
		queryEqual("folderId", folderID),
		queryOrderDesc("$createdAt"),
		queryLimit(listLimit),
	})
}

// CreateWord creates a word document tagged with the owning user.
func (c *Client) CreateWord(ctx context.Context, userID string, w domain.NewWord) (*domain.Word, error) {
	body := map[string]any{
		"documentId": "unique()",
		"data": map[string]string{
			"userId":       userID,
			"folderId":     w.FolderID,
			"leftWord":     w.LeftWord,
			"leftExample":  w.LeftExample,
			"rightWord":    w.RightWord,
			"rightExample": w.RightExample,
		},
	}

	var doc wordDocument
	if err := c.do(ctx, http.MethodPost, c.documentsPath(c.cfg.WordsCollectionID), nil, body, &doc); err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// UpdateWord sends a partial update and returns the server's full record.
func (c *Client) UpdateWord(ctx context.Context, id string, patch domain.WordPatch) (*domain.Word, error) {
	data := map[string]string{}
	if patch.FolderID != nil {
		data["folderId"] = *patch.FolderID
	}
	if patch.LeftWord != nil {
		data["leftWord"] = *patch.LeftWord
	}
	if patch.LeftExample != nil {
		data["leftExample"] = *patch.LeftExample
	}
	if patch.RightWord != nil {
		data["rightWord"] = *patch.RightWord
	}
	if patch.RightExample != nil {
		data["rightExample"] = *patch.RightExample
	}

	var doc wordDocument
	path := c.documentsPath(c.cfg.WordsCollectionID) + "/" + id
	if err := c.do(ctx, http.MethodPatch, path, nil, map[string]any{"data": data}, &doc); err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// DeleteWord deletes a word document.
func (c *Client) DeleteWord(ctx context.Context, id string) error {
	path := c.documentsPath(c.cfg.WordsCollectionID) + "/" + id
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ListFolders returns all of the user's folders, newest first.
func (c *Client) ListFolders(ctx context.Context, userID string) ([]domain.Folder, error) {
	params := url.Values{"queries[]": []string{
		queryEqual("userId", userID),
		queryOrderDesc("$createdAt"),
		queryLimit(listLimit),
	}}

	var payload struct {
		Total     int              `json:"total"`
		Documents []folderDocument `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, c.documentsPath(c.cfg.FoldersCollectionID), params, nil, &payload); err != nil {
		return nil, err
	}

	folders := make([]domain.Folder, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		f, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		folders = append(folders, *f)
	}
	return folders, nil
}

// CreateFolder creates a folder document tagged with the owning user.
func (c *Client) CreateFolder(ctx context.Context, userID string, f domain.NewFolder) (*domain.Folder, error) {
	color := f.Color
	if color == "" {
		color = domain.DefaultFolderColor
	}

	body := map[string]any{
		"documentId": "unique()",
		"data": map[string]string{
			"userId": userID,
			"name":   f.Name,
			"color":  color,
		},
	}

	var doc folderDocument
	if err := c.do(ctx, http.MethodPost, c.documentsPath(c.cfg.FoldersCollectionID), nil, body, &doc); err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// UpdateFolder sends a partial update and returns the server's full record.
func (c *Client) UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) (*domain.Folder, error) {
	data := map[string]string{}
	if patch.Name != nil {
		data["name"] = *patch.Name
	}
	if patch.Color != nil {
		data["color"] = *patch.Color
	}

	var doc folderDocument
	path := c.documentsPath(c.cfg.FoldersCollectionID) + "/" + id
	if err := c.do(ctx, http.MethodPatch, path, nil, map[string]any{"data": data}, &doc); err != nil {
		return nil, err
	}
	return doc.toDomain()
}

// DeleteFolder deletes a folder document. Reassigning its words is the
// synchronizer's job, not the driver's.
func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	path := c.documentsPath(c.cfg.FoldersCollectionID) + "/" + id
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
