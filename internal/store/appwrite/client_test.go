package appwrite

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zsoro2/word-app/internal/domain"
)

// recordedRequest captures what the client actually sent.
type recordedRequest struct {
	Method  string
	Path    string
	Queries []string
	Body    map[string]any
	Headers http.Header
}

// newTestClient spins up a fake Appwrite endpoint. The handler decides
// the response; every request the client makes is appended to requests.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]recordedRequest) {
	t.Helper()

	requests := &[]recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Queries: r.URL.Query()["queries[]"],
			Headers: r.Header.Clone(),
		}
		if payload, err := io.ReadAll(r.Body); err == nil && len(payload) > 0 {
			_ = json.Unmarshal(payload, &rec.Body)
		}
		*requests = append(*requests, rec)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		Endpoint:            srv.URL,
		Project:             "proj-1",
		DatabaseID:          "db-1",
		WordsCollectionID:   "words",
		FoldersCollectionID: "folders",
	})
	return client, requests
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_SignIn(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/account/sessions/email":
			respondJSON(w, http.StatusCreated, map[string]string{"secret": "s3cr3t"})
		case "/account":
			respondJSON(w, http.StatusOK, map[string]string{
				"$id": "user-1", "name": "Test", "email": "test@example.com",
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	user, err := client.SignIn(context.Background(), "test@example.com", "secret123")

	assert.NoError(t, err)
	assert.Equal(t, &domain.User{ID: "user-1", Name: "Test", Email: "test@example.com"}, user)

	assert.Len(t, *requests, 2)
	login := (*requests)[0]
	assert.Equal(t, http.MethodPost, login.Method)
	assert.Equal(t, "proj-1", login.Headers.Get("X-Appwrite-Project"))
	assert.Empty(t, login.Headers.Get("X-Appwrite-Session"))
	assert.Equal(t, "test@example.com", login.Body["email"])

	// The account fetch rides on the freshly minted session.
	assert.Equal(t, "s3cr3t", (*requests)[1].Headers.Get("X-Appwrite-Session"))
}

func TestClient_SignInBadCredentials(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusUnauthorized, map[string]any{
			"message": "Invalid credentials",
			"code":    401,
			"type":    "user_invalid_credentials",
		})
	})

	_, err := client.SignIn(context.Background(), "test@example.com", "nope")

	assert.ErrorContains(t, err, "Invalid credentials")
	var apiErr *apiError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Code)
}

func TestClient_SignUp(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/account" && r.Method == http.MethodPost:
			respondJSON(w, http.StatusCreated, map[string]string{"$id": "user-1"})
		case r.URL.Path == "/account/sessions/email":
			respondJSON(w, http.StatusCreated, map[string]string{"secret": "s3cr3t"})
		case r.URL.Path == "/account" && r.Method == http.MethodGet:
			respondJSON(w, http.StatusOK, map[string]string{
				"$id": "user-1", "name": "Test", "email": "test@example.com",
			})
		}
	})

	user, err := client.SignUp(context.Background(), "Test", "test@example.com", "secret123")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	create := (*requests)[0]
	assert.Equal(t, "unique()", create.Body["userId"])
	assert.Equal(t, "Test", create.Body["name"])
}

func TestClient_SignOutDropsSessionOnRemoteFailure(t *testing.T) {
	var signOuts int
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/account/sessions/email":
			respondJSON(w, http.StatusCreated, map[string]string{"secret": "s3cr3t"})
		case "/account":
			respondJSON(w, http.StatusOK, map[string]string{"$id": "user-1"})
		case "/account/sessions/current":
			signOuts++
			respondJSON(w, http.StatusInternalServerError, map[string]any{
				"message": "server exploded", "code": 500, "type": "general_unknown",
			})
		}
	})

	_, err := client.SignIn(context.Background(), "test@example.com", "secret123")
	assert.NoError(t, err)

	err = client.SignOut(context.Background())
	assert.ErrorContains(t, err, "server exploded")
	assert.Equal(t, 1, signOuts)

	// The secret is gone despite the failure: later calls go out unauthenticated.
	_, _ = client.Current(context.Background())
	last := (*requests)[len(*requests)-1]
	assert.Empty(t, last.Headers.Get("X-Appwrite-Session"))
}

func TestClient_UpdateName(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"$id": "user-1", "name": "New", "email": "test@example.com",
		})
	})

	user, err := client.UpdateName(context.Background(), "New")

	assert.NoError(t, err)
	assert.Equal(t, "New", user.Name)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/account/name", req.Path)
	assert.Equal(t, "New", req.Body["name"])
}

func TestClient_ListWords(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"total": 1,
			"documents": []map[string]any{{
				"$id":          "word-1",
				"$createdAt":   "2024-03-01T12:00:00.000Z",
				"userId":       "user-1",
				"folderId":     "folder-1",
				"leftWord":     "hola",
				"rightWord":    "hello",
				"leftExample":  "hola amigo",
				"rightExample": "hello friend",
			}},
		})
	})

	words, err := client.ListWords(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, words, 1)
	assert.Equal(t, "word-1", words[0].ID)
	assert.Equal(t, "hola", words[0].LeftWord)
	assert.Equal(t, 2024, words[0].CreatedAt.Year())

	req := (*requests)[0]
	assert.Equal(t, "/databases/db-1/collections/words/documents", req.Path)
	assert.Equal(t, []string{
		`{"attribute":"userId","method":"equal","values":["user-1"]}`,
		`{"attribute":"$createdAt","method":"orderDesc"}`,
		`{"method":"limit","values":[5000]}`,
	}, req.Queries)
}

func TestClient_ListWordsByFolder(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{"total": 0, "documents": []any{}})
	})

	words, err := client.ListWordsByFolder(context.Background(), "user-1", "folder-1")

	assert.NoError(t, err)
	assert.Empty(t, words)
	assert.Contains(t, (*requests)[0].Queries,
		`{"attribute":"folderId","method":"equal","values":["folder-1"]}`)
}

func TestClient_ListWordsMalformedDocument(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"total":     1,
			"documents": []map[string]any{{"userId": "user-1"}},
		})
	})

	_, err := client.ListWords(context.Background(), "user-1")
	assert.ErrorContains(t, err, "missing $id")
}

func TestClient_CreateWord(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusCreated, map[string]any{
			"$id":        "word-9",
			"$createdAt": "2024-03-01T12:00:00.000Z",
			"userId":     "user-1",
			"folderId":   "folder-1",
			"leftWord":   "hola",
			"rightWord":  "hello",
		})
	})

	word, err := client.CreateWord(context.Background(), "user-1", domain.NewWord{
		FolderID:  "folder-1",
		LeftWord:  "hola",
		RightWord: "hello",
	})

	assert.NoError(t, err)
	assert.Equal(t, "word-9", word.ID)

	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "unique()", req.Body["documentId"])
	data := req.Body["data"].(map[string]any)
	assert.Equal(t, "user-1", data["userId"])
	assert.Equal(t, "hola", data["leftWord"])
}

func TestClient_UpdateWordSendsOnlyPatchedFields(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"$id": "word-1", "userId": "user-1", "folderId": "folder-2",
		})
	})

	folderID := "folder-2"
	word, err := client.UpdateWord(context.Background(), "word-1", domain.WordPatch{FolderID: &folderID})

	assert.NoError(t, err)
	assert.Equal(t, "folder-2", word.FolderID)

	req := (*requests)[0]
	assert.Equal(t, "/databases/db-1/collections/words/documents/word-1", req.Path)
	data := req.Body["data"].(map[string]any)
	assert.Equal(t, map[string]any{"folderId": "folder-2"}, data)
}

func TestClient_DeleteWord(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.DeleteWord(context.Background(), "word-1")

	assert.NoError(t, err)
	req := (*requests)[0]
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/databases/db-1/collections/words/documents/word-1", req.Path)
}

func TestClient_CreateFolderDefaultsColor(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusCreated, map[string]any{
			"$id": "folder-1", "userId": "user-1", "name": "Spanish", "color": domain.DefaultFolderColor,
		})
	})

	folder, err := client.CreateFolder(context.Background(), "user-1", domain.NewFolder{Name: "Spanish"})

	assert.NoError(t, err)
	assert.Equal(t, domain.DefaultFolderColor, folder.Color)

	data := (*requests)[0].Body["data"].(map[string]any)
	assert.Equal(t, domain.DefaultFolderColor, data["color"])
}
