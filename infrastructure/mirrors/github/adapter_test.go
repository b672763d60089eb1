package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notemap-backend/domain/core/entities"
	"notemap-backend/domain/services"
)

type contentRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

type fakeRepo struct {
	getCalls int
	putCalls int
	lastPut  contentRequest
	// existingSHA, when set, makes GetContents return a file with that SHA
	existingSHA string
}

func newFakeRepo(t *testing.T) (*fakeRepo, *Adapter) {
	t.Helper()
	f := &fakeRepo{}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/notes/contents/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.getCalls++
			if f.existingSHA == "" {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not Found"}`)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"type":"file","name":"note.md","path":"%s","sha":"%s"}`,
				r.URL.Path, f.existingSHA)
		case http.MethodPut:
			f.putCalls++
			require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastPut))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"content":{"sha":"new-sha"},"commit":{"sha":"commit-sha"}}`)
		case http.MethodDelete:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"commit":{"sha":"commit-sha"}}`)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	adapter := NewAdapterWithBaseURL(services.NewMarkdownRenderer(), zap.NewNop(), baseURL)
	return f, adapter
}

func testNote(t *testing.T, title string) *entities.Note {
	t.Helper()
	note, err := entities.NewNote("user-1", title, "Some body text.", 1, 2, "#fff", []string{"tag"})
	require.NoError(t, err)
	return note
}

func TestNotePath(t *testing.T) {
	cases := map[string]string{
		"Groceries":         "notes/Groceries.md",
		"Hello, World!":     "notes/Hello__World_.md",
		"2026 Plans":        "notes/2026_Plans.md",
		"notes/../../etc":   "notes/notes_______etc.md",
		"Ünïcödé":           "notes/_n_c_d_.md",
		"already_underscor": "notes/already_underscor.md",
	}
	for title, want := range cases {
		assert.Equal(t, want, NotePath(title), "title %q", title)
	}
}

func TestUpsertCreatesWithoutSHA(t *testing.T) {
	f, adapter := newFakeRepo(t)
	note := testNote(t, "Fresh Note")

	ref, err := adapter.Upsert(context.Background(), note, entities.GitHubCredential{Token: "ghp_x"}, "octocat", "notes")

	require.NoError(t, err)
	assert.Equal(t, "notes/Fresh_Note.md", string(ref))
	assert.Equal(t, 1, f.getCalls)
	assert.Equal(t, 1, f.putCalls)
	assert.Empty(t, f.lastPut.SHA, "create commits carry no revision marker")
	assert.Equal(t, "Add note: Fresh Note", f.lastPut.Message)

	body, err := base64.StdEncoding.DecodeString(f.lastPut.Content)
	require.NoError(t, err)
	assert.Contains(t, string(body), "# Fresh Note\n")
	assert.Contains(t, string(body), "Tags: tag\n")
}

func TestUpsertUpdatesWithPriorSHA(t *testing.T) {
	f, adapter := newFakeRepo(t)
	f.existingSHA = "abc123"
	note := testNote(t, "Existing Note")

	ref, err := adapter.Upsert(context.Background(), note, entities.GitHubCredential{Token: "ghp_x"}, "octocat", "notes")

	require.NoError(t, err)
	assert.Equal(t, "notes/Existing_Note.md", string(ref))
	assert.Equal(t, 1, f.getCalls, "the prior SHA is fetched exactly once")
	assert.Equal(t, "abc123", f.lastPut.SHA)
	assert.Equal(t, "Update note: Existing Note", f.lastPut.Message)
}

func TestDeleteMissingFileIsSuccess(t *testing.T) {
	f, adapter := newFakeRepo(t)

	err := adapter.Delete(context.Background(), "notes/Gone.md", entities.GitHubCredential{Token: "ghp_x"}, "octocat", "notes")

	require.NoError(t, err)
	assert.Equal(t, 1, f.getCalls)
	assert.Zero(t, f.putCalls)
}

func TestDeleteExistingFile(t *testing.T) {
	f, adapter := newFakeRepo(t)
	f.existingSHA = "abc123"

	err := adapter.Delete(context.Background(), "notes/Here.md", entities.GitHubCredential{Token: "ghp_x"}, "octocat", "notes")

	require.NoError(t, err)
	assert.Equal(t, 1, f.getCalls)
}
