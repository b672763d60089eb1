package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notemap-backend/application/ports"
	"notemap-backend/application/services"
	"notemap-backend/domain/core/entities"
	domainservices "notemap-backend/domain/services"
	"notemap-backend/infrastructure/persistence/memory"
	"notemap-backend/interfaces/http/rest/handlers"
	"notemap-backend/pkg/auth"
)

const testSecret = "router-test-secret"

// stubDrive mirrors into memory, good enough to drive the HTTP surface
type stubDrive struct {
	renderer *domainservices.MarkdownRenderer
	upserts  int
}

func (s *stubDrive) Upsert(ctx context.Context, note *entities.Note, cred entities.DriveCredential) (ports.ExternalRef, error) {
	s.upserts++
	_ = s.renderer.RenderDrive(note)
	return ports.ExternalRef(fmt.Sprintf("drive-file-%d", s.upserts)), nil
}

func (s *stubDrive) Delete(ctx context.Context, ref ports.ExternalRef, cred entities.DriveCredential) error {
	return nil
}

type stubGitHub struct{}

func (stubGitHub) Upsert(ctx context.Context, note *entities.Note, cred entities.GitHubCredential, owner, repo string) (ports.ExternalRef, error) {
	return ports.ExternalRef("notes/stub.md"), nil
}

func (stubGitHub) Delete(ctx context.Context, ref ports.ExternalRef, cred entities.GitHubCredential, owner, repo string) error {
	return nil
}

type stubRefresher struct{}

func (stubRefresher) Refresh(ctx context.Context, cred entities.DriveCredential) (entities.DriveCredential, error) {
	return cred, nil
}

type stubExchanger struct{}

func (stubExchanger) AuthURL(state string) string { return "https://example.com/consent?state=" + state }

func (stubExchanger) Exchange(ctx context.Context, code string) (entities.DriveCredential, error) {
	return entities.DriveCredential{AccessToken: "exchanged", Expiry: time.Now().Add(time.Hour)}, nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	connections := memory.NewConnectionRepository()
	notes := memory.NewNoteRepository(connections)
	users := memory.NewUserRepository()

	user, err := entities.NewUser("user-1", "user@example.com", "Test User")
	require.NoError(t, err)
	prefs := user.Preferences()
	prefs.AutoSync = false
	user.SetPreferences(prefs)
	require.NoError(t, users.Save(context.Background(), user))

	renderer := domainservices.NewMarkdownRenderer()
	creds := services.NewCredentialService(users, stubRefresher{}, stubExchanger{}, ports.SystemClock{}, logger)
	sync := services.NewSyncService(notes, creds, &stubDrive{renderer: renderer}, stubGitHub{}, 2, logger)

	noteSvc := services.NewNoteService(notes, users, sync, logger)
	connSvc := services.NewConnectionService(connections, logger)
	transferSvc := services.NewTransferService(notes, connections, logger)
	userSvc := services.NewUserService(users)

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        "notemap-backend",
	})
	require.NoError(t, err)

	h := Handlers{
		Notes:       handlers.NewNoteHandler(noteSvc, logger),
		Connections: handlers.NewConnectionHandler(connSvc, logger),
		Sync:        handlers.NewSyncHandler(sync, logger),
		Transfer:    handlers.NewTransferHandler(transferSvc, logger),
		Preferences: handlers.NewPreferencesHandler(userSvc, logger),
		Credentials: handlers.NewCredentialHandler(creds, logger),
		Health:      handlers.NewHealthHandler("test", nil),
	}

	return NewRouter(h, validator, auth.NewRateLimiter(1000), []string{"*"}, logger)
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	claims := auth.Claims{
		UserID: userID,
		Email:  "user@example.com",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "notemap-backend",
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticationRequired(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes", "Bearer garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNoteCRUDOverHTTP(t *testing.T) {
	router := newTestServer(t)
	token := bearerToken(t, "user-1")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/notes", token, map[string]interface{}{
		"title": "First Note", "content": "hello", "x": 10, "y": 20, "tags": []string{"a"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Color string `json:"color"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, entities.DefaultNoteColor, created.Color)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Notes []json.RawMessage `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed.Notes, 1)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/notes/"+created.ID, token, map[string]interface{}{
		"title": "Renamed",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/notes/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoteValidationOverHTTP(t *testing.T) {
	router := newTestServer(t)
	token := bearerToken(t, "user-1")

	// Missing coordinates.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/notes", token, map[string]interface{}{
		"title": "No coords",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed id.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreferencesOverHTTP(t *testing.T) {
	router := newTestServer(t)
	token := bearerToken(t, "user-1")

	rec := doJSON(t, router, http.MethodPut, "/api/v1/user/preferences", token, map[string]interface{}{
		"autoSync": true, "autoCommit": true, "defaultColor": "#101010",
		"githubOwner": "octocat", "githubRepo": "notes",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/user/preferences", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var prefs struct {
		AutoCommit   bool   `json:"autoCommit"`
		DefaultColor string `json:"defaultColor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prefs))
	assert.True(t, prefs.AutoCommit)
	assert.Equal(t, "#101010", prefs.DefaultColor)
}

func TestSyncOverHTTP(t *testing.T) {
	router := newTestServer(t)
	token := bearerToken(t, "user-1")

	// Not connected to drive yet: the whole batch fails fast.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sync/drive", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sync/dropbox", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Connect github via direct token, then batch-sync into a repo.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/github/token", token, map[string]string{"token": "ghp_x"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/notes", token, map[string]interface{}{
		"title": "Synced", "x": 0, "y": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sync/github", token, map[string]string{
		"owner": "octocat", "repo": "notes",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Results []struct {
			Status string `json:"status"`
		} `json:"results"`
		Summary struct {
			Succeeded int `json:"succeeded"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Results, 1)
	assert.Equal(t, "success", result.Results[0].Status)
	assert.Equal(t, 1, result.Summary.Succeeded)
}

func TestExportImportOverHTTP(t *testing.T) {
	router := newTestServer(t)
	token := bearerToken(t, "user-1")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/notes", token, map[string]interface{}{
		"title": "Exported", "x": 1, "y": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload services.ExportPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Notes, 1)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/import", token, map[string]interface{}{
		"clearExisting": false,
		"notes":         payload.Notes,
		"connections":   payload.Connections,
		"exportDate":    payload.ExportDate,
		"version":       payload.Version,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var counts services.ImportCounts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts.Notes)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/notes", token, nil)
	var listed struct {
		Notes []json.RawMessage `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed.Notes, 2)
}

func TestAuthStatusOverHTTP(t *testing.T) {
	router := newTestServer(t)
	token := bearerToken(t, "user-1")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/auth/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status["drive"])
	assert.False(t, status["github"])

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/drive/url", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var urlResp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &urlResp))
	assert.Contains(t, urlResp["url"], "state=")
}
