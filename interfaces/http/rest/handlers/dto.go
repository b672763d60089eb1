package handlers

import (
	"time"

	"notemap-backend/domain/core/entities"
)

type noteResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Color        string   `json:"color"`
	Tags         []string `json:"tags"`
	DriveFileID  string   `json:"driveFileId,omitempty"`
	GitHubPath   string   `json:"githubPath,omitempty"`
	CreatedAt    string   `json:"createdAt"`
	LastModified string   `json:"lastModified"`
}

func toNoteResponse(note *entities.Note) noteResponse {
	return noteResponse{
		ID:           note.ID(),
		Title:        note.Title(),
		Content:      note.Content(),
		X:            note.X(),
		Y:            note.Y(),
		Color:        note.Color(),
		Tags:         note.Tags(),
		DriveFileID:  note.DriveFileID(),
		GitHubPath:   note.GitHubPath(),
		CreatedAt:    note.CreatedAt().UTC().Format(time.RFC3339),
		LastModified: note.LastModified().UTC().Format(time.RFC3339),
	}
}

func toNoteResponses(notes []*entities.Note) []noteResponse {
	out := make([]noteResponse, len(notes))
	for i, note := range notes {
		out[i] = toNoteResponse(note)
	}
	return out
}

type connectionResponse struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	CreatedAt string `json:"createdAt"`
}

func toConnectionResponse(conn *entities.Connection) connectionResponse {
	return connectionResponse{
		ID:        conn.ID(),
		From:      conn.From(),
		To:        conn.To(),
		CreatedAt: conn.CreatedAt().UTC().Format(time.RFC3339),
	}
}

type preferencesBody struct {
	AutoSync     bool   `json:"autoSync"`
	AutoCommit   bool   `json:"autoCommit"`
	DefaultColor string `json:"defaultColor"`
	GitHubOwner  string `json:"githubOwner,omitempty"`
	GitHubRepo   string `json:"githubRepo,omitempty"`
}

func toPreferencesBody(prefs entities.Preferences) preferencesBody {
	return preferencesBody{
		AutoSync:     prefs.AutoSync,
		AutoCommit:   prefs.AutoCommit,
		DefaultColor: prefs.DefaultColor,
		GitHubOwner:  prefs.GitHubOwner,
		GitHubRepo:   prefs.GitHubRepo,
	}
}
