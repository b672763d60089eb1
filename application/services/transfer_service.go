package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	pkgerrors "notemap-backend/pkg/errors"
)

// ExportVersion is stamped on every export payload; importers must check it
// before reading anything else.
const ExportVersion = "1.0"

// ExportedNote is the wire form of a note in an export payload
type ExportedNote struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	X            float64   `json:"x"`
	Y            float64   `json:"y"`
	Color        string    `json:"color"`
	Tags         []string  `json:"tags"`
	DriveFileID  string    `json:"driveFileId,omitempty"`
	GitHubPath   string    `json:"githubPath,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

// ExportedConnection is the wire form of a connection in an export payload
type ExportedConnection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ExportPayload is the versioned dump of a user's graph
type ExportPayload struct {
	Notes       []ExportedNote       `json:"notes"`
	Connections []ExportedConnection `json:"connections"`
	ExportDate  time.Time            `json:"exportDate"`
	Version     string               `json:"version"`
}

// ImportCounts reports what an import actually loaded. SkippedConnections
// counts connections whose endpoints were absent from the imported note set.
type ImportCounts struct {
	Notes              int `json:"notes"`
	Connections        int `json:"connections"`
	SkippedConnections int `json:"skippedConnections"`
}

// TransferService dumps and bulk-loads a user's graph. Imported ids are
// client-supplied and never trusted: every note gets a freshly generated id
// and connection endpoints are rewritten through the remap table.
type TransferService struct {
	notes       ports.NoteRepository
	connections ports.ConnectionRepository
	logger      *zap.Logger
}

// NewTransferService creates a transfer service
func NewTransferService(
	notes ports.NoteRepository,
	connections ports.ConnectionRepository,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		notes:       notes,
		connections: connections,
		logger:      logger,
	}
}

// Export dumps all notes and connections owned by the caller
func (s *TransferService) Export(ctx context.Context, ownerID string) (*ExportPayload, error) {
	notes, err := s.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	connections, err := s.connections.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	payload := &ExportPayload{
		Notes:       make([]ExportedNote, 0, len(notes)),
		Connections: make([]ExportedConnection, 0, len(connections)),
		ExportDate:  time.Now().UTC(),
		Version:     ExportVersion,
	}

	for _, n := range notes {
		payload.Notes = append(payload.Notes, ExportedNote{
			ID:           n.ID(),
			Title:        n.Title(),
			Content:      n.Content(),
			X:            n.X(),
			Y:            n.Y(),
			Color:        n.Color(),
			Tags:         n.Tags(),
			DriveFileID:  n.DriveFileID(),
			GitHubPath:   n.GitHubPath(),
			CreatedAt:    n.CreatedAt(),
			LastModified: n.LastModified(),
		})
	}

	for _, c := range connections {
		payload.Connections = append(payload.Connections, ExportedConnection{
			ID:   c.ID(),
			From: c.From(),
			To:   c.To(),
		})
	}

	return payload, nil
}

// Import bulk-loads a payload. When clearExisting is set the caller's
// current notes (and through pruning, their connections) are removed first.
// Connections referencing notes outside the payload are dropped and counted
// rather than stored with dangling endpoints.
func (s *TransferService) Import(ctx context.Context, ownerID string, payload ExportPayload, clearExisting bool) (*ImportCounts, error) {
	if payload.Version != ExportVersion {
		return nil, pkgerrors.NewValidationError("unsupported export version: " + payload.Version)
	}

	if clearExisting {
		existing, err := s.notes.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		for _, n := range existing {
			if _, err := s.notes.DeleteWithConnections(ctx, ownerID, n.ID()); err != nil {
				return nil, err
			}
		}
		// Connections may survive note pruning if their endpoints were
		// already dangling; sweep the remainder.
		leftover, err := s.connections.ListByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		for _, c := range leftover {
			if err := s.connections.Delete(ctx, ownerID, c.ID()); err != nil && !pkgerrors.IsNotFound(err) {
				return nil, err
			}
		}
	}

	counts := &ImportCounts{}
	idMap := make(map[string]string, len(payload.Notes))

	for _, in := range payload.Notes {
		if in.Title == "" {
			return nil, pkgerrors.NewValidationError("imported note is missing a title")
		}
		note, err := entities.NewNote(ownerID, in.Title, in.Content, in.X, in.Y, in.Color, in.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.notes.Save(ctx, note); err != nil {
			return nil, err
		}
		idMap[in.ID] = note.ID()
		counts.Notes++
	}

	for _, in := range payload.Connections {
		from, okFrom := idMap[in.From]
		to, okTo := idMap[in.To]
		if !okFrom || !okTo {
			counts.SkippedConnections++
			continue
		}
		conn, err := entities.NewConnection(ownerID, from, to)
		if err != nil {
			return nil, err
		}
		if err := s.connections.Save(ctx, conn); err != nil {
			return nil, err
		}
		counts.Connections++
	}

	s.logger.Info("import finished",
		zap.String("ownerID", ownerID),
		zap.Int("notes", counts.Notes),
		zap.Int("connections", counts.Connections),
		zap.Int("skippedConnections", counts.SkippedConnections),
	)

	return counts, nil
}
