package memory

import (
	"context"
	"sort"
	"sync"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	pkgerrors "notemap-backend/pkg/errors"
)

// NoteRepository is an in-memory ports.NoteRepository used in tests and
// local development. Pruning on delete reaches into the paired connection
// repository so both stores stay consistent the way the DynamoDB
// implementation keeps them within one partition.
type NoteRepository struct {
	mu          sync.RWMutex
	notes       map[string]map[string]*entities.Note // ownerID -> id -> note
	connections *ConnectionRepository
}

// NewNoteRepository creates an in-memory note repository wired to the
// connection repository it prunes on delete.
func NewNoteRepository(connections *ConnectionRepository) *NoteRepository {
	return &NoteRepository{
		notes:       make(map[string]map[string]*entities.Note),
		connections: connections,
	}
}

// Save persists a note (create or update)
func (r *NoteRepository) Save(ctx context.Context, note *entities.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned, ok := r.notes[note.OwnerID()]
	if !ok {
		owned = make(map[string]*entities.Note)
		r.notes[note.OwnerID()] = owned
	}
	owned[note.ID()] = note
	return nil
}

// GetByID retrieves a note by id within the owner's partition
func (r *NoteRepository) GetByID(ctx context.Context, ownerID, id string) (*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[ownerID][id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("note")
	}
	return note, nil
}

// ListByOwner retrieves all notes owned by a user, oldest first
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*entities.Note, 0, len(r.notes[ownerID]))
	for _, note := range r.notes[ownerID] {
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt().Equal(notes[j].CreatedAt()) {
			return notes[i].ID() < notes[j].ID()
		}
		return notes[i].CreatedAt().Before(notes[j].CreatedAt())
	})
	return notes, nil
}

// DeleteWithConnections removes the note and every connection touching it
func (r *NoteRepository) DeleteWithConnections(ctx context.Context, ownerID, id string) ([]string, error) {
	r.mu.Lock()
	if _, ok := r.notes[ownerID][id]; !ok {
		r.mu.Unlock()
		return nil, pkgerrors.NewNotFoundError("note")
	}
	delete(r.notes[ownerID], id)
	r.mu.Unlock()

	return r.connections.deleteTouching(ownerID, id), nil
}

var _ ports.NoteRepository = (*NoteRepository)(nil)
