package memory

import (
	"context"
	"sort"
	"sync"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	pkgerrors "notemap-backend/pkg/errors"
)

// ConnectionRepository is an in-memory ports.ConnectionRepository
type ConnectionRepository struct {
	mu          sync.RWMutex
	connections map[string]map[string]*entities.Connection // ownerID -> id -> connection
}

// NewConnectionRepository creates an in-memory connection repository
func NewConnectionRepository() *ConnectionRepository {
	return &ConnectionRepository{
		connections: make(map[string]map[string]*entities.Connection),
	}
}

// Save persists a connection
func (r *ConnectionRepository) Save(ctx context.Context, conn *entities.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned, ok := r.connections[conn.OwnerID()]
	if !ok {
		owned = make(map[string]*entities.Connection)
		r.connections[conn.OwnerID()] = owned
	}
	owned[conn.ID()] = conn
	return nil
}

// GetByID retrieves a connection by id within the owner's partition
func (r *ConnectionRepository) GetByID(ctx context.Context, ownerID, id string) (*entities.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[ownerID][id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("connection")
	}
	return conn, nil
}

// ListByOwner retrieves all connections owned by a user
func (r *ConnectionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connections := make([]*entities.Connection, 0, len(r.connections[ownerID]))
	for _, conn := range r.connections[ownerID] {
		connections = append(connections, conn)
	}
	sort.Slice(connections, func(i, j int) bool {
		if connections[i].CreatedAt().Equal(connections[j].CreatedAt()) {
			return connections[i].ID() < connections[j].ID()
		}
		return connections[i].CreatedAt().Before(connections[j].CreatedAt())
	})
	return connections, nil
}

// Delete removes a connection
func (r *ConnectionRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.connections[ownerID][id]; !ok {
		return pkgerrors.NewNotFoundError("connection")
	}
	delete(r.connections[ownerID], id)
	return nil
}

// deleteTouching removes every connection with the note as an endpoint and
// returns the removed ids.
func (r *ConnectionRepository) deleteTouching(ownerID, noteID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pruned []string
	for id, conn := range r.connections[ownerID] {
		if conn.Touches(noteID) {
			delete(r.connections[ownerID], id)
			pruned = append(pruned, id)
		}
	}
	return pruned
}

var _ ports.ConnectionRepository = (*ConnectionRepository)(nil)
