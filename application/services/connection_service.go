package services

import (
	"context"

	"go.uber.org/zap"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
)

// ConnectionService implements the connection side of the graph store.
// Endpoint existence is deliberately not cross-checked on create; the client
// layer suppresses duplicate pairs and self-loops, the server stores what it
// is told and relies on delete-time pruning for referential cleanup.
type ConnectionService struct {
	connections ports.ConnectionRepository
	logger      *zap.Logger
}

// NewConnectionService creates a connection service
func NewConnectionService(connections ports.ConnectionRepository, logger *zap.Logger) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		logger:      logger,
	}
}

// List returns all connections owned by the caller
func (s *ConnectionService) List(ctx context.Context, ownerID string) ([]*entities.Connection, error) {
	return s.connections.ListByOwner(ctx, ownerID)
}

// Create stores a connection between two note ids
func (s *ConnectionService) Create(ctx context.Context, ownerID, from, to string) (*entities.Connection, error) {
	conn, err := entities.NewConnection(ownerID, from, to)
	if err != nil {
		return nil, err
	}

	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, err
	}

	return conn, nil
}

// Delete removes a connection
func (s *ConnectionService) Delete(ctx context.Context, ownerID, id string) error {
	return s.connections.Delete(ctx, ownerID, id)
}
