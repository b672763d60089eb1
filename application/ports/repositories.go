package ports

import (
	"context"

	"notemap-backend/domain/core/entities"
)

// NoteRepository defines the persistence port for notes. Every operation is
// scoped to the owning user; an id belonging to a different owner behaves
// exactly like an absent id.
type NoteRepository interface {
	// Save persists a note (create or update)
	Save(ctx context.Context, note *entities.Note) error

	// GetByID retrieves a note by id within the owner's partition
	GetByID(ctx context.Context, ownerID, id string) (*entities.Note, error)

	// ListByOwner retrieves all notes owned by a user, no implied order
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Note, error)

	// DeleteWithConnections removes a note and every connection referencing
	// it in the same logical unit. Returns the ids of pruned connections.
	DeleteWithConnections(ctx context.Context, ownerID, id string) ([]string, error)
}

// ConnectionRepository defines the persistence port for connections
type ConnectionRepository interface {
	// Save persists a connection
	Save(ctx context.Context, conn *entities.Connection) error

	// GetByID retrieves a connection by id within the owner's partition
	GetByID(ctx context.Context, ownerID, id string) (*entities.Connection, error)

	// ListByOwner retrieves all connections owned by a user
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Connection, error)

	// Delete removes a connection
	Delete(ctx context.Context, ownerID, id string) error
}

// UserRepository defines the persistence port for user profiles and their
// embedded credentials and preferences.
type UserRepository interface {
	// Save persists a user profile
	Save(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (*entities.User, error)
}
