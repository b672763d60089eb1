package entities

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "notemap-backend/pkg/errors"
)

// Connection is an undirected edge between two notes. Endpoint existence is
// not verified at creation time; referential cleanup happens on note delete.
type Connection struct {
	id        string
	ownerID   string
	from      string
	to        string
	createdAt time.Time
}

// NewConnection creates a connection between two note ids
func NewConnection(ownerID, from, to string) (*Connection, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerID cannot be empty")
	}
	if from == "" || to == "" {
		return nil, pkgerrors.NewValidationError("connection requires both endpoints")
	}

	return &Connection{
		id:        uuid.New().String(),
		ownerID:   ownerID,
		from:      from,
		to:        to,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructConnection rebuilds a connection from repository data
func ReconstructConnection(id, ownerID, from, to string, createdAt time.Time) *Connection {
	return &Connection{
		id:        id,
		ownerID:   ownerID,
		from:      from,
		to:        to,
		createdAt: createdAt,
	}
}

// Touches reports whether the given note is one of the endpoints
func (c *Connection) Touches(noteID string) bool {
	return c.from == noteID || c.to == noteID
}

// ID returns the connection's unique identifier
func (c *Connection) ID() string { return c.id }

// OwnerID returns the owning user's ID
func (c *Connection) OwnerID() string { return c.ownerID }

// From returns the first endpoint note id
func (c *Connection) From() string { return c.from }

// To returns the second endpoint note id
func (c *Connection) To() string { return c.to }

// CreatedAt returns when the connection was created
func (c *Connection) CreatedAt() time.Time { return c.createdAt }
