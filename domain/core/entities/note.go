package entities

import (
	"time"

	"github.com/google/uuid"

	pkgerrors "notemap-backend/pkg/errors"
)

// DefaultNoteColor is used when a note is created without an explicit color.
const DefaultNoteColor = "#9e9e9e"

// Note is a positioned, colored, taggable text record owned by one user.
// Mirror back-references (DriveFileID, GitHubPath) are weak references into
// external systems; the store does not guarantee the referenced object still
// exists.
type Note struct {
	id      string
	ownerID string
	title   string
	content string
	x       float64
	y       float64
	color   string
	tags    []string

	driveFileID string
	githubPath  string

	createdAt    time.Time
	lastModified time.Time
}

// NotePatch is a field-level overwrite: a nil field leaves the stored value
// untouched, a non-nil field replaces it entirely (tags are not deep-merged).
type NotePatch struct {
	Title   *string
	Content *string
	X       *float64
	Y       *float64
	Color   *string
	Tags    *[]string
}

// NewNote creates a note, assigning its id and timestamps
func NewNote(ownerID, title, content string, x, y float64, color string, tags []string) (*Note, error) {
	if ownerID == "" {
		return nil, pkgerrors.NewValidationError("ownerID cannot be empty")
	}
	if title == "" {
		return nil, pkgerrors.NewValidationError("title cannot be empty")
	}
	if color == "" {
		color = DefaultNoteColor
	}
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	return &Note{
		id:           uuid.New().String(),
		ownerID:      ownerID,
		title:        title,
		content:      content,
		x:            x,
		y:            y,
		color:        color,
		tags:         tags,
		createdAt:    now,
		lastModified: now,
	}, nil
}

// ReconstructNote rebuilds a note from repository data with preserved
// identity and timestamps.
func ReconstructNote(
	id, ownerID, title, content string,
	x, y float64,
	color string,
	tags []string,
	driveFileID, githubPath string,
	createdAt, lastModified time.Time,
) *Note {
	if tags == nil {
		tags = []string{}
	}
	return &Note{
		id:           id,
		ownerID:      ownerID,
		title:        title,
		content:      content,
		x:            x,
		y:            y,
		color:        color,
		tags:         tags,
		driveFileID:  driveFileID,
		githubPath:   githubPath,
		createdAt:    createdAt,
		lastModified: lastModified,
	}
}

// Apply overwrites the patched fields and always refreshes LastModified,
// even when the patch is empty.
func (n *Note) Apply(patch NotePatch) error {
	if patch.Title != nil {
		if *patch.Title == "" {
			return pkgerrors.NewValidationError("title cannot be empty")
		}
		n.title = *patch.Title
	}
	if patch.Content != nil {
		n.content = *patch.Content
	}
	if patch.X != nil {
		n.x = *patch.X
	}
	if patch.Y != nil {
		n.y = *patch.Y
	}
	if patch.Color != nil {
		n.color = *patch.Color
	}
	if patch.Tags != nil {
		tags := make([]string, len(*patch.Tags))
		copy(tags, *patch.Tags)
		n.tags = tags
	}

	n.touch()
	return nil
}

// SetDriveFileID records the Drive back-reference after a successful mirror.
// Recording an external ref is not a content mutation, so LastModified stays.
func (n *Note) SetDriveFileID(fileID string) {
	n.driveFileID = fileID
}

// SetGitHubPath records the GitHub back-reference after a successful mirror
func (n *Note) SetGitHubPath(path string) {
	n.githubPath = path
}

func (n *Note) touch() {
	now := time.Now().UTC()
	if !now.After(n.lastModified) {
		// Clock granularity guard: LastModified never moves backwards.
		now = n.lastModified.Add(time.Nanosecond)
	}
	n.lastModified = now
}

// ID returns the note's unique identifier
func (n *Note) ID() string { return n.id }

// OwnerID returns the owning user's ID
func (n *Note) OwnerID() string { return n.ownerID }

// Title returns the note title
func (n *Note) Title() string { return n.title }

// Content returns the note body
func (n *Note) Content() string { return n.content }

// X returns the canvas X coordinate
func (n *Note) X() float64 { return n.x }

// Y returns the canvas Y coordinate
func (n *Note) Y() float64 { return n.y }

// Color returns the note color
func (n *Note) Color() string { return n.color }

// Tags returns a copy of the note's tags, insertion order preserved
func (n *Note) Tags() []string {
	tags := make([]string, len(n.tags))
	copy(tags, n.tags)
	return tags
}

// DriveFileID returns the Drive back-reference, empty if never mirrored
func (n *Note) DriveFileID() string { return n.driveFileID }

// GitHubPath returns the GitHub back-reference, empty if never mirrored
func (n *Note) GitHubPath() string { return n.githubPath }

// CreatedAt returns when the note was created
func (n *Note) CreatedAt() time.Time { return n.createdAt }

// LastModified returns when the note was last mutated
func (n *Note) LastModified() time.Time { return n.lastModified }
