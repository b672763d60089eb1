package services

import (
	"context"

	"go.uber.org/zap"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	pkgerrors "notemap-backend/pkg/errors"
)

// CreateNoteInput carries validated fields for note creation. Coordinates
// are pointers so "missing" and "zero" stay distinguishable.
type CreateNoteInput struct {
	Title   string
	Content string
	X       *float64
	Y       *float64
	Color   string
	Tags    []string
}

// MutationResult pairs the durably saved note with the outcome of any
// auto-sync attempt. A sync failure never rolls the mutation back: the
// note's primary fields are already saved, only the mirror is stale.
type MutationResult struct {
	Note      *entities.Note
	SyncError error
}

// NoteService implements the note side of the graph store plus the
// auto-sync hook that fires after successful mutations.
type NoteService struct {
	notes  ports.NoteRepository
	users  ports.UserRepository
	sync   *SyncService
	logger *zap.Logger
}

// NewNoteService creates a note service
func NewNoteService(
	notes ports.NoteRepository,
	users ports.UserRepository,
	sync *SyncService,
	logger *zap.Logger,
) *NoteService {
	return &NoteService{
		notes:  notes,
		users:  users,
		sync:   sync,
		logger: logger,
	}
}

// List returns all notes owned by the caller
func (s *NoteService) List(ctx context.Context, ownerID string) ([]*entities.Note, error) {
	return s.notes.ListByOwner(ctx, ownerID)
}

// Get returns one note owned by the caller
func (s *NoteService) Get(ctx context.Context, ownerID, id string) (*entities.Note, error) {
	return s.notes.GetByID(ctx, ownerID, id)
}

// Create validates input, persists the note, then fires auto-sync when the
// owner has it enabled.
func (s *NoteService) Create(ctx context.Context, ownerID string, input CreateNoteInput) (*MutationResult, error) {
	if input.Title == "" {
		return nil, pkgerrors.NewValidationError("title is required")
	}
	if input.X == nil || input.Y == nil {
		return nil, pkgerrors.NewValidationError("x and y coordinates are required")
	}

	user, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	color := input.Color
	if color == "" {
		color = user.Preferences().DefaultColor
	}

	note, err := entities.NewNote(ownerID, input.Title, input.Content, *input.X, *input.Y, color, input.Tags)
	if err != nil {
		return nil, err
	}

	if err := s.notes.Save(ctx, note); err != nil {
		return nil, err
	}

	return &MutationResult{Note: note, SyncError: s.autoSync(ctx, note, user)}, nil
}

// Update applies a field-level overwrite, always refreshing LastModified,
// then fires auto-sync.
func (s *NoteService) Update(ctx context.Context, ownerID, id string, patch entities.NotePatch) (*MutationResult, error) {
	note, err := s.notes.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := note.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.notes.Save(ctx, note); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &MutationResult{Note: note, SyncError: s.autoSync(ctx, note, user)}, nil
}

// Delete removes the note and prunes every connection referencing it in the
// same logical operation, then best-effort deletes the Drive mirror (the
// Drive delete is idempotent, so a stale back-reference is harmless).
func (s *NoteService) Delete(ctx context.Context, ownerID, id string) error {
	note, err := s.notes.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	pruned, err := s.notes.DeleteWithConnections(ctx, ownerID, id)
	if err != nil {
		return err
	}

	s.logger.Info("deleted note",
		zap.String("noteID", id),
		zap.String("ownerID", ownerID),
		zap.Int("prunedConnections", len(pruned)),
	)

	if note.DriveFileID() != "" {
		if cred, credErr := s.sync.creds.GetDriveCredential(ctx, ownerID); credErr == nil {
			if delErr := s.sync.drive.Delete(ctx, ports.ExternalRef(note.DriveFileID()), cred); delErr != nil {
				s.logger.Warn("failed to delete drive mirror",
					zap.String("noteID", id),
					zap.Error(delErr),
				)
			}
		}
	}

	return nil
}

// autoSync mirrors a freshly mutated note per the owner's preferences and
// returns the first failure, which callers surface without undoing the save.
func (s *NoteService) autoSync(ctx context.Context, note *entities.Note, user *entities.User) error {
	prefs := user.Preferences()

	if prefs.AutoSync && user.Connected(entities.ProviderDrive) {
		if err := s.sync.SyncOne(ctx, note, entities.ProviderDrive, nil); err != nil {
			return err
		}
	}

	if prefs.AutoCommit && user.Connected(entities.ProviderGitHub) && prefs.GitHubOwner != "" && prefs.GitHubRepo != "" {
		target := &GitHubTarget{Owner: prefs.GitHubOwner, Repo: prefs.GitHubRepo}
		if err := s.sync.SyncOne(ctx, note, entities.ProviderGitHub, target); err != nil {
			return err
		}
	}

	return nil
}
