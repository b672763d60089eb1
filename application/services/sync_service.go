package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	pkgerrors "notemap-backend/pkg/errors"
)

// ItemStatus marks a per-note sync outcome
type ItemStatus string

const (
	ItemStatusSuccess ItemStatus = "success"
	ItemStatusError   ItemStatus = "error"
)

// ItemResult is the per-note entry of a batch sync report
type ItemResult struct {
	NoteID      string     `json:"noteId"`
	Status      ItemStatus `json:"status"`
	ExternalRef string     `json:"externalRef,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// GitHubTarget names the repository a GitHub sync commits into
type GitHubTarget struct {
	Owner string
	Repo  string
}

// SyncService orchestrates mirroring notes to external providers. A batch
// fails outright only when the credential itself is unavailable; individual
// upsert failures are captured per item and never halt the rest of the batch.
type SyncService struct {
	notes   ports.NoteRepository
	creds   *CredentialService
	drive   ports.DriveMirror
	github  ports.GitHubMirror
	workers int
	logger  *zap.Logger
}

// NewSyncService creates a sync orchestrator. workers bounds how many
// per-note upserts run in flight at once.
func NewSyncService(
	notes ports.NoteRepository,
	creds *CredentialService,
	drive ports.DriveMirror,
	github ports.GitHubMirror,
	workers int,
	logger *zap.Logger,
) *SyncService {
	if workers < 1 {
		workers = 1
	}
	return &SyncService{
		notes:   notes,
		creds:   creds,
		drive:   drive,
		github:  github,
		workers: workers,
		logger:  logger,
	}
}

// SyncAll mirrors every note the user owns to the given provider. The result
// slice is ordered like the note list; one entry per note regardless of
// outcome. There is no mid-batch abort: once started, all notes are attempted.
func (s *SyncService) SyncAll(ctx context.Context, ownerID string, provider entities.Provider, target *GitHubTarget) ([]ItemResult, error) {
	upsert, err := s.upserter(ctx, ownerID, provider, target)
	if err != nil {
		return nil, err
	}

	notes, err := s.notes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	results := make([]ItemResult, len(notes))

	// Workers share nothing but their own slot in the result slice, so a
	// failing note cannot cancel or corrupt its siblings.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, note := range notes {
		i, note := i, note
		g.Go(func() error {
			results[i] = s.syncNote(gctx, note, upsert)
			return nil
		})
	}
	g.Wait()

	s.logger.Info("batch sync finished",
		zap.String("ownerID", ownerID),
		zap.String("provider", string(provider)),
		zap.Int("notes", len(results)),
	)

	return results, nil
}

// SyncOne mirrors a single note, used after direct mutations when the
// user's auto-sync preference is enabled. Follows the identical upsert
// contract as the batch path.
func (s *SyncService) SyncOne(ctx context.Context, note *entities.Note, provider entities.Provider, target *GitHubTarget) error {
	upsert, err := s.upserter(ctx, note.OwnerID(), provider, target)
	if err != nil {
		return err
	}

	result := s.syncNote(ctx, note, upsert)
	if result.Status == ItemStatusError {
		return pkgerrors.NewExternalError(string(provider), nil).WithDetails(map[string]interface{}{
			"noteId": note.ID(),
			"reason": result.Error,
		})
	}
	return nil
}

// upsertFunc mirrors one note and records the external back-reference
type upsertFunc func(ctx context.Context, note *entities.Note) (ports.ExternalRef, error)

// upserter resolves the provider credential once and binds it into a
// per-note upsert closure. Missing or unrefreshable credentials fail here,
// before any note is touched.
func (s *SyncService) upserter(ctx context.Context, ownerID string, provider entities.Provider, target *GitHubTarget) (upsertFunc, error) {
	switch provider {
	case entities.ProviderDrive:
		cred, err := s.creds.GetDriveCredential(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, note *entities.Note) (ports.ExternalRef, error) {
			ref, err := s.drive.Upsert(ctx, note, cred)
			if err != nil {
				return "", err
			}
			note.SetDriveFileID(string(ref))
			return ref, nil
		}, nil

	case entities.ProviderGitHub:
		if target == nil || target.Owner == "" || target.Repo == "" {
			return nil, pkgerrors.NewValidationError("github sync requires owner and repo")
		}
		cred, err := s.creds.GetGitHubCredential(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, note *entities.Note) (ports.ExternalRef, error) {
			ref, err := s.github.Upsert(ctx, note, cred, target.Owner, target.Repo)
			if err != nil {
				return "", err
			}
			note.SetGitHubPath(string(ref))
			return ref, nil
		}, nil

	default:
		return nil, pkgerrors.NewValidationError("unknown provider")
	}
}

// syncNote runs one upsert and persists the back-reference on success.
// Adapter errors are returned as data tagged with the note id.
func (s *SyncService) syncNote(ctx context.Context, note *entities.Note, upsert upsertFunc) ItemResult {
	ref, err := upsert(ctx, note)
	if err != nil {
		s.logger.Warn("note sync failed",
			zap.String("noteID", note.ID()),
			zap.Error(err),
		)
		return ItemResult{NoteID: note.ID(), Status: ItemStatusError, Error: err.Error()}
	}

	if err := s.notes.Save(ctx, note); err != nil {
		// The mirror write landed but the back-reference didn't; report the
		// item as failed so the caller knows the ref was not recorded.
		s.logger.Error("failed to record external ref",
			zap.String("noteID", note.ID()),
			zap.Error(err),
		)
		return ItemResult{NoteID: note.ID(), Status: ItemStatusError, Error: err.Error()}
	}

	return ItemResult{NoteID: note.ID(), Status: ItemStatusSuccess, ExternalRef: string(ref)}
}
