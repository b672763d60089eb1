package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notemap-backend/application/ports"
	"notemap-backend/domain/core/entities"
	"notemap-backend/infrastructure/persistence/memory"
	pkgerrors "notemap-backend/pkg/errors"
)

type noteFixture struct {
	notes       *memory.NoteRepository
	connections *memory.ConnectionRepository
	users       *memory.UserRepository
	drive       *MockDriveMirror
	github      *MockGitHubMirror
	svc         *NoteService
}

func newNoteFixture(t *testing.T, mutate func(*entities.User)) *noteFixture {
	t.Helper()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	connections := memory.NewConnectionRepository()
	notes := memory.NewNoteRepository(connections)
	users := memory.NewUserRepository()

	user, err := entities.NewUser("user-1", "user@example.com", "Test User")
	require.NoError(t, err)
	prefs := user.Preferences()
	prefs.AutoSync = false
	user.SetPreferences(prefs)
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, users.Save(context.Background(), user))

	drive := &MockDriveMirror{}
	github := &MockGitHubMirror{}
	creds := NewCredentialService(users, &MockTokenRefresher{}, &MockOAuthExchanger{}, fixedClock{now}, zap.NewNop())
	sync := NewSyncService(notes, creds, drive, github, 2, zap.NewNop())

	return &noteFixture{
		notes:       notes,
		connections: connections,
		users:       users,
		drive:       drive,
		github:      github,
		svc:         NewNoteService(notes, users, sync, zap.NewNop()),
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestNoteServiceCreate(t *testing.T) {
	t.Run("requires title and both coordinates", func(t *testing.T) {
		f := newNoteFixture(t, nil)

		_, err := f.svc.Create(context.Background(), "user-1", CreateNoteInput{X: floatPtr(1), Y: floatPtr(2)})
		assert.True(t, pkgerrors.IsValidation(err))

		_, err = f.svc.Create(context.Background(), "user-1", CreateNoteInput{Title: "No coords"})
		assert.True(t, pkgerrors.IsValidation(err))

		_, err = f.svc.Create(context.Background(), "user-1", CreateNoteInput{Title: "Half", X: floatPtr(1)})
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("fills color from the owner's default", func(t *testing.T) {
		f := newNoteFixture(t, func(u *entities.User) {
			prefs := u.Preferences()
			prefs.DefaultColor = "#123456"
			u.SetPreferences(prefs)
		})

		result, err := f.svc.Create(context.Background(), "user-1", CreateNoteInput{
			Title: "Colored", X: floatPtr(0), Y: floatPtr(0),
		})

		require.NoError(t, err)
		assert.Equal(t, "#123456", result.Note.Color())
	})

	t.Run("persists the note", func(t *testing.T) {
		f := newNoteFixture(t, nil)

		result, err := f.svc.Create(context.Background(), "user-1", CreateNoteInput{
			Title: "Persisted", Content: "body", X: floatPtr(5), Y: floatPtr(-5), Tags: []string{"t"},
		})
		require.NoError(t, err)

		stored, err := f.notes.GetByID(context.Background(), "user-1", result.Note.ID())
		require.NoError(t, err)
		assert.Equal(t, "Persisted", stored.Title())
		assert.Nil(t, result.SyncError)
	})

	t.Run("auto-sync mirrors the note and a failure does not undo the save", func(t *testing.T) {
		f := newNoteFixture(t, func(u *entities.User) {
			prefs := u.Preferences()
			prefs.AutoSync = true
			u.SetPreferences(prefs)
			u.ConnectDrive(entities.DriveCredential{
				AccessToken: "token",
				Expiry:      time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC),
			})
		})
		f.drive.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(ports.ExternalRef("file-1"), nil).Once()

		result, err := f.svc.Create(context.Background(), "user-1", CreateNoteInput{
			Title: "Mirrored", X: floatPtr(0), Y: floatPtr(0),
		})
		require.NoError(t, err)
		assert.Nil(t, result.SyncError)

		stored, err := f.notes.GetByID(context.Background(), "user-1", result.Note.ID())
		require.NoError(t, err)
		assert.Equal(t, "file-1", stored.DriveFileID())

		// Second create: mirror is down, the note still lands in the store.
		f.drive.On("Upsert", mock.Anything, mock.Anything, mock.Anything).
			Return(ports.ExternalRef(""), assert.AnError).Once()

		result, err = f.svc.Create(context.Background(), "user-1", CreateNoteInput{
			Title: "Unmirrored", X: floatPtr(1), Y: floatPtr(1),
		})
		require.NoError(t, err)
		assert.Error(t, result.SyncError)

		_, err = f.notes.GetByID(context.Background(), "user-1", result.Note.ID())
		assert.NoError(t, err)
	})
}

func TestNoteServiceUpdate(t *testing.T) {
	t.Run("applies the patch and advances last modified", func(t *testing.T) {
		f := newNoteFixture(t, nil)
		created, err := f.svc.Create(context.Background(), "user-1", CreateNoteInput{
			Title: "Before", X: floatPtr(0), Y: floatPtr(0),
		})
		require.NoError(t, err)
		before := created.Note.LastModified()

		title := "After"
		result, err := f.svc.Update(context.Background(), "user-1", created.Note.ID(), entities.NotePatch{Title: &title})

		require.NoError(t, err)
		assert.Equal(t, "After", result.Note.Title())
		assert.True(t, result.Note.LastModified().After(before))
	})

	t.Run("unknown note is not found", func(t *testing.T) {
		f := newNoteFixture(t, nil)

		_, err := f.svc.Update(context.Background(), "user-1", "missing", entities.NotePatch{})

		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestNoteServiceDelete(t *testing.T) {
	t.Run("prunes every connection touching the note", func(t *testing.T) {
		f := newNoteFixture(t, nil)
		ctx := context.Background()

		var ids []string
		for _, title := range []string{"A", "B", "C"} {
			result, err := f.svc.Create(ctx, "user-1", CreateNoteInput{Title: title, X: floatPtr(0), Y: floatPtr(0)})
			require.NoError(t, err)
			ids = append(ids, result.Note.ID())
		}

		connSvc := NewConnectionService(f.connections, zap.NewNop())
		_, err := connSvc.Create(ctx, "user-1", ids[0], ids[1])
		require.NoError(t, err)
		_, err = connSvc.Create(ctx, "user-1", ids[1], ids[2])
		require.NoError(t, err)
		kept, err := connSvc.Create(ctx, "user-1", ids[0], ids[2])
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(ctx, "user-1", ids[1]))

		remaining, err := f.connections.ListByOwner(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, kept.ID(), remaining[0].ID())

		_, err = f.notes.GetByID(ctx, "user-1", ids[1])
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("unknown note is not found", func(t *testing.T) {
		f := newNoteFixture(t, nil)

		err := f.svc.Delete(context.Background(), "user-1", "missing")

		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("best-effort drive cleanup never fails the delete", func(t *testing.T) {
		f := newNoteFixture(t, func(u *entities.User) {
			prefs := u.Preferences()
			prefs.AutoSync = true
			u.SetPreferences(prefs)
			u.ConnectDrive(entities.DriveCredential{
				AccessToken: "token",
				Expiry:      time.Date(2026, 5, 1, 13, 0, 0, 0, time.UTC),
			})
		})
		f.drive.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(ports.ExternalRef("file-1"), nil).Once()
		f.drive.On("Delete", mock.Anything, ports.ExternalRef("file-1"), mock.Anything).Return(assert.AnError).Once()

		result, err := f.svc.Create(context.Background(), "user-1", CreateNoteInput{
			Title: "Mirrored", X: floatPtr(0), Y: floatPtr(0),
		})
		require.NoError(t, err)

		assert.NoError(t, f.svc.Delete(context.Background(), "user-1", result.Note.ID()))
		f.drive.AssertExpectations(t)
	})
}
