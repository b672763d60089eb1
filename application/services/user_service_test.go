package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemap-backend/domain/core/entities"
	"notemap-backend/infrastructure/persistence/memory"
	pkgerrors "notemap-backend/pkg/errors"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("new users get the default preferences", func(t *testing.T) {
		users := memory.NewUserRepository()
		seedUser(t, users)
		svc := NewUserService(users)

		prefs, err := svc.GetPreferences(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, entities.DefaultPreferences(), prefs)
	})

	t.Run("update persists and empty color falls back to the default", func(t *testing.T) {
		users := memory.NewUserRepository()
		seedUser(t, users)
		svc := NewUserService(users)

		updated, err := svc.UpdatePreferences(ctx, "user-1", entities.Preferences{
			AutoSync:    false,
			AutoCommit:  true,
			GitHubOwner: "octocat",
			GitHubRepo:  "notes",
		})

		require.NoError(t, err)
		assert.False(t, updated.AutoSync)
		assert.True(t, updated.AutoCommit)
		assert.Equal(t, entities.DefaultNoteColor, updated.DefaultColor)

		stored, err := svc.GetPreferences(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		svc := NewUserService(memory.NewUserRepository())

		_, err := svc.GetPreferences(ctx, "missing")

		assert.True(t, pkgerrors.IsNotFound(err))
	})
}
