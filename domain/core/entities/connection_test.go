package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection(t *testing.T) {
	t.Run("assigns id and preserves endpoints", func(t *testing.T) {
		conn, err := NewConnection("user-1", "note-a", "note-b")

		require.NoError(t, err)
		assert.NotEmpty(t, conn.ID())
		assert.Equal(t, "note-a", conn.From())
		assert.Equal(t, "note-b", conn.To())
	})

	t.Run("rejects missing endpoints", func(t *testing.T) {
		_, err := NewConnection("user-1", "", "note-b")
		assert.Error(t, err)

		_, err = NewConnection("user-1", "note-a", "")
		assert.Error(t, err)
	})

	t.Run("stores what it is told, including self loops", func(t *testing.T) {
		conn, err := NewConnection("user-1", "note-a", "note-a")
		require.NoError(t, err)
		assert.Equal(t, conn.From(), conn.To())
	})
}

func TestConnectionTouches(t *testing.T) {
	conn, err := NewConnection("user-1", "note-a", "note-b")
	require.NoError(t, err)

	assert.True(t, conn.Touches("note-a"))
	assert.True(t, conn.Touches("note-b"))
	assert.False(t, conn.Touches("note-c"))
}
