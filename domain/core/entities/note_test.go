package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNote(t *testing.T) {
	t.Run("assigns id, timestamps and defaults", func(t *testing.T) {
		note, err := NewNote("user-1", "Groceries", "milk, eggs", 10.5, -3, "", nil)

		require.NoError(t, err)
		assert.NotEmpty(t, note.ID())
		assert.Equal(t, "user-1", note.OwnerID())
		assert.Equal(t, DefaultNoteColor, note.Color())
		assert.NotNil(t, note.Tags())
		assert.Empty(t, note.Tags())
		assert.Equal(t, note.CreatedAt(), note.LastModified())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewNote("user-1", "", "", 0, 0, "", nil)
		assert.Error(t, err)
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		_, err := NewNote("", "Title", "", 0, 0, "", nil)
		assert.Error(t, err)
	})

	t.Run("accepts zero coordinates", func(t *testing.T) {
		note, err := NewNote("user-1", "Origin", "", 0, 0, "#fff", nil)
		require.NoError(t, err)
		assert.Equal(t, 0.0, note.X())
		assert.Equal(t, 0.0, note.Y())
	})
}

func TestNoteApply(t *testing.T) {
	t.Run("nil fields leave values untouched", func(t *testing.T) {
		note, err := NewNote("user-1", "Title", "body", 1, 2, "#fff", []string{"a"})
		require.NoError(t, err)

		newTitle := "Renamed"
		err = note.Apply(NotePatch{Title: &newTitle})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", note.Title())
		assert.Equal(t, "body", note.Content())
		assert.Equal(t, 1.0, note.X())
		assert.Equal(t, []string{"a"}, note.Tags())
	})

	t.Run("tags are replaced wholesale", func(t *testing.T) {
		note, err := NewNote("user-1", "Title", "", 0, 0, "", []string{"a", "b"})
		require.NoError(t, err)

		tags := []string{"c"}
		require.NoError(t, note.Apply(NotePatch{Tags: &tags}))

		assert.Equal(t, []string{"c"}, note.Tags())
	})

	t.Run("empty patch still advances last modified", func(t *testing.T) {
		note, err := NewNote("user-1", "Title", "", 0, 0, "", nil)
		require.NoError(t, err)
		before := note.LastModified()

		require.NoError(t, note.Apply(NotePatch{}))

		assert.True(t, note.LastModified().After(before))
	})

	t.Run("last modified is monotonic across rapid applies", func(t *testing.T) {
		note, err := NewNote("user-1", "Title", "", 0, 0, "", nil)
		require.NoError(t, err)

		prev := note.LastModified()
		for i := 0; i < 100; i++ {
			require.NoError(t, note.Apply(NotePatch{}))
			assert.True(t, note.LastModified().After(prev))
			prev = note.LastModified()
		}
	})

	t.Run("rejects patching title to empty", func(t *testing.T) {
		note, err := NewNote("user-1", "Title", "", 0, 0, "", nil)
		require.NoError(t, err)

		empty := ""
		err = note.Apply(NotePatch{Title: &empty})

		assert.Error(t, err)
		assert.Equal(t, "Title", note.Title())
	})
}

func TestNoteBackReferences(t *testing.T) {
	note, err := NewNote("user-1", "Title", "", 0, 0, "", nil)
	require.NoError(t, err)
	before := note.LastModified()

	note.SetDriveFileID("drive-file-1")
	note.SetGitHubPath("notes/Title.md")

	assert.Equal(t, "drive-file-1", note.DriveFileID())
	assert.Equal(t, "notes/Title.md", note.GitHubPath())
	// Recording mirror refs is not a content mutation.
	assert.Equal(t, before, note.LastModified())
}

func TestNoteTagsCopy(t *testing.T) {
	note, err := NewNote("user-1", "Title", "", 0, 0, "", []string{"a"})
	require.NoError(t, err)

	tags := note.Tags()
	tags[0] = "mutated"

	assert.Equal(t, []string{"a"}, note.Tags())
}
