package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YannKr/studyportal/internal/model"
)

func TestAddDocument(t *testing.T) {
	s := storeWithSubject(t, "Math")

	doc, skipped, err := s.AddDocument("alice", "Math", "notes.pdf", []byte("pdf bytes"))
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, "notes.pdf", doc.Filename)
	assert.Equal(t, 1, doc.CurrentPage)
	assert.Zero(t, doc.TotalPages)
	assert.Zero(t, doc.Progress)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

// A colliding filename is skipped, never overwritten.
func TestAddDocumentCollisionSkips(t *testing.T) {
	s := storeWithSubject(t, "Math")

	doc, _, err := s.AddDocument("alice", "Math", "notes.pdf", []byte("original"))
	require.NoError(t, err)

	_, skipped, err := s.AddDocument("alice", "Math", "notes.pdf", []byte("replacement"))
	require.NoError(t, err)
	assert.True(t, skipped)

	data, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)

	s.Read("alice", func(tree *model.ContentTree) {
		assert.Len(t, tree.Subjects["Math"].Documents, 1)
	})
}

func TestAddDocumentStripsPath(t *testing.T) {
	s := storeWithSubject(t, "Math")

	doc, _, err := s.AddDocument("alice", "Math", "../../evil.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "evil.pdf", doc.Filename)
}

func TestRemoveDocumentRemovesFile(t *testing.T) {
	s := storeWithSubject(t, "Math")
	doc, _, err := s.AddDocument("alice", "Math", "notes.pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, s.RemoveDocument("alice", "Math", doc.ItemID))
	_, statErr := os.Stat(doc.Path)
	assert.True(t, os.IsNotExist(statErr))
}

// Removing the record still succeeds when the backing file is already gone.
func TestRemoveDocumentMissingFile(t *testing.T) {
	s := storeWithSubject(t, "Math")
	doc, _, err := s.AddDocument("alice", "Math", "notes.pdf", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(doc.Path))

	require.NoError(t, s.RemoveDocument("alice", "Math", doc.ItemID))
	s.Read("alice", func(tree *model.ContentTree) {
		assert.Empty(t, tree.Subjects["Math"].Documents)
	})
}

func TestRemoveSubjectRemovesDocsDir(t *testing.T) {
	s := storeWithSubject(t, "Math")
	_, _, err := s.AddDocument("alice", "Math", "notes.pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, s.RemoveSubject("alice", "Math"))
	_, statErr := os.Stat(s.docsDir("alice", "Math"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveDocumentPage(t *testing.T) {
	s := storeWithSubject(t, "Math")
	doc, _, err := s.AddDocument("alice", "Math", "notes.pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, s.SaveDocumentPage("alice", "Math", doc.ItemID, 12, 300))
	s.Read("alice", func(tree *model.ContentTree) {
		got := tree.Subjects["Math"].Documents[0]
		assert.Equal(t, 12, got.CurrentPage)
		assert.Equal(t, 300, got.TotalPages)
	})

	assert.ErrorIs(t, s.SaveDocumentPage("alice", "Math", doc.ItemID, 0, 0), ErrInvalidInput)
}
