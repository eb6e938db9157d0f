package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YannKr/studyportal/internal/model"
)

// Export followed by import into a fresh tree reproduces an equal tree.
func TestExportImportRoundTrip(t *testing.T) {
	s := storeWithSubject(t, "Math")
	_, err := s.AddVideo("alice", "Math", "https://youtu.be/abc", "Lecture 1")
	require.NoError(t, err)
	require.NoError(t, s.AppendSession("alice", model.SessionEvent{
		Date: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), Duration: 600,
	}))

	exported, err := s.Export("alice")
	require.NoError(t, err)

	fresh := newTestStore(t)
	require.NoError(t, fresh.Init("bob"))
	require.NoError(t, fresh.Import("bob", exported))

	var want, got *model.ContentTree
	s.Read("alice", func(tree *model.ContentTree) {
		data, _ := json.Marshal(tree)
		want = &model.ContentTree{}
		json.Unmarshal(data, want)
	})
	fresh.Read("bob", func(tree *model.ContentTree) {
		data, _ := json.Marshal(tree)
		got = &model.ContentTree{}
		json.Unmarshal(data, got)
	})
	assert.Equal(t, want, got)
}

func TestExportEnvelopeShape(t *testing.T) {
	s := storeWithSubject(t, "Math")
	exported, err := s.Export("alice")
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(exported, &env))
	assert.Contains(t, env, "user_data")
	assert.Contains(t, env, "export_date")
}

// A payload missing the subjects key leaves the live subjects untouched;
// one that includes subjects replaces the mapping wholesale.
func TestImportShallowMerge(t *testing.T) {
	s := storeWithSubject(t, "Math")
	require.NoError(t, s.AppendSession("alice", model.SessionEvent{
		Date: time.Now().UTC(), Duration: 60,
	}))

	// only total_study_time present: subjects and sessions survive
	require.NoError(t, s.Import("alice", []byte(`{"user_data":{"total_study_time":999}}`)))
	s.Read("alice", func(tree *model.ContentTree) {
		assert.Contains(t, tree.Subjects, "Math")
		assert.Len(t, tree.StudySessions, 1)
		assert.Equal(t, 999.0, tree.TotalStudyTime)
	})

	// subjects present: the whole mapping is replaced, not merged
	require.NoError(t, s.Import("alice", []byte(`{"user_data":{"subjects":{"History":{"videos":[],"playlists":[],"documents":[],"created_at":"2026-01-01T00:00:00Z"}}}}`)))
	s.Read("alice", func(tree *model.ContentTree) {
		assert.NotContains(t, tree.Subjects, "Math")
		assert.Contains(t, tree.Subjects, "History")
		assert.Len(t, tree.StudySessions, 1) // untouched
	})
}

// Any parse error leaves the live tree completely unmodified.
func TestImportParseErrorLeavesTreeUntouched(t *testing.T) {
	s := storeWithSubject(t, "Math")

	cases := map[string]string{
		"not json":           `{{{`,
		"missing user_data":  `{"export_date":"2026-01-01T00:00:00Z"}`,
		"bad subjects shape": `{"user_data":{"subjects":42}}`,
		"bad total type":     `{"user_data":{"subjects":{},"total_study_time":"lots"}}`,
		"null subject value": `{"user_data":{"subjects":{"X":null}}}`,
	}
	for name, payload := range cases {
		err := s.Import("alice", []byte(payload))
		assert.ErrorIs(t, err, ErrInvalidImport, name)
		s.Read("alice", func(tree *model.ContentTree) {
			assert.Contains(t, tree.Subjects, "Math", name)
		})
	}
}

// A null subject value must never reach the live tree: a stored nil
// pointer would panic every later traversal, analytics included.
func TestImportNullSubjectRejected(t *testing.T) {
	s := storeWithSubject(t, "Math")
	_, err := s.AddVideo("alice", "Math", "https://youtu.be/abc", "Lecture 1")
	require.NoError(t, err)

	err = s.Import("alice", []byte(`{"user_data":{"subjects":{"Math":null,"X":null}}}`))
	assert.ErrorIs(t, err, ErrInvalidImport)

	// the tree is intact and every subject dereferences safely
	s.Read("alice", func(tree *model.ContentTree) {
		for name, sub := range tree.Subjects {
			require.NotNil(t, sub, name)
			_ = len(sub.Videos)
		}
		assert.Len(t, tree.Subjects["Math"].Videos, 1)
	})
}
