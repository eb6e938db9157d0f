package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/YannKr/studyportal/internal/auth"
	"github.com/YannKr/studyportal/internal/model"
	"github.com/YannKr/studyportal/internal/store"
)

func subjectGetRequest(h *Handler, account, subject string) *httptest.ResponseRecorder {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("subject", subject)
	req := httptest.NewRequest(http.MethodGet, "/api/subjects/"+subject, nil)
	ctx := auth.ContextWithAccount(req.Context(), account)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	rec := httptest.NewRecorder()
	h.SubjectGet(rec, req.WithContext(ctx))
	return rec
}

func TestSubjectGetNotFound(t *testing.T) {
	st := store.New(t.TempDir())
	require.NoError(t, st.Init("alice"))
	h := &Handler{Store: st}

	rec := subjectGetRequest(h, "alice", "Ghost")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// The response body is built from a copy taken under the account lock, so
// serializing it races with nothing. Two sessions of the same account may
// read and save positions at the same time.
func TestSubjectGetConcurrentWithPositionSaves(t *testing.T) {
	st := store.New(t.TempDir())
	require.NoError(t, st.Init("alice"))
	require.NoError(t, st.AddSubject("alice", "Math"))
	v, err := st.AddVideo("alice", "Math", "https://youtu.be/abc", "")
	require.NoError(t, err)
	h := &Handler{Store: st}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			st.SaveVideoPosition("alice", "Math", v.ItemID, 0, 0, i)
		}
	}()

	for i := 0; i < 50; i++ {
		rec := subjectGetRequest(h, "alice", "Math")
		require.Equal(t, http.StatusOK, rec.Code)
		var sub model.Subject
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		require.Len(t, sub.Videos, 1)
	}
	<-done
}
