package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/YannKr/studyportal/internal/auth"
	"github.com/YannKr/studyportal/internal/model"
)

type subjectSummary struct {
	Name      string    `json:"name"`
	Videos    int       `json:"videos"`
	Playlists int       `json:"playlists"`
	Documents int       `json:"documents"`
	CreatedAt time.Time `json:"created_at"`
}

// SubjectList handles GET /api/subjects, ordered by creation time for
// display.
func (h *Handler) SubjectList(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var out []subjectSummary
	h.Store.Read(account, func(tree *model.ContentTree) {
		for name, sub := range tree.Subjects {
			out = append(out, subjectSummary{
				Name:      name,
				Videos:    len(sub.Videos),
				Playlists: len(sub.Playlists),
				Documents: len(sub.Documents),
				CreatedAt: sub.CreatedAt,
			})
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	if out == nil {
		out = []subjectSummary{}
	}
	jsonOK(w, out)
}

// SubjectCreate handles POST /api/subjects.
func (h *Handler) SubjectCreate(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.Store.AddSubject(account, req.Name); err != nil {
		fail(w, err)
		return
	}
	jsonCreated(w, map[string]string{"name": req.Name})
}

// SubjectGet handles GET /api/subjects/{subject}: the full contents.
func (h *Handler) SubjectGet(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	name := chi.URLParam(r, "subject")
	var sub *model.Subject
	h.Store.Read(account, func(tree *model.ContentTree) {
		s, ok := tree.Subjects[name]
		if !ok {
			return
		}
		// deep-copy under the lock; the item slices must not alias the
		// live tree once the lock is released
		c := model.Subject{
			Videos:    make([]model.VideoItem, len(s.Videos)),
			Playlists: make([]model.PlaylistItem, len(s.Playlists)),
			Documents: make([]model.DocumentItem, len(s.Documents)),
			CreatedAt: s.CreatedAt,
		}
		copy(c.Videos, s.Videos)
		copy(c.Playlists, s.Playlists)
		copy(c.Documents, s.Documents)
		sub = &c
	})
	if sub == nil {
		jsonError(w, "subject not found", http.StatusNotFound)
		return
	}
	jsonOK(w, sub)
}

// SubjectDelete handles DELETE /api/subjects/{subject}. Removes the whole
// unit including backing document files.
func (h *Handler) SubjectDelete(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	if err := h.Store.RemoveSubject(account, chi.URLParam(r, "subject")); err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]string{"status": "deleted"})
}
