package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YannKr/studyportal/internal/auth"
)

type addLinkReq struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type positionReq struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
	Index   int `json:"index"` // playlists only
}

// VideoAdd handles POST /api/subjects/{subject}/videos.
func (h *Handler) VideoAdd(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var req addLinkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	video, err := h.Store.AddVideo(account, chi.URLParam(r, "subject"), req.URL, req.Title)
	if err != nil {
		fail(w, err)
		return
	}
	jsonCreated(w, video)
}

// VideoDelete handles DELETE /api/subjects/{subject}/videos/{itemID}.
func (h *Handler) VideoDelete(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	err := h.Store.RemoveVideo(account, chi.URLParam(r, "subject"), chi.URLParam(r, "itemID"))
	if err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]string{"status": "deleted"})
}

// VideoPosition handles PUT /api/subjects/{subject}/videos/{itemID}/position.
func (h *Handler) VideoPosition(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var req positionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	total, err := h.Store.SaveVideoPosition(account, chi.URLParam(r, "subject"), chi.URLParam(r, "itemID"),
		req.Hours, req.Minutes, req.Seconds)
	if err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]int{"position_seconds": total})
}
