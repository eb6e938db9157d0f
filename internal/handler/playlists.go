package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YannKr/studyportal/internal/auth"
)

// PlaylistAdd handles POST /api/subjects/{subject}/playlists.
func (h *Handler) PlaylistAdd(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var req addLinkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	playlist, err := h.Store.AddPlaylist(account, chi.URLParam(r, "subject"), req.URL, req.Title)
	if err != nil {
		fail(w, err)
		return
	}
	jsonCreated(w, playlist)
}

// PlaylistDelete handles DELETE /api/subjects/{subject}/playlists/{itemID}.
func (h *Handler) PlaylistDelete(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	err := h.Store.RemovePlaylist(account, chi.URLParam(r, "subject"), chi.URLParam(r, "itemID"))
	if err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]string{"status": "deleted"})
}

// PlaylistPosition handles PUT /api/subjects/{subject}/playlists/{itemID}/position.
// Index is the 1-based video number within the playlist.
func (h *Handler) PlaylistPosition(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var req positionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	total, err := h.Store.SavePlaylistPosition(account, chi.URLParam(r, "subject"), chi.URLParam(r, "itemID"),
		req.Index, req.Hours, req.Minutes, req.Seconds)
	if err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]int{"position_seconds": total, "index": req.Index})
}
