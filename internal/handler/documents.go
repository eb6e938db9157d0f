package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YannKr/studyportal/internal/auth"
	"github.com/YannKr/studyportal/internal/model"
	"github.com/YannKr/studyportal/internal/store"
)

// DocumentUpload handles POST /api/subjects/{subject}/documents. Multipart
// form, field "file", repeated fields allowed. Filenames already present in
// the subject are skipped, never overwritten.
func (h *Handler) DocumentUpload(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	subject := chi.URLParam(r, "subject")

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadBytes); err != nil {
		jsonError(w, "failed to parse multipart form", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		jsonError(w, "missing 'file' field in form", http.StatusBadRequest)
		return
	}

	var uploaded []model.DocumentItem
	var skipped []string
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			fail(w, err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, h.Cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			fail(w, err)
			return
		}
		if int64(len(data)) > h.Cfg.MaxUploadBytes {
			jsonError(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		doc, wasSkipped, err := h.Store.AddDocument(account, subject, header.Filename, data)
		if err != nil {
			fail(w, err)
			return
		}
		if wasSkipped {
			skipped = append(skipped, header.Filename)
			continue
		}
		uploaded = append(uploaded, doc)
	}
	if uploaded == nil {
		uploaded = []model.DocumentItem{}
	}
	if skipped == nil {
		skipped = []string{}
	}
	jsonCreated(w, map[string]any{"uploaded": uploaded, "skipped": skipped})
}

// DocumentDelete handles DELETE /api/subjects/{subject}/documents/{itemID}.
func (h *Handler) DocumentDelete(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	err := h.Store.RemoveDocument(account, chi.URLParam(r, "subject"), chi.URLParam(r, "itemID"))
	if err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]string{"status": "deleted"})
}

// DocumentFile handles GET /api/subjects/{subject}/documents/{itemID}/file
// and serves the stored bytes; viewing is the client's business.
func (h *Handler) DocumentFile(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	subject := chi.URLParam(r, "subject")
	itemID := chi.URLParam(r, "itemID")

	var path string
	h.Store.Read(account, func(tree *model.ContentTree) {
		sub, ok := tree.Subjects[subject]
		if !ok {
			return
		}
		for _, d := range sub.Documents {
			if d.ItemID == itemID {
				path = d.Path
				return
			}
		}
	})
	if path == "" {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}

// DocumentPage handles PUT /api/subjects/{subject}/documents/{itemID}/page.
func (h *Handler) DocumentPage(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var req struct {
		CurrentPage int `json:"current_page"`
		TotalPages  int `json:"total_pages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	err := h.Store.SaveDocumentPage(account, chi.URLParam(r, "subject"), chi.URLParam(r, "itemID"),
		req.CurrentPage, req.TotalPages)
	if err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]int{"current_page": req.CurrentPage, "total_pages": req.TotalPages})
}

// ProgressUpdate handles PUT /api/subjects/{subject}/{kind}/{itemID}/progress
// for all three item kinds.
func (h *Handler) ProgressUpdate(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var kind store.ItemKind
	switch chi.URLParam(r, "kind") {
	case "videos":
		kind = store.KindVideo
	case "playlists":
		kind = store.KindPlaylist
	case "documents":
		kind = store.KindDocument
	default:
		jsonError(w, "unknown item kind", http.StatusNotFound)
		return
	}
	var req struct {
		Progress int `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	err := h.Store.UpdateProgress(account, chi.URLParam(r, "subject"), kind, chi.URLParam(r, "itemID"), req.Progress)
	if err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]int{"progress": req.Progress})
}
