package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/YannKr/studyportal/internal/auth"
)

// Export handles GET /api/export: the full tree wrapped with an export
// timestamp, as a download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	data, err := h.Store.Export(account)
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=studyportal_%s.json", account))
	w.Write(data)
}

// Import handles POST /api/import. The payload comes from an untrusted
// source; a payload that does not parse leaves the live tree untouched.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	raw, err := io.ReadAll(io.LimitReader(r.Body, h.Cfg.MaxUploadBytes))
	if err != nil {
		fail(w, err)
		return
	}
	if err := h.Store.Import(account, raw); err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]string{"status": "imported"})
}
