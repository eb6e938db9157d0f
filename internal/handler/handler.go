package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/YannKr/studyportal/internal/config"
	"github.com/YannKr/studyportal/internal/identity"
	"github.com/YannKr/studyportal/internal/sse"
	"github.com/YannKr/studyportal/internal/store"
	"github.com/YannKr/studyportal/internal/study"
)

type Handler struct {
	DB       *sql.DB
	Cfg      *config.Config
	Store    *store.Store
	Identity *identity.Service
	Ledger   *study.Ledger
	SSE      *sse.Hub
}

func New(database *sql.DB, cfg *config.Config, st *store.Store, ident *identity.Service, ledger *study.Ledger, hub *sse.Hub) *Handler {
	return &Handler{
		DB:       database,
		Cfg:      cfg,
		Store:    st,
		Identity: ident,
		Ledger:   ledger,
		SSE:      hub,
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func jsonOK(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonCreated(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(v)
}

// fail maps the error taxonomy onto status codes; anything unrecognised is
// an internal error and gets logged rather than leaked.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, identity.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrAlreadyExists), errors.Is(err, identity.ErrAlreadyExists):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, study.ErrNoActiveTimer):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrInvalidURL), errors.Is(err, store.ErrInvalidInput),
		errors.Is(err, store.ErrInvalidImport), errors.Is(err, identity.ErrInvalidInput):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, identity.ErrInvalidCredentials):
		jsonError(w, "invalid username or password", http.StatusUnauthorized)
	default:
		slog.Error("request failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}
