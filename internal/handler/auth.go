package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/YannKr/studyportal/internal/auth"
	"github.com/YannKr/studyportal/internal/db"
	"github.com/YannKr/studyportal/internal/model"
)

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		jsonError(w, "username and password required", http.StatusBadRequest)
		return
	}
	if err := h.Identity.Register(req.Username, req.Password); err != nil {
		fail(w, err)
		return
	}
	slog.Info("account registered", "account", req.Username)
	jsonCreated(w, map[string]string{"username": req.Username})
}

// Login handles POST /api/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	account, err := h.Identity.Authenticate(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		fail(w, err)
		return
	}

	sessionID, err := auth.GenerateToken(32)
	if err != nil {
		fail(w, err)
		return
	}
	ttl := time.Duration(h.Cfg.SessionTTLHours) * time.Hour
	session := &model.Session{
		ID:        sessionID,
		Account:   account.Name,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := db.CreateSession(h.DB, session); err != nil {
		fail(w, err)
		return
	}
	if err := h.Store.TouchLastLogin(account.Name); err != nil {
		slog.Warn("touch last login", "account", account.Name, "error", err)
	}

	auth.SetSessionCookie(w, sessionID, h.Cfg.SessionSecret, int(ttl.Seconds()))
	jsonOK(w, map[string]string{"username": account.Name})
}

// Logout handles POST /api/logout. The active timer is dropped with the
// session; an unstopped timer does not survive logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	if sessionID, ok := auth.GetSessionID(r, h.Cfg.SessionSecret); ok {
		db.DeleteSession(h.DB, sessionID)
	}
	h.Ledger.Reset(account)
	auth.ClearSessionCookie(w)
	jsonOK(w, map[string]string{"status": "logged out"})
}

// Me handles GET /api/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	acct, err := db.GetAccount(h.DB, account)
	if err != nil {
		fail(w, err)
		return
	}
	if acct == nil {
		jsonError(w, "account not found", http.StatusNotFound)
		return
	}
	var lastLogin time.Time
	h.Store.Read(account, func(tree *model.ContentTree) {
		lastLogin = tree.LastLogin
	})
	jsonOK(w, map[string]any{
		"username":   acct.Name,
		"created_at": acct.CreatedAt.UTC().Format(time.RFC3339),
		"last_login": lastLogin.UTC().Format(time.RFC3339),
	})
}

type accountUpdateReq struct {
	NewUsername string `json:"new_username"`
	NewPassword string `json:"new_password"`
}

// AccountUpdate handles PUT /api/account: rename and/or credential change.
// The registry update and storage relocation go through the identity
// service's journaled rename.
func (h *Handler) AccountUpdate(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var req accountUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	newName := strings.TrimSpace(req.NewUsername)
	if newName == "" {
		newName = account
	}
	if req.NewPassword == "" {
		jsonError(w, "new_password required", http.StatusBadRequest)
		return
	}
	if err := h.Identity.Rename(account, newName, req.NewPassword); err != nil {
		fail(w, err)
		return
	}
	h.Ledger.Reset(account)
	// old sessions were keyed to the old name and followed the rename via
	// the cascade; force a fresh login anyway
	db.DeleteSessionsByAccount(h.DB, newName)
	auth.ClearSessionCookie(w)
	slog.Info("account renamed", "old", account, "new", newName)
	jsonOK(w, map[string]string{"username": newName})
}

// AccountDelete handles DELETE /api/account. Irreversible.
func (h *Handler) AccountDelete(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	if err := h.Identity.Delete(account); err != nil {
		fail(w, err)
		return
	}
	h.Ledger.Reset(account)
	auth.ClearSessionCookie(w)
	slog.Info("account deleted", "account", account)
	jsonOK(w, map[string]string{"status": "deleted"})
}
