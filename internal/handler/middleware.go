package handler

import (
	"net/http"
	"time"

	"github.com/YannKr/studyportal/internal/auth"
	"github.com/YannKr/studyportal/internal/db"
)

// RequireAuth resolves the signed session cookie to an account name and
// puts it on the request context. Everything behind it can assume
// auth.AccountFromContext is non-empty.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := auth.GetSessionID(r, h.Cfg.SessionSecret)
		if !ok {
			jsonError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		session, err := db.GetSession(h.DB, sessionID)
		if err != nil || session == nil || session.ExpiresAt.Before(time.Now()) {
			auth.ClearSessionCookie(w)
			jsonError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		account, err := db.GetAccount(h.DB, session.Account)
		if err != nil || account == nil {
			auth.ClearSessionCookie(w)
			jsonError(w, "authentication required", http.StatusUnauthorized)
			return
		}

		ctx := auth.ContextWithAccount(r.Context(), account.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
