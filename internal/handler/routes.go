package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
)

func (h *Handler) Routes(authRL *RateLimiter) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	csrfProtect := csrf.Protect(
		[]byte(h.Cfg.SessionSecret),
		csrf.Secure(strings.HasPrefix(h.Cfg.BaseURL, "https")),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	r.Use(csrfProtect)

	// Clients fetch the CSRF token here and echo it in X-CSRF-Token on
	// every mutating request.
	r.Get("/api/csrf", func(w http.ResponseWriter, r *http.Request) {
		jsonOK(w, map[string]string{"token": csrf.Token(r)})
	})

	// Public routes (rate-limited)
	r.Group(func(r chi.Router) {
		r.Use(authRL.Middleware)
		r.Post("/api/register", h.Register)
		r.Post("/api/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Post("/api/logout", h.Logout)
		r.Get("/api/me", h.Me)
		r.Put("/api/account", h.AccountUpdate)
		r.Delete("/api/account", h.AccountDelete)

		r.Get("/api/subjects", h.SubjectList)
		r.Post("/api/subjects", h.SubjectCreate)
		r.Get("/api/subjects/{subject}", h.SubjectGet)
		r.Delete("/api/subjects/{subject}", h.SubjectDelete)

		r.Post("/api/subjects/{subject}/videos", h.VideoAdd)
		r.Delete("/api/subjects/{subject}/videos/{itemID}", h.VideoDelete)
		r.Put("/api/subjects/{subject}/videos/{itemID}/position", h.VideoPosition)

		r.Post("/api/subjects/{subject}/playlists", h.PlaylistAdd)
		r.Delete("/api/subjects/{subject}/playlists/{itemID}", h.PlaylistDelete)
		r.Put("/api/subjects/{subject}/playlists/{itemID}/position", h.PlaylistPosition)

		r.Post("/api/subjects/{subject}/documents", h.DocumentUpload)
		r.Delete("/api/subjects/{subject}/documents/{itemID}", h.DocumentDelete)
		r.Get("/api/subjects/{subject}/documents/{itemID}/file", h.DocumentFile)
		r.Put("/api/subjects/{subject}/documents/{itemID}/page", h.DocumentPage)

		r.Put("/api/subjects/{subject}/{kind}/{itemID}/progress", h.ProgressUpdate)

		r.Post("/api/timer/start", h.TimerStart)
		r.Post("/api/timer/stop", h.TimerStop)
		r.Get("/api/timer/elapsed", h.TimerElapsed)
		r.Get("/api/timer/events", h.TimerEvents)

		r.Get("/api/analytics", h.Analytics)
		r.Get("/api/analytics/export", h.AnalyticsExport)

		r.Get("/api/export", h.Export)
		r.Post("/api/import", h.Import)
	})

	return r
}
