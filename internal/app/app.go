package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	studyportal "github.com/YannKr/studyportal"
	"github.com/YannKr/studyportal/internal/autosave"
	"github.com/YannKr/studyportal/internal/config"
	"github.com/YannKr/studyportal/internal/db"
	"github.com/YannKr/studyportal/internal/handler"
	"github.com/YannKr/studyportal/internal/identity"
	"github.com/YannKr/studyportal/internal/sse"
	"github.com/YannKr/studyportal/internal/store"
	"github.com/YannKr/studyportal/internal/study"
)

func Run(ctx context.Context, cfg *config.Config) error {
	// Ensure data directories exist
	for _, dir := range []string{cfg.DataDir, filepath.Join(cfg.DataDir, "users")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	// Open database
	database, err := db.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database, studyportal.MigrationFS); err != nil {
		return err
	}
	slog.Info("database ready")

	contentStore := store.New(cfg.DataDir)
	ident := identity.New(database, contentStore, cfg.DataDir)

	// Complete any rename a previous process died in the middle of
	if err := ident.Recover(); err != nil {
		return err
	}

	// SSE hub for the timer widget
	hub := sse.New()

	ledger := study.NewLedger(contentStore, hub)

	// Advisory snapshot flush + expired session purge
	saver := &autosave.Saver{
		DB:       database,
		Store:    contentStore,
		Interval: time.Duration(cfg.AutosaveInterval) * time.Second,
	}
	saver.Start(ctx)
	defer saver.Stop()

	// Rate limiter for auth endpoints: 5 requests/minute, burst of 5
	authRL := handler.NewRateLimiter(5.0/60.0, 5)
	defer authRL.Stop()

	h := handler.New(database, cfg, contentStore, ident, ledger, hub)
	router := h.Routes(authRL)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		srv.Shutdown(context.Background())
	}()

	slog.Info("server starting", "addr", cfg.ListenAddr, "base_url", cfg.BaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
