// Package autosave flushes cached content trees on a wall-clock cadence.
// Every mutation already saves, so the flush is purely a safety net; the
// same loop also purges expired auth sessions.
package autosave

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/YannKr/studyportal/internal/db"
	"github.com/YannKr/studyportal/internal/store"
)

type Saver struct {
	DB       *sql.DB
	Store    *store.Store
	Interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func (s *Saver) Start(ctx context.Context) {
	if s.Interval <= 0 {
		// a non-positive interval would panic the ticker
		s.Interval = time.Second
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx)
	slog.Info("autosave scheduler started", "interval", s.Interval)
}

func (s *Saver) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	slog.Info("autosave scheduler stopped")
}

func (s *Saver) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// final flush so nothing cached is newer than disk at exit
			s.Store.Flush()
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Saver) runOnce() {
	s.Store.Flush()
	if err := db.CleanExpiredSessions(s.DB); err != nil {
		slog.Error("autosave: clean expired sessions", "error", err)
	}
}
