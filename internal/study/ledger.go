// Package study keeps the per-account study timer and turns completed
// intervals into appended session events. Timer state is transient: it
// lives in memory only and is reset explicitly at logout, never persisted.
package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/YannKr/studyportal/internal/model"
	"github.com/YannKr/studyportal/internal/sse"
	"github.com/YannKr/studyportal/internal/store"
)

var ErrNoActiveTimer = errors.New("no active timer")

// Ledger tracks at most one running timer per account. Starting while a
// timer is already running overwrites it and the earlier elapsed time is
// lost; that is the documented behavior, not an accident.
type Ledger struct {
	store *store.Store
	hub   *sse.Hub

	mu     sync.Mutex
	active map[string]time.Time
}

func NewLedger(st *store.Store, hub *sse.Hub) *Ledger {
	return &Ledger{
		store:  st,
		hub:    hub,
		active: make(map[string]time.Time),
	}
}

// Start records the start marker and returns it.
func (l *Ledger) Start(account string) time.Time {
	now := time.Now()
	l.mu.Lock()
	l.active[account] = now
	l.mu.Unlock()
	l.publish(account, "timer_started", map[string]any{
		"started_at": now.UTC().Format(time.RFC3339),
	})
	return now
}

// Stop closes the running timer: it appends an immutable session event,
// bumps the running total by the same duration, and saves. Returns
// ErrNoActiveTimer when nothing is running.
func (l *Ledger) Stop(account string) (model.SessionEvent, error) {
	l.mu.Lock()
	startedAt, ok := l.active[account]
	if ok {
		delete(l.active, account)
	}
	l.mu.Unlock()
	if !ok {
		return model.SessionEvent{}, ErrNoActiveTimer
	}

	ev := model.SessionEvent{
		Date:     time.Now().UTC(),
		Duration: time.Since(startedAt).Seconds(),
	}
	if err := l.store.AppendSession(account, ev); err != nil {
		return model.SessionEvent{}, err
	}
	l.publish(account, "session_saved", map[string]any{
		"duration_seconds": ev.Duration,
		"formatted":        FormatSeconds(int(ev.Duration)),
	})
	return ev, nil
}

// Elapsed reports how long the current timer has been running. Pure read.
func (l *Ledger) Elapsed(account string) (time.Duration, bool) {
	l.mu.Lock()
	startedAt, ok := l.active[account]
	l.mu.Unlock()
	if !ok {
		return 0, false
	}
	return time.Since(startedAt), true
}

// Reset drops any running timer without recording anything. Called at
// logout and account deletion.
func (l *Ledger) Reset(account string) {
	l.mu.Lock()
	delete(l.active, account)
	l.mu.Unlock()
}

func (l *Ledger) publish(account, eventType string, payload map[string]any) {
	if l.hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	l.hub.Publish(account, sse.Event{Type: eventType, Data: string(data)})
}

// FormatSeconds renders a second count as HH:MM:SS.
func FormatSeconds(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
