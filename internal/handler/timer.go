package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/YannKr/studyportal/internal/auth"
	"github.com/YannKr/studyportal/internal/study"
)

// TimerStart handles POST /api/timer/start. Starting while a timer is
// already running replaces it; the earlier elapsed time is discarded.
func (h *Handler) TimerStart(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	startedAt := h.Ledger.Start(account)
	jsonOK(w, map[string]string{"started_at": startedAt.UTC().Format(time.RFC3339)})
}

// TimerStop handles POST /api/timer/stop.
func (h *Handler) TimerStop(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	ev, err := h.Ledger.Stop(account)
	if err != nil {
		fail(w, err)
		return
	}
	jsonOK(w, map[string]any{
		"date":             ev.Date.Format(time.RFC3339),
		"duration_seconds": ev.Duration,
		"formatted":        study.FormatSeconds(int(ev.Duration)),
	})
}

// TimerElapsed handles GET /api/timer/elapsed. Pure read for live display.
func (h *Handler) TimerElapsed(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	elapsed, running := h.Ledger.Elapsed(account)
	jsonOK(w, map[string]any{
		"running":         running,
		"elapsed_seconds": elapsed.Seconds(),
		"formatted":       study.FormatSeconds(int(elapsed.Seconds())),
	})
}

// TimerEvents handles GET /api/timer/events: an SSE stream of timer
// start/stop events for the authenticated account.
func (h *Handler) TimerEvents(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, unsub := h.SSE.Subscribe(account)
	defer unsub()

	// heartbeat keeps intermediaries from closing an idle stream
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case ev := <-events:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data)
			flusher.Flush()
		}
	}
}
