package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/YannKr/studyportal/internal/analytics"
	"github.com/YannKr/studyportal/internal/auth"
	"github.com/YannKr/studyportal/internal/model"
)

// Analytics handles GET /api/analytics: every derived series in one
// payload, recomputed from the latest snapshot on each call.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())
	var out map[string]any
	h.Store.Read(account, func(tree *model.ContentTree) {
		out = map[string]any{
			"overview":         analytics.OverviewOf(tree),
			"daily_totals":     analytics.DailyTotals(tree),
			"weekly_totals":    analytics.WeeklyTotals(tree),
			"subject_progress": analytics.SubjectProgressAll(tree),
			"habits":           analytics.Habits(tree, time.Now()),
		}
	})
	jsonOK(w, out)
}

// AnalyticsExport handles GET /api/analytics/export: the raw session log
// as CSV, for spreadsheets.
func (h *Handler) AnalyticsExport(w http.ResponseWriter, r *http.Request) {
	account := auth.AccountFromContext(r.Context())

	var sessions []model.SessionEvent
	h.Store.Read(account, func(tree *model.ContentTree) {
		sessions = append(sessions, tree.StudySessions...)
	})

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=study_sessions_%s.csv", account))

	writer := csv.NewWriter(w)
	writer.Write([]string{"Date", "Duration Seconds", "Duration Minutes"})
	for _, ev := range sessions {
		writer.Write([]string{
			ev.Date.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.1f", ev.Duration),
			fmt.Sprintf("%.1f", ev.Duration/60),
		})
	}
	writer.Flush()
}
