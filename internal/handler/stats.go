package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/chorelog/internal/chart"
	"github.com/dukerupert/chorelog/internal/stats"
)

// Chart dimensions accepted from clients, in px.
const (
	minChartSize = 120
	maxChartSize = 2000
)

type StatsHandler struct {
	Deps
}

func NewStatsHandler(d Deps) *StatsHandler {
	return &StatsHandler{Deps: d}
}

// Daily returns the day buckets for ?window=7|14.
func (h *StatsHandler) Daily(w http.ResponseWriter, r *http.Request) {
	st := h.snapshot(r.Context())
	window := stats.ParseWindow(r.URL.Query().Get("window"))
	writeJSON(w, http.StatusOK, stats.DailyBuckets(st.Logs, st.Members, window, h.Clock.now()))
}

// Top returns the most logged chores. ?days=N limits the count to the last
// N days; without it every log counts.
func (h *StatsHandler) Top(w http.ResponseWriter, r *http.Request) {
	st := h.snapshot(r.Context())
	writeJSON(w, http.StatusOK, stats.TopChores(st.Logs, h.topSince(r.URL.Query().Get("days")), stats.DefaultTopN))
}

func (h *StatsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	st := h.snapshot(r.Context())
	writeJSON(w, http.StatusOK, stats.RecentGroups(st.Logs, st.Members, h.Clock.now(), stats.RecentDays))
}

// Trend returns the laid out chart for ?window=&width=&height=.
func (h *StatsHandler) Trend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window := stats.ParseWindow(q.Get("window"))
	opts := chartOptions(q.Get("width"), q.Get("height"))
	writeJSON(w, http.StatusOK, h.layout(r, window, opts))
}

// Hit resolves a click on the trend chart to the tooltip it opens.
func (h *StatsHandler) Hit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Window int     `json:"window"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	opts := chart.DefaultOptions().WithSize(clampSize(req.Width), clampSize(req.Height))
	c := h.layout(r, stats.NormalizeWindow(req.Window), opts)

	var t chart.Tooltip
	t.Click(c, chart.Point{X: req.X, Y: req.Y})
	sel, ok := t.Selected()
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"selected": false, "selection": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"selected": true, "selection": sel})
}

func (h *StatsHandler) layout(r *http.Request, window int, opts chart.Options) chart.Chart {
	st := h.snapshot(r.Context())
	return chart.Layout(stats.DailyBuckets(st.Logs, st.Members, window, h.Clock.now()), opts)
}

func (d Deps) topSince(days string) time.Time {
	n, err := strconv.Atoi(days)
	if err != nil || n <= 0 {
		return time.Time{}
	}
	return d.Clock.now().AddDate(0, 0, -n)
}

func chartOptions(width, height string) chart.Options {
	w, _ := strconv.ParseFloat(width, 64)
	h, _ := strconv.ParseFloat(height, 64)
	return chart.DefaultOptions().WithSize(clampSize(w), clampSize(h))
}

// clampSize bounds a client supplied dimension. Zero means "use the default".
func clampSize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return min(max(v, minChartSize), maxChartSize)
}
