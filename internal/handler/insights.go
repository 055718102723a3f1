package handler

import (
	"net/http"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/insights"
)

type InsightsHandler struct {
	Deps
}

func NewInsightsHandler(d Deps) *InsightsHandler {
	return &InsightsHandler{Deps: d}
}

// Generate summarizes the last week. The answer is always 200; generator
// failures come back as the fixed failure text.
func (h *InsightsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	text := h.analyze(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"markdown": text,
		"html":     insights.RenderHTML(text),
	})
}

func (d Deps) analyze(r *http.Request) string {
	st := d.snapshot(r.Context())
	return d.Insights.Analyze(r.Context(), st.Logs, st.Members, catalog.All())
}
