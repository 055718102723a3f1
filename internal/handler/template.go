package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/chart"
	"github.com/dukerupert/chorelog/internal/insights"
	"github.com/dukerupert/chorelog/internal/model"
	"github.com/dukerupert/chorelog/internal/stats"
	"github.com/dukerupert/chorelog/internal/store"
	"github.com/dukerupert/chorelog/web"
)

// ParseTemplates loads the embedded page and partial templates. Times are
// shown in loc.
func ParseTemplates(loc *time.Location) (*template.Template, error) {
	funcs := template.FuncMap{
		"glyph":     func(i catalog.Icon) string { return i.Glyph() },
		"memberHex": catalog.MemberHex,
		"clock": func(ms int64) string {
			return time.UnixMilli(ms).In(loc).Format("3:04 PM")
		},
	}
	return template.New("").Funcs(funcs).ParseFS(web.Templates, "templates/*.html")
}

type TemplateHandler struct {
	Deps
	templates *template.Template
}

func NewTemplateHandler(d Deps, tmpl *template.Template) *TemplateHandler {
	return &TemplateHandler{Deps: d, templates: tmpl}
}

// trendView is the trend chart partial.
type trendView struct {
	Window int
	Total  int
	Width  float64
	Height float64
	SVG    template.HTML
	Open   bool
}

type topView struct {
	stats.TopChore
	Color string
}

type pageData struct {
	Title   string
	Page    string
	Active  ActiveMember
	Members []model.FamilyMember
	Colors  []catalog.MemberColor
	Groups  []catalog.Group
	Trend   trendView
	Top     []topView
	TopSVG  template.HTML
	Recent  []stats.RecentGroup
	Summary template.HTML
	Flash   string
	Confirm bool
}

func (h *TemplateHandler) page(st state, name, title string) pageData {
	return pageData{
		Title:   title,
		Page:    name,
		Active:  st.Active,
		Members: st.Members,
		Colors:  catalog.MemberColors,
		Groups:  catalog.Grouped(),
	}
}

// Home is the stats dashboard.
func (h *TemplateHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	st := h.snapshot(r.Context())
	data := h.page(st, "home", "Family Stats")
	data.Trend = h.trend(st, h.window(r, r.URL.Query().Get("window")), chart.DefaultOptions(), nil)
	data.Top, data.TopSVG = h.top(st)
	data.Recent = h.recent(st)
	h.render(w, "layout", data)
}

// LogPage asks who is working, then offers the chore grid.
func (h *TemplateHandler) LogPage(w http.ResponseWriter, r *http.Request) {
	st := h.snapshot(r.Context())
	h.render(w, "layout", h.page(st, "log", "Log a Chore"))
}

func (h *TemplateHandler) MembersPage(w http.ResponseWriter, r *http.Request) {
	st := h.snapshot(r.Context())
	h.render(w, "layout", h.page(st, "members", "Family"))
}

func (h *TemplateHandler) InsightsPage(w http.ResponseWriter, r *http.Request) {
	st := h.snapshot(r.Context())
	h.render(w, "layout", h.page(st, "insights", "Weekly Insights"))
}

// TrendPartial renders the trend chart with no tooltip open. An explicit
// window becomes the dashboard's default.
func (h *TemplateHandler) TrendPartial(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window := h.window(r, q.Get("window"))
	if q.Has("window") {
		h.saveWindow(r, window)
	}
	st := h.snapshot(r.Context())
	data := pageData{Trend: h.trend(st, window, chartOptions(q.Get("width"), q.Get("height")), nil)}
	h.render(w, "trend", data)
}

// window parses raw, falling back to the stored dashboard window when raw is
// empty.
func (h *TemplateHandler) window(r *http.Request, raw string) int {
	if raw != "" || h.Settings == nil {
		return stats.ParseWindow(raw)
	}
	stored, ok, err := h.Settings.Get(r.Context(), store.KeyStatsWindow)
	if err != nil {
		h.Logger.Error("read stats window", "error", err)
	}
	if !ok {
		return stats.WindowWeek
	}
	return stats.ParseWindow(stored)
}

func (h *TemplateHandler) saveWindow(r *http.Request, window int) {
	if h.Settings == nil {
		return
	}
	if err := h.Settings.Set(r.Context(), store.KeyStatsWindow, strconv.Itoa(window)); err != nil {
		h.Logger.Error("save stats window", "error", err)
	}
}

// TrendClick hit-tests a click at (x, y) in chart coordinates. A hit opens
// the tooltip for that block; anything else, including clicks outside the
// chart, closes it.
func (h *TemplateHandler) TrendClick(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	x, errX := strconv.ParseFloat(r.FormValue("x"), 64)
	y, errY := strconv.ParseFloat(r.FormValue("y"), 64)
	p := chart.Point{X: -1, Y: -1}
	if errX == nil && errY == nil {
		p = chart.Point{X: x, Y: y}
	}

	st := h.snapshot(r.Context())
	data := pageData{Trend: h.trend(st, h.window(r, r.FormValue("window")), chartOptions(r.FormValue("width"), r.FormValue("height")), &p)}
	h.render(w, "trend", data)
}

func (h *TemplateHandler) TopPartial(w http.ResponseWriter, r *http.Request) {
	st := h.snapshot(r.Context())
	var data pageData
	data.Top, data.TopSVG = h.top(st)
	h.render(w, "top", data)
}

func (h *TemplateHandler) RecentPartial(w http.ResponseWriter, r *http.Request) {
	st := h.snapshot(r.Context())
	h.render(w, "recent", pageData{Recent: h.recent(st)})
}

// LogChores logs every chore_id in the form for the active member and
// returns the refreshed picker.
func (h *TemplateHandler) LogChores(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	logs, err := h.addLogs(r.Context(), "", r.Form["chore_id"])
	if err != nil && !isInputError(err) {
		h.Logger.Error("add logs", "error", err)
		http.Error(w, "failed to save log", http.StatusInternalServerError)
		return
	}

	st := h.snapshot(r.Context())
	data := h.page(st, "log", "")
	switch {
	case err != nil:
		data.Flash = capitalize(err.Error())
	case len(logs) == 1:
		data.Flash = "Logged " + catalog.Resolve(logs[0].ChoreID).Name + "!"
	default:
		data.Flash = "Logged " + strconv.Itoa(len(logs)) + " chores!"
	}
	h.render(w, "log-picker", data)
}

func (h *TemplateHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	if _, err := h.removeLog(r.Context(), r.PathValue("id")); err != nil {
		h.Logger.Error("remove log", "error", err)
		http.Error(w, "failed to delete log", http.StatusInternalServerError)
		return
	}
	st := h.snapshot(r.Context())
	h.render(w, "recent", pageData{Recent: h.recent(st)})
}

// ClearLogs shows the confirmation prompt unless the form carries confirm=true.
func (h *TemplateHandler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	if r.FormValue("confirm") != "true" {
		st := h.snapshot(r.Context())
		h.render(w, "recent", pageData{Recent: h.recent(st), Confirm: true})
		return
	}
	if _, err := h.clearLogs(r.Context()); err != nil {
		h.Logger.Error("clear logs", "error", err)
		http.Error(w, "failed to clear logs", http.StatusInternalServerError)
		return
	}
	st := h.snapshot(r.Context())
	h.render(w, "recent", pageData{Recent: h.recent(st), Flash: "All history cleared."})
}

// CreateMember adds a profile. An incomplete form leaves the list unchanged.
func (h *TemplateHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	_, err := h.createMember(r.Context(), memberForm(r))
	h.renderMembers(w, r, err)
}

func (h *TemplateHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	_, err := h.updateMember(r.Context(), r.PathValue("id"), memberForm(r))
	h.renderMembers(w, r, err)
}

func (h *TemplateHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	_, err := h.deleteMember(r.Context(), r.PathValue("id"))
	h.renderMembers(w, r, err)
}

func (h *TemplateHandler) renderMembers(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil && !isInputError(err) {
		h.Logger.Error("save member", "error", err)
		http.Error(w, "failed to save family member", http.StatusInternalServerError)
		return
	}
	st := h.snapshot(r.Context())
	h.render(w, "member-list", h.page(st, "members", ""))
}

// SelectMember makes {id} the active member and shows the chore grid.
func (h *TemplateHandler) SelectMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.selectMember(r.Context(), &id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.Logger.Error("select member", "error", err)
		http.Error(w, "failed to select member", http.StatusInternalServerError)
		return
	}
	st := h.snapshot(r.Context())
	h.render(w, "log-picker", h.page(st, "log", ""))
}

// DeselectMember clears the active member and shows the member picker.
func (h *TemplateHandler) DeselectMember(w http.ResponseWriter, r *http.Request) {
	if err := h.selectMember(r.Context(), nil); err != nil {
		h.Logger.Error("deselect member", "error", err)
		http.Error(w, "failed to clear member", http.StatusInternalServerError)
		return
	}
	st := h.snapshot(r.Context())
	h.render(w, "log-picker", h.page(st, "log", ""))
}

func (h *TemplateHandler) InsightsPartial(w http.ResponseWriter, r *http.Request) {
	text := h.analyze(r)
	h.render(w, "insights-result", pageData{Summary: insights.RenderHTML(text)})
}

// trend lays out the chart and, when click is set, applies it to a fresh tooltip.
func (h *TemplateHandler) trend(st state, window int, opts chart.Options, click *chart.Point) trendView {
	buckets := stats.DailyBuckets(st.Logs, st.Members, window, h.Clock.now())
	c := chart.Layout(buckets, opts)

	var t chart.Tooltip
	if click != nil {
		t.Click(c, *click)
	}
	_, open := t.Selected()

	var buf bytes.Buffer
	if err := chart.RenderSVG(&buf, c, t); err != nil {
		h.Logger.Error("render trend", "error", err)
	}
	return trendView{
		Window: window,
		Total:  stats.Total(buckets),
		Width:  c.Width,
		Height: c.Height,
		SVG:    template.HTML(buf.String()),
		Open:   open,
	}
}

func (h *TemplateHandler) top(st state) ([]topView, template.HTML) {
	top := stats.TopChores(st.Logs, time.Time{}, stats.DefaultTopN)
	views := make([]topView, len(top))
	for i, tc := range top {
		views[i] = topView{TopChore: tc, Color: chart.DonutColor(i)}
	}
	var buf bytes.Buffer
	if err := chart.TopChoresSVG(&buf, top); err != nil {
		h.Logger.Error("render top chores", "error", err)
	}
	return views, template.HTML(buf.String())
}

func (h *TemplateHandler) recent(st state) []stats.RecentGroup {
	return stats.RecentGroups(st.Logs, st.Members, h.Clock.now(), stats.RecentDays)
}

func memberForm(r *http.Request) memberRequest {
	return memberRequest{
		Name:   r.FormValue("name"),
		Avatar: r.FormValue("avatar"),
		Color:  r.FormValue("color"),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (h *TemplateHandler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.Logger.Error("template error", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
