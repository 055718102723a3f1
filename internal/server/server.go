package server

import (
	"database/sql"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorelog/internal/handler"
	"github.com/dukerupert/chorelog/internal/insights"
	"github.com/dukerupert/chorelog/internal/metrics"
	"github.com/dukerupert/chorelog/internal/middleware"
	"github.com/dukerupert/chorelog/internal/snapshot"
	"github.com/dukerupert/chorelog/internal/store"
	ws "github.com/dukerupert/chorelog/internal/websocket"
	"github.com/dukerupert/chorelog/web"
)

// Config carries the settings the router needs beyond its stores.
type Config struct {
	Location *time.Location
	// Now overrides the clock in tests.
	Now func() time.Time
	// InsightsInterval and InsightsBurst bound AI summary requests per client.
	InsightsInterval time.Duration
	InsightsBurst    int
	// OriginPatterns restricts websocket origins; empty allows any.
	OriginPatterns []string
	// Snapshots backs the snapshot endpoints; nil reports them disabled.
	Snapshots *snapshot.Manager
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	logH        *handler.LogHandler
	memberH     *handler.FamilyMemberHandler
	statsH      *handler.StatsHandler
	insightsH   *handler.InsightsHandler
	snapshotH   *handler.SnapshotHandler
	templateH   *handler.TemplateHandler
	rateLimiter *middleware.RateLimiter
	cfg         Config
	logger      *slog.Logger
}

func New(db *sql.DB, gen insights.Generator, tmpl *template.Template, cfg Config, logger *slog.Logger) *Server {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.InsightsInterval <= 0 {
		cfg.InsightsInterval = 30 * time.Second
	}
	if cfg.InsightsBurst <= 0 {
		cfg.InsightsBurst = 3
	}

	hub := ws.NewHub(logger)
	clock := handler.Clock{Now: cfg.Now, Location: cfg.Location}

	reqOpts := []insights.Option{
		insights.WithLocation(cfg.Location),
		insights.WithObserver(func(o insights.Outcome) { metrics.ObserveInsights(string(o)) }),
	}
	if cfg.Now != nil {
		reqOpts = append(reqOpts, insights.WithClock(cfg.Now))
	}

	deps := handler.Deps{
		Logs:     store.NewLogStore(db),
		Members:  store.NewMemberStore(db),
		Settings: store.NewSettingsStore(db),
		Hub:      hub,
		Insights: insights.NewRequester(gen, logger, reqOpts...),
		Clock:    clock,
		Logger:   logger.With("component", "handler"),
	}

	return &Server{
		db:          db,
		hub:         hub,
		logH:        handler.NewLogHandler(deps),
		memberH:     handler.NewFamilyMemberHandler(deps),
		statsH:      handler.NewStatsHandler(deps),
		insightsH:   handler.NewInsightsHandler(deps),
		snapshotH:   handler.NewSnapshotHandler(deps, cfg.Snapshots),
		templateH:   handler.NewTemplateHandler(deps, tmpl),
		rateLimiter: middleware.NewRateLimiter(cfg.InsightsInterval, cfg.InsightsBurst),
		cfg:         cfg,
		logger:      logger,
	}
}

// Hub returns the websocket hub so other components can publish changes.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(web.Static, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.cfg.OriginPatterns))

	s.registerAPIRoutes(mux)
	s.registerPageRoutes(mux)

	var h http.Handler = mux
	h = middleware.RequestMetrics(metrics.HTTPRequests)(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	return h
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "clients": s.hub.ClientCount()})
}

// rateLimited wraps h with the per-client insights limit.
func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP)(h)
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/chores", s.logH.Catalog)

	mux.HandleFunc("GET /api/logs", s.logH.List)
	mux.HandleFunc("POST /api/logs", s.logH.Create)
	mux.HandleFunc("POST /api/logs/batch", s.logH.Batch)
	mux.HandleFunc("DELETE /api/logs/{id}", s.logH.Delete)
	mux.HandleFunc("DELETE /api/logs", s.logH.Clear)

	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("GET /api/members/active", s.memberH.GetActive)
	mux.HandleFunc("PUT /api/members/active", s.memberH.SetActive)
	mux.HandleFunc("PUT /api/members/order", s.memberH.Reorder)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)

	mux.HandleFunc("GET /api/stats/daily", s.statsH.Daily)
	mux.HandleFunc("GET /api/stats/top", s.statsH.Top)
	mux.HandleFunc("GET /api/stats/recent", s.statsH.Recent)
	mux.HandleFunc("GET /api/stats/trend", s.statsH.Trend)
	mux.HandleFunc("POST /api/stats/trend/hit", s.statsH.Hit)

	mux.Handle("POST /api/insights", s.rateLimited(s.insightsH.Generate))

	mux.HandleFunc("GET /api/snapshots", s.snapshotH.List)
	mux.HandleFunc("POST /api/snapshots", s.snapshotH.Create)
	mux.HandleFunc("POST /api/snapshots/{id}/restore", s.snapshotH.Restore)
}

func (s *Server) registerPageRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", s.templateH.Home)
	mux.HandleFunc("GET /log", s.templateH.LogPage)
	mux.HandleFunc("GET /members", s.templateH.MembersPage)
	mux.HandleFunc("GET /insights", s.templateH.InsightsPage)

	mux.HandleFunc("GET /partials/stats/trend", s.templateH.TrendPartial)
	mux.HandleFunc("POST /partials/stats/trend/click", s.templateH.TrendClick)
	mux.HandleFunc("GET /partials/stats/top", s.templateH.TopPartial)
	mux.HandleFunc("GET /partials/stats/recent", s.templateH.RecentPartial)

	mux.HandleFunc("POST /partials/logs", s.templateH.LogChores)
	mux.HandleFunc("DELETE /partials/logs/{id}", s.templateH.DeleteLog)
	mux.HandleFunc("POST /partials/logs/clear", s.templateH.ClearLogs)

	mux.HandleFunc("POST /partials/members", s.templateH.CreateMember)
	mux.HandleFunc("POST /partials/members/deselect", s.templateH.DeselectMember)
	mux.HandleFunc("PUT /partials/members/{id}", s.templateH.UpdateMember)
	mux.HandleFunc("DELETE /partials/members/{id}", s.templateH.DeleteMember)
	mux.HandleFunc("POST /partials/members/{id}/select", s.templateH.SelectMember)

	mux.Handle("POST /partials/insights", s.rateLimited(s.templateH.InsightsPartial))
}
