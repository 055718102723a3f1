package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorelog/internal/handler"
	"github.com/dukerupert/chorelog/internal/insights"
	"github.com/dukerupert/chorelog/internal/server"
)

const rateLimiterIdle = 10 * time.Minute

func newServeCmd(a *app) *cobra.Command {
	var origins []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), origins)
		},
	}
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "allowed websocket origin pattern (repeatable; default any)")
	return cmd
}

func (a *app) serve(ctx context.Context, origins []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var gen insights.Generator
	if g, err := insights.NewGeminiGenerator(ctx, a.cfg.Gemini.APIKey, a.cfg.Gemini.Model); err != nil {
		a.logger.Warn("insights disabled", "error", err)
	} else {
		gen = g
	}

	tmpl, err := handler.ParseTemplates(a.cfg.Location())
	if err != nil {
		return err
	}

	snapshots := a.snapshots(db)
	snapshots.Start(ctx)
	defer snapshots.Stop()

	srv := server.New(db, gen, tmpl, server.Config{
		Location:         a.cfg.Location(),
		InsightsInterval: a.cfg.Insights.RateLimitInterval,
		InsightsBurst:    a.cfg.Insights.RateLimitBurst,
		OriginPatterns:   origins,
		Snapshots:        snapshots,
	}, a.logger)

	httpServer := &http.Server{
		Addr:        a.cfg.Addr(),
		Handler:     srv.Router(),
		ReadTimeout: 5 * time.Second,
		// Insights calls wait on the model.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup(rateLimiterIdle)
			case <-ctx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("chorelog running", "addr", httpServer.Addr, "timezone", a.cfg.Timezone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
