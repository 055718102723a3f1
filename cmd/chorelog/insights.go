package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/insights"
	"github.com/dukerupert/chorelog/internal/store"
)

func newInsightsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Summarize the last week with the configured language model",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gen, err := insights.NewGeminiGenerator(ctx, a.cfg.Gemini.APIKey, a.cfg.Gemini.Model)
			if err != nil {
				return err
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			logs, err := store.NewLogStore(db).ListSince(ctx, time.Now().Add(-insights.Window))
			if err != nil {
				return err
			}
			members, err := store.NewMemberStore(db).List(ctx)
			if err != nil {
				return err
			}

			req := insights.NewRequester(gen, a.logger, insights.WithLocation(a.cfg.Location()))
			fmt.Fprintln(cmd.OutOrStdout(), req.Analyze(ctx, logs, members, catalog.All()))
			return nil
		},
	}
}
