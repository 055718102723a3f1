package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorelog/internal/chart"
	"github.com/dukerupert/chorelog/internal/stats"
	"github.com/dukerupert/chorelog/internal/store"
)

func newStatsCmd(a *app) *cobra.Command {
	var (
		window        int
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the activity trend and top chores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			logs, err := store.NewLogStore(db).List(ctx)
			if err != nil {
				return err
			}
			members, err := store.NewMemberStore(db).List(ctx)
			if err != nil {
				return err
			}

			now := time.Now().In(a.cfg.Location())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, chart.Terminal(stats.DailyBuckets(logs, members, stats.NormalizeWindow(window), now), width, height))

			top := stats.TopChores(logs, time.Time{}, stats.DefaultTopN)
			if len(top) > 0 {
				fmt.Fprintln(out, "\nTop chores:")
				for i, tc := range top {
					fmt.Fprintf(out, "  %d. %-22s %d\n", i+1, tc.Name, tc.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&window, "window", stats.WindowWeek, "days to show (7 or 14)")
	cmd.Flags().IntVar(&width, "width", 60, "chart width in columns")
	cmd.Flags().IntVar(&height, "height", 12, "chart height in rows")
	return cmd
}
