package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorelog/internal/store"
)

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every chore log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("clearing all logs cannot be undone; pass --yes to confirm")
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := store.NewLogStore(db).ClearAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d logs\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all logs")
	return cmd
}
