package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Back up and restore logs and members in object storage",
		Long: `Snapshots are encrypted JSON exports of every log and member, uploaded to the
configured S3 bucket. Set s3.bucket and snapshot.passphrase to enable them.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Upload a new snapshot and prune old ones",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := a.openDB()
				if err != nil {
					return err
				}
				defer db.Close()

				mgr := a.snapshots(db)
				s, err := mgr.Create(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "snapshot %d: %s (%d logs, %d bytes)\n", s.ID, s.ObjectKey, s.LogCount, s.SizeBytes)
				pruned, err := mgr.Prune(cmd.Context())
				if err != nil {
					return err
				}
				if pruned > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "pruned %d old snapshots\n", pruned)
				}
				return nil
			},
		},
		newSnapshotListCmd(a),
		&cobra.Command{
			Use:   "restore ID|latest",
			Short: "Replace all logs and members with a snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := a.openDB()
				if err != nil {
					return err
				}
				defer db.Close()

				mgr := a.snapshots(db)
				var id int64
				if args[0] == "latest" {
					sn, err := mgr.Latest(cmd.Context())
					if err != nil {
						return err
					}
					id = sn.ID
				} else if id, err = strconv.ParseInt(args[0], 10, 64); err != nil {
					return fmt.Errorf("invalid snapshot id %q", args[0])
				}

				doc, err := mgr.Restore(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %d logs and %d members from %s\n",
					len(doc.Logs), len(doc.Members), doc.CreatedAt.Format("2006-01-02 15:04"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Delete snapshots beyond snapshot.keep",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := a.openDB()
				if err != nil {
					return err
				}
				defer db.Close()

				n, err := a.snapshots(db).Prune(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d snapshots\n", n)
				return nil
			},
		},
	)
	return cmd
}

func newSnapshotListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			snaps, err := a.snapshots(db).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tLOGS\tKEY")
			for _, s := range snaps {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", s.ID, s.StartedAt.Format("2006-01-02 15:04"), s.Status, s.LogCount, s.ObjectKey)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum snapshots to show")
	return cmd
}
