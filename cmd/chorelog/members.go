package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/store"
)

func newMembersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage family members",
	}
	cmd.AddCommand(
		newMembersListCmd(a),
		newMembersAddCmd(a),
		newMembersRemoveCmd(a),
		newMembersSelectCmd(a),
	)
	return cmd
}

func newMembersListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List family members",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ms := store.NewMemberStore(db)
			members, err := ms.List(ctx)
			if err != nil {
				return err
			}
			active, err := ms.GetActiveID(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tACTIVE")
			for _, m := range members {
				mark := ""
				if active != nil && *active == m.ID {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n", m.ID, m.Avatar, m.Name, m.Color, mark)
			}
			return w.Flush()
		},
	}
}

func newMembersAddCmd(a *app) *cobra.Command {
	var avatar, color string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a family member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := catalog.MemberColorByToken(color); !ok {
				return fmt.Errorf("unknown color %q", color)
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			m, err := store.NewMemberStore(db).Create(cmd.Context(), args[0], avatar, color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %s (%s)\n", m.Avatar, m.Name, m.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&avatar, "avatar", catalog.DefaultAvatar, "avatar emoji")
	cmd.Flags().StringVar(&color, "color", catalog.DefaultMemberColor, "color token")
	return cmd
}

func newMembersRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a family member; their logs are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			return store.NewMemberStore(db).Delete(cmd.Context(), args[0])
		},
	}
}

func newMembersSelectCmd(a *app) *cobra.Command {
	var clearActive bool
	cmd := &cobra.Command{
		Use:   "select [ID]",
		Short: "Set the active member",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearActive == (len(args) == 1) {
				return fmt.Errorf("pass a member id or --clear")
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			var id *string
			if !clearActive {
				id = &args[0]
			}
			return store.NewMemberStore(db).SetActiveID(cmd.Context(), id)
		},
	}
	cmd.Flags().BoolVar(&clearActive, "clear", false, "clear the active member")
	return cmd
}
