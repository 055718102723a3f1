package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/model"
	"github.com/dukerupert/chorelog/internal/store"
)

func newLogCmd(a *app) *cobra.Command {
	var memberID string
	cmd := &cobra.Command{
		Use:   "log CHORE_ID...",
		Short: "Log one or more chores",
		Long: `Log chores for a family member. Without --member the active member is used.

Examples:
  chorelog log c3
  chorelog log --member m2 c16 c17`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.logChores(cmd, memberID, args)
		},
	}
	cmd.Flags().StringVar(&memberID, "member", "", "member id (defaults to the active member)")
	return cmd
}

func (a *app) logChores(cmd *cobra.Command, memberID string, choreIDs []string) error {
	ctx := cmd.Context()
	for _, id := range choreIDs {
		if _, ok := catalog.Lookup(id); !ok {
			return fmt.Errorf("unknown chore %q", id)
		}
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	members := store.NewMemberStore(db)
	member, err := resolveMember(ctx, members, memberID)
	if err != nil {
		return err
	}

	now := time.Now().In(a.cfg.Location())
	nls := make([]model.NewChoreLog, len(choreIDs))
	for i, choreID := range choreIDs {
		nls[i] = model.NewLogAt(member.ID, choreID, now.Add(time.Duration(i)*time.Millisecond))
	}
	if _, err := store.NewLogStore(db).AddAll(ctx, nls); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, id := range choreIDs {
		c := catalog.Resolve(id)
		fmt.Fprintf(out, "%s %s %s\n", c.Icon.Glyph(), member.Name, c.PastTense)
	}
	return nil
}

func resolveMember(ctx context.Context, members *store.MemberStore, id string) (*model.FamilyMember, error) {
	if id == "" {
		active, err := members.GetActiveID(ctx)
		if err != nil {
			return nil, err
		}
		if active == nil {
			return nil, errors.New("no active member; pass --member or run 'chorelog members select'")
		}
		id = *active
	}
	m, err := members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("unknown member %q", id)
	}
	return m, nil
}
