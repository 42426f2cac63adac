package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stake-plus/govtool/src/data"
	"github.com/stake-plus/govtool/src/proposals"
	"github.com/stake-plus/govtool/src/registration"
)

func newProposalsCommand() *cobra.Command {
	var (
		filters []string
		search  string
		sorting string
		drep    string
		watch   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "List governance proposals grouped by type",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := data.Connect(cfg.DBDriver, cfg.DBDSN, logger)
			if err != nil {
				return err
			}
			fetcher, voterInfo := proposalSource(cfg, proposals.NewStore(db), registration.NewStore(db))
			svc := proposals.NewService(fetcher, proposals.NopCache{}, logger)

			ctx := cmd.Context()
			id := proposals.Identity{DRepID: drep}
			if drep != "" {
				if id.Voter, err = voterInfo.VoterInfo(ctx, drep); err != nil {
					return err
				}
			}
			q := proposals.Query{Filters: filters, SearchPhrase: search, Sorting: sorting}
			live := proposals.NewLiveQuery(svc)

			if watch <= 0 {
				groups, err := live.Refresh(ctx, id, q)
				if err != nil {
					return err
				}
				printGroups(cmd.OutOrStdout(), groups)
				return nil
			}
			return watchProposals(ctx, cmd.OutOrStdout(), live, id, q, watch)
		},
	}
	cmd.Flags().StringSliceVar(&filters, "filters", proposals.AllTypes, "proposal types to include")
	cmd.Flags().StringVar(&search, "search", "", "search phrase")
	cmd.Flags().StringVar(&sorting, "sort", proposals.SortSoonestToExpire, "SoonestToExpire or NewestCreated")
	cmd.Flags().StringVar(&drep, "drep", "", "DRep id; hides proposals it already voted on")
	cmd.Flags().DurationVar(&watch, "watch", 0, "refresh interval; 0 prints once")
	return cmd
}

func watchProposals(ctx context.Context, w io.Writer, live *proposals.LiveQuery, id proposals.Identity, q proposals.Query, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		groups, err := live.Refresh(ctx, id, q)
		switch {
		case errors.Is(err, proposals.ErrStale):
		case err != nil:
			fmt.Fprintf(w, "refresh failed: %v\n", err)
		default:
			fmt.Fprintf(w, "--- %s (generation %d)\n", time.Now().Format(time.Kitchen), live.Snapshot().Generation)
			printGroups(w, groups)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func printGroups(w io.Writer, groups []proposals.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "no proposals")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "%s (%d)\n", proposals.TypeLabel(g.Title), len(g.Actions))
		for _, p := range g.Actions {
			title := strings.TrimSpace(p.Title)
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(w, "  %s  %s  expires %s\n", p.ID(), title, proposals.FormatDisplayDate(p.ExpiryDate))
		}
	}
}
