package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"interviewcore/internal/config"
	"interviewcore/internal/usage"
)

func newUsageCmd() *cobra.Command {
	var (
		configPath  string
		interviewID int64
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show recorded LLM usage and estimated costs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}

			store, err := usage.Open(cfg.Store)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()

			if interviewID > 0 {
				return printInterviewUsage(ctx, store, interviewID)
			}
			return printSummary(ctx, store)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().Int64Var(&interviewID, "interview", 0, "show per-call detail for one interview")

	return cmd
}

func printSummary(ctx context.Context, store usage.Store) error {
	summaries, err := store.Summary(ctx)
	if err != nil {
		return err
	}
	total, err := store.TotalCost(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "AGENT\tMODEL\tCALLS\tCACHED\tTOKENS\tCOST (USD)")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.4f\n",
			s.AgentName, s.Model, s.Requests, s.CachedRequests, s.TotalTokens, s.EstimatedCost)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ntotal estimated cost: $%.4f\n", total)
	return nil
}

func printInterviewUsage(ctx context.Context, store usage.Store, interviewID int64) error {
	records, err := store.ByInterview(ctx, interviewID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("no usage recorded for interview %d\n", interviewID)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tAGENT\tMODEL\tPROMPT\tCOMPLETION\tCACHED\tCOST (USD)")
	var total float64
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\t%.4f\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.AgentName, r.Model,
			r.PromptTokens, r.CompletionTokens, r.Cached, r.EstimatedCost)
		total += r.EstimatedCost
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ninterview %d estimated cost: $%.4f\n", interviewID, total)
	return nil
}
