package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/showtell/quizgen/internal/render"
	"github.com/showtell/quizgen/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded backend calls",
}

// withEvents opens the event log for the duration of fn.
func withEvents(cmd *cobra.Command, fn func(repo store.EventRepo, out io.Writer) error) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s.EventRepo(), cmd.OutOrStdout())
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent backend calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")

		return withEvents(cmd, func(repo store.EventRepo, out io.Writer) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("list backend calls: %w", err)
			}
			_, err = io.WriteString(out, render.Events(events))
			return err
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one backend call with any captured bodies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("event id must be a number, got %q", args[0])
		}
		return withEvents(cmd, func(repo store.EventRepo, out io.Writer) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			switch {
			case err != nil:
				return fmt.Errorf("load event %d: %w", id, err)
			case e == nil:
				return fmt.Errorf("no backend call with id %d", id)
			}
			_, err = io.WriteString(out, render.Event(e))
			return err
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated spend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(repo store.EventRepo, out io.Writer) error {
			ctx := cmd.Context()
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("usage by purpose: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Fprintln(out, "No backend usage recorded yet.")
				return nil
			}
			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("usage by model: %w", err)
			}
			fmt.Fprintf(out, "%s\n%s", render.PurposeUsage(byPurpose), render.ModelCosts(byModel))
			return nil
		})
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Maximum number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose: quiz-hosted, quiz-structured or quiz-local")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
