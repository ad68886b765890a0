package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/showtell/quizgen/internal/render"
	"github.com/showtell/quizgen/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show which tiers served generated quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, _ := cmd.Flags().GetInt("recent")

		return withEvents(cmd, func(repo store.EventRepo, out io.Writer) error {
			usage, err := repo.TierUsage(cmd.Context())
			if err != nil {
				return fmt.Errorf("tier usage: %w", err)
			}
			if _, err := io.WriteString(out, render.Tiers(usage)); err != nil {
				return err
			}
			if recent <= 0 {
				return nil
			}

			events, err := repo.QueryGenerations(cmd.Context(), store.QueryOpts{Limit: recent})
			if err != nil {
				return fmt.Errorf("recent quizzes: %w", err)
			}
			_, err = fmt.Fprintf(out, "\n%s", render.Generations(events))
			return err
		})
	},
}

func init() {
	statsCmd.Flags().IntP("recent", "n", 0, "Also list this many recent quizzes")
}
