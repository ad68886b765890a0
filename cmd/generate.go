package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/showtell/quizgen/internal/quizgen"
	"github.com/showtell/quizgen/internal/render"
	"github.com/showtell/quizgen/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate <caption>",
	Short: "Generate quiz questions for a caption",
	Example: `  quizgen generate "A dog running in the park" --count 3
  quizgen generate "Lunch time" --objects apple,banana --offline --answers
  quizgen generate "A cat on a sofa" --seed 7 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		objects, _ := cmd.Flags().GetStringSlice("objects")
		asJSON, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		answers, _ := cmd.Flags().GetBool("answers")
		offline, _ := cmd.Flags().GetBool("offline")
		capture, _ := cmd.Flags().GetBool("capture")
		noEvents, _ := cmd.Flags().GetBool("no-events")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg := quizgen.ConfigFromEnv()
		if offline {
			cfg = cfg.Offline()
		}
		if capture {
			cfg.CaptureBodies = true
		}

		var repo store.EventRepo
		if !noEvents {
			r, closeRepo := openEventRepo(cmd)
			defer closeRepo()
			repo = r
		}

		gen, err := quizgen.NewFromConfig(ctx, cfg, repo, logger)
		if err != nil {
			return err
		}

		var opts []quizgen.CallOption
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			opts = append(opts, quizgen.WithSeed(seed))
		}
		if len(objects) > 0 {
			opts = append(opts, quizgen.WithObjects(objects...))
		}

		caption := strings.Join(args, " ")
		batch, err := gen.Generate(ctx, caption, count, opts...)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		out := cmd.OutOrStdout()
		switch {
		case asJSON:
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(batch)
		case plain:
			_, err = fmt.Fprint(out, render.Plain(batch))
		default:
			_, err = fmt.Fprint(out, render.Pretty(batch, render.Options{Caption: caption, ShowAnswers: answers}))
		}
		return err
	},
}

func init() {
	generateCmd.Flags().IntP("count", "n", 3, "Number of questions (clamped to QUIZGEN_COUNT_MIN..QUIZGEN_COUNT_MAX)")
	generateCmd.Flags().Uint64("seed", 0, "Seed for reproducible output")
	generateCmd.Flags().StringSlice("objects", nil, "Detected object labels to ground questions (comma separated)")
	generateCmd.Flags().Bool("json", false, "Print the batch as JSON")
	generateCmd.Flags().Bool("plain", false, "Print the batch in the numbered text format")
	generateCmd.Flags().Bool("answers", false, "Mark correct answers")
	generateCmd.Flags().Bool("offline", false, "Skip all model backends and use the synthesizer")
	generateCmd.Flags().Bool("capture", false, "Store prompt and response bodies in the event log")
	generateCmd.Flags().Bool("no-events", false, "Do not write to the event log")
	generateCmd.MarkFlagsMutuallyExclusive("json", "plain")
}
