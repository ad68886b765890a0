package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/showtell/quizgen/internal/store"
)

// logger is configured from --verbose before any command runs.
var logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   "quizgen",
	Short: "Picture quiz generator for kids",
	Long: "quizgen turns an image caption into short multiple-choice questions.\n" +
		"Hosted and local language models are tried first; a built-in synthesizer\n" +
		"always answers when they cannot.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(verbose)

		envFile, _ := cmd.Flags().GetString("env-file")
		return loadEnv(envFile)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides QUIZGEN_DB env var)")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this file (default: .env if present)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log cascade decisions to stderr")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// loadEnv reads path, or .env when path is empty. A missing default .env
// is not an error. Variables already set in the environment win.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZGEN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// openEventRepo opens the event log for commands that only write telemetry.
// Failure is logged and yields a nil repo; generation works without it.
func openEventRepo(cmd *cobra.Command) (store.EventRepo, func()) {
	s, err := openStore(cmd)
	if err != nil {
		logger.Warn().Err(err).Msg("event log unavailable, continuing without telemetry")
		return nil, func() {}
	}
	return s.EventRepo(), func() { s.Close() }
}
