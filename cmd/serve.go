package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/showtell/quizgen/internal/quizgen"
	"github.com/showtell/quizgen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz HTTP API",
	Long: "Serves POST /api/quiz and GET /api/health.\n\n" +
		"CORS origins come from ALLOWED_ORIGINS (comma separated) and\n" +
		"ALLOWED_ORIGIN_REGEX; by default local dev servers are allowed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		capture, _ := cmd.Flags().GetBool("capture")
		grace, _ := cmd.Flags().GetDuration("shutdown-timeout")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := quizgen.ConfigFromEnv()
		if capture {
			cfg.CaptureBodies = true
		}

		repo, closeRepo := openEventRepo(cmd)
		defer closeRepo()

		gen, err := quizgen.NewFromConfig(ctx, cfg, repo, logger)
		if err != nil {
			return err
		}

		opts, err := corsOptions()
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           server.New(gen, logger, opts...).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info().Str("addr", addr).Strs("tiers", gen.Tiers()).Msg("serving quiz API")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), grace)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func corsOptions() ([]server.Option, error) {
	var opts []server.Option
	if v := os.Getenv("ALLOWED_ORIGINS"); strings.TrimSpace(v) != "" {
		origins := lo.Compact(lo.Map(strings.Split(v, ","), func(o string, _ int) string {
			return strings.TrimSpace(o)
		}))
		opts = append(opts, server.WithAllowedOrigins(origins...))
	}
	if v := os.Getenv("ALLOWED_ORIGIN_REGEX"); v != "" {
		re, err := regexp.Compile(v)
		if err != nil {
			return nil, fmt.Errorf("ALLOWED_ORIGIN_REGEX: %w", err)
		}
		opts = append(opts, server.WithAllowedOriginRegex(re))
	}
	return opts, nil
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "Listen address")
	serveCmd.Flags().Bool("capture", false, "Store prompt and response bodies in the event log")
	serveCmd.Flags().Duration("shutdown-timeout", 5*time.Second, "Grace period for in-flight requests on shutdown")
}
