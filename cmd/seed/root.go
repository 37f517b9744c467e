package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/octofit/tracker/seed/internal/config"
	"github.com/octofit/tracker/seed/internal/fixture"
	"github.com/octofit/tracker/seed/internal/metrics"
	"github.com/octofit/tracker/seed/internal/model"
	"github.com/octofit/tracker/seed/internal/sampleset"
)

const successMessage = "Successfully populated the database with test data."

const pushTimeout = 10 * time.Second

type options struct {
	configFile string
	backend    string
	sampleSet  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the octofit collections and load a sample set",
		Long: "Drops accounts, teams, activities, leaderboard and workouts, recreates them, " +
			"and inserts the chosen sample set. Existing data is destroyed.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&opts.configFile, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "store backend: surreal, mongo, orm or memory")
	cmd.Flags().StringVar(&opts.sampleSet, "sample-set", "", "built-in sample set ("+strings.Join(sampleset.Names(), ", ")+") or YAML file")
	return cmd
}

func run(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	if opts.backend != "" {
		cfg.Loader.Backend = opts.backend
	}
	if opts.sampleSet != "" {
		cfg.Loader.SampleSet = opts.sampleSet
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	set, err := sampleset.Resolve(cfg.Loader.SampleSet)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Loader.Timeout)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	logger.Info("store ready",
		slog.String("backend", cfg.Loader.Backend),
		slog.Bool("dry_run", cfg.IsDryRun()),
	)

	recorder := metrics.NewRecorder()
	loader := fixture.NewLoader(fixture.LoaderConfig{
		Store:      store,
		Logger:     logger,
		BcryptCost: cfg.Loader.BcryptCost,
	})

	summary, err := loader.ResetAndLoad(ctx, set)
	if err == nil {
		err = loader.Verify(ctx, summary)
	}
	if err != nil {
		recorder.ObserveFailure()
		pushMetrics(logger, recorder, cfg.Metrics)
		return err
	}

	recorder.ObserveSuccess(summary)
	pushMetrics(logger, recorder, cfg.Metrics)

	printReport(stdout, summary)
	return nil
}

// pushMetrics is best effort; a failed push never fails the run. It gets its
// own deadline so a run that timed out still reports the failure.
func pushMetrics(logger *slog.Logger, recorder *metrics.Recorder, cfg config.MetricsConfig) {
	if cfg.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := recorder.Push(ctx, cfg.PushgatewayURL, cfg.Job); err != nil {
		logger.Warn("failed to push metrics", slog.String("error", err.Error()))
	}
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
}

func printReport(w io.Writer, summary *fixture.Summary) {
	fmt.Fprintln(w, successMessage)
	fmt.Fprintf(w, "Sample set: %s\n", summary.SampleSet)
	for _, c := range model.Collections {
		fmt.Fprintf(w, "  %-12s %d", c, summary.Inserted[c])
		if n := summary.SkippedIn(c); n > 0 {
			fmt.Fprintf(w, " (%d skipped)", n)
		}
		fmt.Fprintln(w)
	}

	teams := append([]fixture.TeamAssignment(nil), summary.Teams...)
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	for _, t := range teams {
		fmt.Fprintf(w, "  %s: %s\n", t.Name, strings.Join(t.Members, ", "))
	}
}
