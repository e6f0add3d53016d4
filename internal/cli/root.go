// Package cli implements the tripdocs diagnostic command line. Every
// command goes through the data-access facade, never straight at the
// database, so what the CLI shows is what the application would see.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tripdocs/tripdocs/internal/cache"
	"github.com/tripdocs/tripdocs/internal/config"
	"github.com/tripdocs/tripdocs/internal/logging"
	"github.com/tripdocs/tripdocs/internal/store"
	"github.com/tripdocs/tripdocs/internal/userdata"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tripdocs",
	Short: "Inspect locally stored trip document data",
	Long:  `Diagnostic access to the tripdocs local store: cached entities, cache counters, and full per-user exports.`,
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
}

// newService opens the configured store and builds a facade over it. The
// returned cleanup closes the database.
func newService(ctx context.Context) (*userdata.Service, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	db, err := store.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	adapter, err := store.New(db, cfg.DatabaseDriver, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	svc := userdata.New(adapter, cache.New(), log)
	return svc, func() { _ = db.Close() }, nil
}
