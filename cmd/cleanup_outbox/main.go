package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/csa-service/internal/app/membership/repo"
	"github.com/light-bringer/csa-service/internal/config"
	"github.com/light-bringer/csa-service/internal/pkg/logging"
)

type options struct {
	database               string
	completedRetentionDays int
	failedRetentionDays    int
	dryRun                 bool
}

func main() {
	if err := command().Execute(); err != nil {
		os.Exit(1)
	}
}

func command() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "cleanup_outbox",
		Short: "Delete processed outbox events past their retention",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.database == "" {
				opts.database = cfg.SpannerDB
			}
			cmd.SilenceUsage = true

			logger, err := logging.New(cfg.IsDev(), "cleanup_outbox")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := run(cmd.Context(), opts, logger); err != nil {
				logger.Error("cleanup failed", zap.Error(err))
				return err
			}
			logger.Info("cleanup completed successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.database, "database", "", "Spanner database (format: projects/PROJECT/instances/INSTANCE/databases/DATABASE), defaults to SPANNER_DATABASE")
	cmd.Flags().IntVar(&opts.completedRetentionDays, "completed-retention", 30, "Retention days for completed events")
	cmd.Flags().IntVar(&opts.failedRetentionDays, "failed-retention", 90, "Retention days for failed events")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	return cmd
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	client, err := spanner.NewClient(ctx, opts.database)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	cutoffs := repo.CutoffsFor(time.Now().UTC(), opts.completedRetentionDays, opts.failedRetentionDays)
	logger.Info("starting outbox cleanup",
		zap.Time("completed_cutoff", cutoffs.Completed),
		zap.Int("completed_retention_days", opts.completedRetentionDays),
		zap.Time("failed_cutoff", cutoffs.Failed),
		zap.Int("failed_retention_days", opts.failedRetentionDays),
		zap.Bool("dry_run", opts.dryRun),
	)

	cleaner := repo.NewOutboxCleaner(client)

	if opts.dryRun {
		counts, err := cleaner.CountExpired(ctx, cutoffs)
		if err != nil {
			return err
		}
		var total int64
		for status, n := range counts {
			logger.Info("would delete events", zap.String("status", status), zap.Int64("count", n))
			total += n
		}
		logger.Info("dry run finished, run without --dry-run to delete", zap.Int64("total", total))
		return nil
	}

	deleted, err := cleaner.DeleteExpired(ctx, cutoffs)
	if err != nil {
		return err
	}
	if deleted == 0 {
		logger.Info("no old events to delete")
		return nil
	}
	logger.Info("deleted events", zap.Int64("count", deleted))
	return nil
}
