package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/light-bringer/csa-service/internal/app/membership/usecases/renew_subscriptions"
	"github.com/light-bringer/csa-service/internal/config"
	"github.com/light-bringer/csa-service/internal/pkg/clock"
	"github.com/light-bringer/csa-service/internal/pkg/logging"
	"github.com/light-bringer/csa-service/internal/services"
)

func main() {
	if err := command().Execute(); err != nil {
		os.Exit(1)
	}
}

func command() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "renew_subscriptions",
		Short: "Renew subscriptions whose notice period has passed into the next growing period",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			logger, err := logging.New(cfg.IsDev(), "renew_subscriptions")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			opts, err := services.NewServiceOptions(cmd.Context(), cfg, clock.NewRealClock(), logger)
			if err != nil {
				return err
			}
			defer opts.Close()

			res, err := opts.RenewSubscriptions.Execute(cmd.Context(), &renew_subscriptions.Request{DryRun: dryRun})
			if err != nil {
				logger.Error("renewal run failed", zap.Error(err))
				return err
			}
			for _, r := range res.Renewals {
				logger.Info("renewal",
					zap.String("previous_subscription_id", r.PreviousSubscriptionID),
					zap.String("subscription_id", r.SubscriptionID),
					zap.String("member_id", r.MemberID),
					zap.String("period_id", r.PeriodID),
				)
			}
			logger.Info("renewal run finished", zap.Int("renewed", len(res.Renewals)), zap.Bool("dry_run", res.DryRun))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the renewals without storing them")
	return cmd
}
