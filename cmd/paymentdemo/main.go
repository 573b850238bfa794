package main

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CherkashinEvgeny/goadvice/example/payment"
	"github.com/CherkashinEvgeny/goadvice/internal/config"
	"github.com/CherkashinEvgeny/goadvice/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		amount     int
		suppress   bool
		logLevel   string
		logFormat  string
	)
	cmd := &cobra.Command{
		Use:          "paymentdemo",
		Short:        "Run the payment service through its advice chain",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("amount") {
				cfg.Payment.Amount = amount
			}
			if flags.Changed("suppress") {
				cfg.Payment.Suppress = suppress
			}
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if flags.Changed("log-format") {
				cfg.Log.Format = logFormat
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().IntVar(&amount, "amount", 0, "amount passed to IncrementPayment")
	cmd.Flags().BoolVar(&suppress, "suppress", false, "drop the expected exception at the call site")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "text or json")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(out, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	svc, err := payment.Wire(payment.NewLocalService(log), log, cfg.Payment.Suppress)
	if err != nil {
		return err
	}
	if err = svc.MakePayment(ctx); err != nil {
		return errors.Wrap(err, "make payment")
	}
	total, err := svc.IncrementPayment(ctx, cfg.Payment.Amount)
	if err != nil {
		return errors.Wrap(err, "increment payment")
	}
	log.InfoContext(ctx, "payment total", "total", total)
	if err = svc.ThrowsException(ctx); err != nil {
		return errors.Wrap(err, "throws exception")
	}
	return nil
}
