package main // Entry point package

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/config"
	"github.com/iliyamo/flight-transfer-admin/internal/logger"
)

var (
	version = "dev"
	envFile string
	logLvl  string
)

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flight-transfers",
		Short: "Admin dashboard and API for airport flight transfers",
		Long: `flight-transfers serves an admin dashboard and a JSON API for
managing airport transfer bookings: flight code, date and time, pickup and
dropoff, lead guest and party size.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default: ./.env when present)")
	root.PersistentFlags().StringVar(&logLvl, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger shared by every
// command.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	if logLvl != "" {
		cfg.LogLevel = logLvl
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, log.With(zap.String("env", cfg.Env)), nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flight-transfers %s\n", version)
		},
	}
}
