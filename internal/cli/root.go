package cli

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"pos_service/config"
	"pos_service/internal/app"
	"pos_service/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the pos command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pos",
		Short: "Point-of-sale backend for a single store",
		Long: `Point-of-sale backend for a single store.

Products, categories and sales live in one document persisted by the
configured store driver (STORE_DRIVER=file|sqlite|postgres|bolt).`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load before the environment (default ./.env)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewInvokeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}

// openApplication loads configuration and opens the store. Logs go to
// logOut so command output on stdout stays machine readable.
func openApplication(ctx context.Context, opts *RootOptions, logOut io.Writer) (*app.Application, error) {
	bootstrap := logger.New(logger.Options{Output: logOut})
	cfg, err := config.LoadConfig(opts.EnvFile, bootstrap)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Output: logOut,
	})
	return app.New(ctx, cfg, log)
}

func closeApplication(a *app.Application, log *logrus.Logger) {
	if err := a.Close(); err != nil {
		log.Warnf("Failed to close application: %v", err)
	}
}
