package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and gRPC APIs",
		Long: `Serve the HTTP API on HTTP_PORT and the gRPC dispatcher on GRPC_PORT.
When BACKUP_SCHEDULE is set, backups are also written on that schedule.
Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApplication(ctx, rootOpts, os.Stdout)
			if err != nil {
				return err
			}
			defer closeApplication(a, a.Logger())

			a.Logger().Info("Starting POS Service...")
			return a.Run(ctx)
		},
	}
}
