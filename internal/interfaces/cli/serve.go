package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/texttechlab/enhanced-search/internal/bootstrap"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
)

// NewServeCmd creates the serve command running the HTTP server until the
// process receives SIGINT or SIGTERM.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the search HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			app, err := bootstrap.NewApplication(cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(context.Background()); err != nil {
					cliCtx.Logger.Warn("shutdown left connections open", logging.Err(err))
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				errCh <- app.Server.Start()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				cliCtx.Logger.Info("shutdown signal received",
					logging.String("signal", sig.String()))
				return app.Server.Stop(cmd.Context())
			}
		},
	}
}
