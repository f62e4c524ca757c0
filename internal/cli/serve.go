package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-repo-sync/internal/handler"
	"github.com/MKhiriev/go-repo-sync/internal/server"
	"github.com/MKhiriev/go-repo-sync/internal/workers"
)

func (c *cli) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the periodic sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
			defer stop()
			cmd.SetContext(ctx)

			e, err := c.open(cmd, serverRole)
			if err != nil {
				return err
			}
			defer e.close()

			handlers, err := handler.NewHandlers(e.services, c.buildInfo, e.cfg.Server, e.log)
			if err != nil {
				return err
			}
			srv, err := server.NewServer(handlers, e.cfg.Server, e.log)
			if err != nil {
				return err
			}

			ws := workers.NewWorkers(ctx, e.services, e.cfg.Workers, e.log)
			ws.Run()
			defer ws.Stop()

			return srv.Run(ctx)
		},
	}
}
