package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/sfassess/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the saved assessment and its report over HTTP (read-only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = d.cfg.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(d.store.AssessmentRepo(), server.Options{
			SessionKey: d.cfg.SessionKey,
			Mode:       d.cfg.Server.Mode,
			Suggester:  d.suggester(ctx),
			Metrics:    d.metrics,
			Log:        d.log,
		})
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: server.addr from config)")
}
