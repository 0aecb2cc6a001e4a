package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sfassess/internal/app"
	"github.com/abhisek/sfassess/internal/objstore"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp builds dependencies and launches the TUI. Logs go only to the
// configured file so they never draw over the screen.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd, nil)
	if err != nil {
		return err
	}
	defer d.close()

	ctx := cmd.Context()
	if _, err := d.manager.LoadOrNil(ctx); err != nil {
		return err
	}

	opts := app.Options{
		Manager:   d.manager,
		Suggester: d.suggester(ctx),
		Metrics:   d.metrics,
		Log:       d.log,
		ExportDir: d.cfg.Export.Dir,
	}
	if d.cfg.Storage.Enabled() {
		u, err := objstore.New(d.cfg.Storage, d.log)
		if err != nil {
			return fmt.Errorf("object storage: %w", err)
		}
		opts.Uploader = u
	}
	return app.Run(opts)
}
