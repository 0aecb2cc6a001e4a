package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the current assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("this deletes the saved assessment; re-run with --yes to confirm")
		}

		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.close()

		if err := d.manager.Discard(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Assessment discarded.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
