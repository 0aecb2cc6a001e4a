package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/sfassess/internal/catalog"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the binary and built-in catalog versions",
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if info, ok := debug.ReadBuildInfo(); ok && v == "(devel)" && info.Main.Version != "" {
			v = info.Main.Version
		}
		c := catalog.Default()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sfassess %s\n", v)
		fmt.Fprintf(out, "catalog  %s (%d modules, %d questions)\n", c.Version, len(c.Modules), c.QuestionCount())
	},
}
