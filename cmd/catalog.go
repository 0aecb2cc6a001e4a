package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/config"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate question catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the modules and sections of the active catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		dump, _ := cmd.Flags().GetString("dump")

		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		c, err := loadCatalog(cmd, cfg)
		if err != nil {
			return err
		}

		if dump != "" {
			data, err := c.Encode(catalog.Format(dump))
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}

		fmt.Printf("Catalog %s: %d modules, %d questions\n\n", c.Version, len(c.Modules), c.QuestionCount())
		for _, m := range c.Modules {
			fmt.Printf("%-26s  %-34s  %3d questions\n", m.ID, m.Name, m.QuestionCount())
			for _, s := range m.Sections {
				fmt.Printf("  %-24s  %s\n", s.ID, s.Name)
			}
		}
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog file against the schema and structural rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: OK (version %s, %d modules, %d questions)\n", args[0], c.Version, len(c.Modules), c.QuestionCount())
		if !catalog.Compatible(c.Version, catalog.Default().Version) {
			fmt.Printf("note: version %s is not compatible with the built-in catalog %s; saved assessments will warn on load\n",
				c.Version, catalog.Default().Version)
		}
		return nil
	},
}

func init() {
	catalogListCmd.Flags().String("dump", "", "Print the whole catalog as yaml or json instead of a listing")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}
