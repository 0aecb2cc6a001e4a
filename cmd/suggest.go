package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/sfassess/internal/catalog"
	"github.com/abhisek/sfassess/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <module> <section> <question>",
	Short: "Suggest answers for a question",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		static, _ := cmd.Flags().GetBool("static")
		ref := catalog.Ref{ModuleID: args[0], SectionID: args[1], QuestionID: args[2]}

		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		if err := d.current(ctx); err != nil {
			return err
		}
		a, _ := d.manager.Current()

		sc, err := suggest.ContextFor(a, ref)
		if err != nil {
			return err
		}

		var s suggest.Suggester = suggest.Static{}
		if !static {
			s = d.suggester(ctx)
		}
		list, err := s.Suggest(ctx, sc)
		if err != nil {
			return fmt.Errorf("suggest: %w", err)
		}
		d.metrics.Suggestions.WithLabelValues("cli").Inc()

		fmt.Println(sc.QuestionText)
		if len(list) == 0 {
			fmt.Println("  (no suggestions)")
		}
		for i, item := range list {
			fmt.Printf("  %2d. %s\n", i+1, item)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().Bool("static", false, "Use only the built-in knowledge base")
}
