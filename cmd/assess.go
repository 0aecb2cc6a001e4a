package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/catalog"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new assessment for a client",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := cmd.Flags().GetString("client")
		assessor, _ := cmd.Flags().GetString("assessor")
		force, _ := cmd.Flags().GetBool("force")

		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		existing, err := d.manager.LoadOrNil(ctx)
		if err != nil {
			return err
		}
		if existing != nil && !force {
			return fmt.Errorf("an assessment for %q is already in progress; use --force to replace it", existing.ClientName())
		}

		a := d.manager.Start(client, assessor)
		if err := d.manager.Save(ctx); err != nil {
			return err
		}
		fmt.Printf("Started assessment %s for %s (%d modules, %d questions, catalog %s)\n",
			a.ID(), a.ClientName(), len(a.Modules()), a.Counts().Questions, a.CatalogVersion())
		return nil
	},
}

var answerCmd = &cobra.Command{
	Use:   "answer <module> <section> <question> [value...]",
	Short: "Answer one question of the current assessment",
	Long: `Answer one question. The value is parsed according to the question type:

  boolean          si / no / yes / true / false
  multiple-choice  option label or its 1-based number
  checkbox         comma-separated labels or numbers ("" for none)
  scale            1 to 5
  text             free text

Use --unknown to record "no information available". For non-text
questions the value "?" does the same.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		unknown, _ := cmd.Flags().GetBool("unknown")
		ref := catalog.Ref{ModuleID: args[0], SectionID: args[1], QuestionID: args[2]}
		raw := strings.Join(args[3:], " ")
		if !unknown && len(args) == 3 {
			return errors.New("missing answer value (or pass --unknown)")
		}

		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		if err := d.current(ctx); err != nil {
			return err
		}
		var a *assessment.Assessment
		if unknown {
			a, err = d.manager.Answer(ctx, ref, assessment.Unknown())
		} else {
			a, err = d.manager.AnswerText(ctx, ref, raw)
		}
		if a == nil {
			return err
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning: answer recorded but not saved:", err)
		}

		q, _ := a.Question(ref.ModuleID, ref.SectionID, ref.QuestionID)
		m, _ := a.Module(ref.ModuleID)
		fmt.Printf("%s: %s (score %s/%s)\n", q.Prompt(), q.Answer().Display(), num(q.Score()), num(q.MaxScore()))
		fmt.Printf("%s: %s/%s, %s\n", m.Name(), num(m.Score()), num(m.MaxScore()), m.Status().DisplayName())
		fmt.Printf("Overall: %s/%s (%.2f%%)\n", num(a.OverallScore()), num(a.MaxScore()), a.Percentage())
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [module]",
	Short: "Show questions and answers of the current assessment",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.close()

		if err := d.current(cmd.Context()); err != nil {
			return err
		}
		a, _ := d.manager.Current()

		modules := a.Modules()
		if len(args) == 1 {
			m, ok := a.Module(args[0])
			if !ok {
				return fmt.Errorf("unknown module %q", args[0])
			}
			modules = []assessment.Module{*m}
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, m := range modules {
			fmt.Fprintf(tw, "\n%s [%s]\t%s/%s\t%s\n", m.Name(), m.ID(), num(m.Score()), num(m.MaxScore()), m.Status().DisplayName())
			for _, s := range m.Sections() {
				fmt.Fprintf(tw, "  %s [%s]\t\t\n", s.Name(), s.ID())
				for _, q := range s.Questions() {
					mark := " "
					if q.Critical() {
						mark = "!"
					}
					fmt.Fprintf(tw, "  %s %s\t%s\t%s/%s\n", mark, q.ID(), q.Answer().Display(), num(q.Score()), num(q.MaxScore()))
				}
			}
		}
		return tw.Flush()
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show completion progress per module",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.close()

		if err := d.current(cmd.Context()); err != nil {
			return err
		}
		a, _ := d.manager.Current()

		c := a.Counts()
		fmt.Printf("%s (%s), started %s\n", a.ClientName(), a.Assessor(), a.CreatedAt().Local().Format("2006-01-02 15:04"))
		fmt.Printf("Answered %d/%d (%.0f%%), %d without information, %d/%d modules completed\n\n",
			c.Answered, c.Questions, c.Progress()*100, c.Unknown, a.ModulesCompleted(), len(a.Modules()))

		fmt.Printf("%-32s  %9s  %7s  %s\n", "Module", "Answered", "Score", "Status")
		fmt.Println(strings.Repeat("─", 66))
		for _, m := range a.Modules() {
			mc := m.Counts()
			fmt.Printf("%-32s  %4d/%-4d  %6.1f%%  %s\n", m.Name(), mc.Answered, mc.Questions, m.Percentage(), m.Status().DisplayName())
		}

		if next, ok := a.NextUnanswered("", "", ""); ok {
			fmt.Printf("\nNext unanswered: %s\n", next)
		}
		return nil
	},
}

func init() {
	startCmd.Flags().String("client", "", "Client (organization) name (required)")
	startCmd.Flags().String("assessor", "", "Name of the person running the assessment (required)")
	startCmd.Flags().Bool("force", false, "Replace an assessment already in progress")
	_ = startCmd.MarkFlagRequired("client")
	_ = startCmd.MarkFlagRequired("assessor")

	answerCmd.Flags().Bool("unknown", false, "Record that no information is available")
}

// num formats a score without trailing zeros.
func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
