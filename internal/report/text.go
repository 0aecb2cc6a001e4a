package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/abhisek/sfassess/internal/assessment"
)

const dateLayout = "2006-01-02"

// WriteText renders a plain-text report of a. The output depends only on
// the aggregate, so it is stable across runs.
func WriteText(w io.Writer, a *assessment.Assessment) error {
	bw := bufio.NewWriter(w)
	s := Summarize(a)

	title := "Salesforce Assessment Report"
	fmt.Fprintf(bw, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(bw, "Cliente:   %s\n", s.ClientName)
	fmt.Fprintf(bw, "Assessor:  %s\n", s.Assessor)
	fmt.Fprintf(bw, "Fecha:     %s\n", s.Date.Format(dateLayout))
	if s.CatalogVersion != "" {
		fmt.Fprintf(bw, "Catálogo:  %s\n", s.CatalogVersion)
	}

	heading(bw, "Resumen General")
	fmt.Fprintf(bw, "Score Total:          %s / %s (%s)\n", num(s.TotalScore), num(s.MaxScore), pct(s.Percentage))
	fmt.Fprintf(bw, "Preguntas respondidas: %d/%d (%s)\n", s.Answered, s.Questions, pct(s.Progress*100))
	fmt.Fprintf(bw, "Sin información:       %d\n", s.Unknown)
	fmt.Fprintf(bw, "Módulos completados:   %d/%d\n", s.ModulesCompleted, s.ModulesTotal)

	heading(bw, "Módulos")
	tw := tabwriter.NewWriter(bw, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Módulo\tScore\tMax Score\tPorcentaje\tEstado\t")
	for _, m := range s.Modules {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", m.Name, num(m.Score), num(m.MaxScore), pct(m.Percentage), m.Status.DisplayName())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.CriticalGaps) > 0 {
		heading(bw, "Preguntas críticas sin cubrir")
		for _, g := range s.CriticalGaps {
			fmt.Fprintf(bw, "- [%s / %s] %s\n", g.ModuleName, g.SectionName, g.Prompt)
		}
	}

	if unknowns := Unknowns(a); len(unknowns) > 0 {
		heading(bw, "Información Faltante")
		fmt.Fprintf(bw, "Total de preguntas sin información: %d\n", len(unknowns))
		for _, u := range unknowns {
			fmt.Fprintf(bw, "- [%s / %s] %s (%s)\n", u.ModuleName, u.SectionName, u.Prompt, u.Kind)
		}
	}

	writeRecommendations(bw, "Recomendaciones", a.Recommendations())
	writeCriticalPoints(bw, "Puntos Críticos", a.CriticalPoints())

	return bw.Flush()
}

func writeRecommendations(w io.Writer, title string, recs []assessment.Recommendation) {
	if len(recs) == 0 {
		return
	}
	heading(w, title)
	for _, r := range recs {
		fmt.Fprintf(w, "* [%s] %s (%s)\n", r.Priority, r.Title, r.Module)
		fmt.Fprintf(w, "  %s\n", r.Description)
		fmt.Fprintf(w, "  Esfuerzo: %s · Impacto: %s · Complejidad: %s\n", r.EstimatedEffort, r.BusinessImpact, r.TechnicalComplexity)
		for i, step := range r.Implementation {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}
}

func writeCriticalPoints(w io.Writer, title string, points []assessment.CriticalPoint) {
	if len(points) == 0 {
		return
	}
	heading(w, title)
	for _, p := range points {
		fmt.Fprintf(w, "! [%s] %s (%s)\n", p.Severity, p.Title, p.Module)
		fmt.Fprintf(w, "  %s\n", p.Description)
		fmt.Fprintf(w, "  Impacto: %s\n  Riesgo: %s\n  Mitigación: %s\n", p.Impact, p.Risk, p.Mitigation)
	}
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
}

// num formats a score to at most two decimals without trailing zeros:
// 5, 3.75, 1.67.
func num(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}
