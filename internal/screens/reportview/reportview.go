// Package reportview is the TUI report screen: the summary, the module
// table and the findings of the current assessment, with keys to
// generate findings and export the workbook.
package reportview

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sfassess/internal/assessment"
	"github.com/abhisek/sfassess/internal/metrics"
	"github.com/abhisek/sfassess/internal/objstore"
	"github.com/abhisek/sfassess/internal/report"
	"github.com/abhisek/sfassess/internal/screen"
	"github.com/abhisek/sfassess/internal/session"
	"github.com/abhisek/sfassess/internal/ui/components"
	"github.com/abhisek/sfassess/internal/ui/layout"
	"github.com/abhisek/sfassess/internal/ui/theme"
)

// Options configures the report screen. Only Manager is required.
type Options struct {
	Manager  *session.Manager
	Metrics  *metrics.Metrics
	Uploader objstore.Uploader

	// ExportDir receives exported workbooks; it defaults to ".".
	ExportDir string
	Now       func() time.Time
}

type ReportScreen struct {
	opts     Options
	viewport viewport.Model
	status   string
	warning  string
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)

func New(opts Options) *ReportScreen {
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ReportScreen{opts: opts, viewport: viewport.New()}
}

func (r *ReportScreen) Init() tea.Cmd {
	return nil
}

func (r *ReportScreen) Title() string {
	return "Informe"
}

func (r *ReportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Desplazar"},
		{Key: "G", Description: "Generar hallazgos"},
		{Key: "X", Description: "Exportar Excel"},
		{Key: "Esc", Description: "Volver"},
	}
}

func (r *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "g":
			r.generate()
			return r, nil
		case "x":
			r.export()
			return r, nil
		}
	}
	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

func (r *ReportScreen) generate() {
	a, err := r.opts.Manager.GenerateFindings(context.Background())
	switch {
	case a == nil:
		r.warning = err.Error()
		return
	case err != nil:
		r.warning = fmt.Sprintf("Hallazgos generados pero no guardados: %v", err)
	default:
		r.warning = ""
	}
	r.status = fmt.Sprintf("%d recomendaciones, %d puntos críticos.",
		len(a.Recommendations()), len(a.CriticalPoints()))
}

// export writes the workbook to ExportDir and, when an uploader is
// configured, copies it to object storage.
func (r *ReportScreen) export() {
	a, err := r.opts.Manager.Current()
	if err != nil {
		r.warning = err.Error()
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, a); err != nil {
		r.warning = fmt.Sprintf("No se pudo generar el Excel: %v", err)
		return
	}
	name := report.FileName(a, r.opts.Now())
	path := filepath.Join(r.opts.ExportDir, name)
	if err := os.MkdirAll(r.opts.ExportDir, 0o755); err != nil {
		r.warning = fmt.Sprintf("No se pudo crear %s: %v", r.opts.ExportDir, err)
		return
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		r.warning = fmt.Sprintf("No se pudo escribir %s: %v", path, err)
		return
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.Exports.WithLabelValues("xlsx").Inc()
	}
	r.warning = ""
	r.status = "Exportado a " + path

	if r.opts.Uploader == nil {
		return
	}
	url, err := r.opts.Uploader.Upload(context.Background(), name, bytes.NewReader(buf.Bytes()), int64(buf.Len()), report.ContentType)
	if err != nil {
		r.warning = fmt.Sprintf("No se pudo subir el Excel: %v", err)
		return
	}
	r.status += " y " + url
}

func (r *ReportScreen) View(width, height int) string {
	a, err := r.opts.Manager.Current()
	if err != nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Warning.Render("No hay una evaluación en curso."))
	}

	footer := ""
	if r.warning != "" {
		footer += "\n" + theme.Warning.Render(r.warning)
	}
	if r.status != "" {
		footer += "\n" + theme.Hint.Render(r.status)
	}

	r.viewport.SetWidth(width)
	r.viewport.SetHeight(max(1, height-lipgloss.Height(footer)))
	r.viewport.SetContent(renderReport(a, min(width-4, 100)))

	return r.viewport.View() + footer
}

func renderReport(a *assessment.Assessment, width int) string {
	s := report.Summarize(a)
	var b strings.Builder

	b.WriteString(theme.Title.Render("Informe de evaluación Salesforce"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Cliente: %s    Evaluador: %s    Fecha: %s\n",
		s.ClientName, s.Assessor, s.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Puntuación: %.1f / %.0f  ", s.TotalScore, s.MaxScore)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ScoreColor(s.Percentage)).Bold(true).
		Render(fmt.Sprintf("%.1f%%", s.Percentage)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Respondidas: %d/%d    Sin información: %d    Módulos completados: %d/%d\n",
		s.Answered, s.Questions, s.Unknown, s.ModulesCompleted, s.ModulesTotal)

	section(&b, "Módulos", width)
	labelWidth := 0
	for _, m := range s.Modules {
		labelWidth = max(labelWidth, lipgloss.Width(m.Name))
	}
	for _, m := range s.Modules {
		bar := components.NewProgressBar(m.Name, m.Percentage, width)
		bar.LabelWidth = labelWidth
		bar.Color = theme.ScoreColor(m.Percentage)
		b.WriteString(bar.View())
		b.WriteString("  ")
		b.WriteString(theme.Hint.Render(m.Status.DisplayName()))
		b.WriteString("\n")
	}

	if len(s.CriticalGaps) > 0 {
		section(&b, "Preguntas críticas sin cubrir", width)
		for _, g := range s.CriticalGaps {
			b.WriteString(theme.Warning.Render("! "))
			fmt.Fprintf(&b, "%s › %s: %s\n", g.ModuleName, g.SectionName, g.Prompt)
		}
	}

	recs := a.Recommendations()
	points := a.CriticalPoints()
	if len(recs) == 0 && len(points) == 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Pulse G para generar recomendaciones y puntos críticos."))
		return b.String()
	}

	if len(recs) > 0 {
		section(&b, "Recomendaciones", width)
		for _, rec := range recs {
			b.WriteString(priorityBadge(rec.Priority))
			b.WriteString(" ")
			b.WriteString(lipgloss.NewStyle().Bold(true).Render(rec.Title))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(2).Render(rec.Description))
			b.WriteString("\n")
		}
	}
	if len(points) > 0 {
		section(&b, "Puntos críticos", width)
		for _, p := range points {
			b.WriteString(priorityBadge(p.Severity))
			b.WriteString(" ")
			b.WriteString(lipgloss.NewStyle().Bold(true).Render(p.Title))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Width(width).PaddingLeft(2).Render("Mitigación: " + p.Mitigation))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func section(b *strings.Builder, title string, width int) {
	b.WriteString("\n")
	b.WriteString(theme.Selected.Render(title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(0, width))))
	b.WriteString("\n")
}

func priorityBadge(p assessment.Priority) string {
	c := theme.TextDim
	switch p {
	case assessment.PriorityCritical:
		c = theme.Error
	case assessment.PriorityHigh:
		c = theme.Accent
	case assessment.PriorityMedium:
		c = theme.Secondary
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("[" + string(p) + "]")
}
