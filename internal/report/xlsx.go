package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/sfassess/internal/assessment"
)

// Sheet names of the exported workbook.
const (
	SheetSummary                  = "Resumen"
	SheetDetails                  = "Resultados Detallados"
	SheetMissing                  = "Información Faltante"
	SheetRecommendations          = "Recomendaciones"
	SheetCriticalPoints           = "Puntos Críticos"
	SheetGeneratedRecommendations = "Recomendaciones Generadas"
	SheetGeneratedCriticalPoints  = "Puntos Críticos Generados"
)

// ContentType is the MIME type of the workbook WriteXLSX produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileName returns the export file name for a, dated by now.
func FileName(a *assessment.Assessment, now time.Time) string {
	return fmt.Sprintf("Salesforce_Assessment_%s_%s.xlsx", fileSafe(a.ClientName()), now.Format(dateLayout))
}

var unsafeFileChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

func fileSafe(s string) string {
	return unsafeFileChars.Replace(s)
}

// WriteXLSX writes the assessment workbook to w. Optional sheets appear
// only when they have rows: missing information when unknown answers
// exist, the stored findings when the aggregate carries any and the
// generated findings when the rule tables fire.
func WriteXLSX(w io.Writer, a *assessment.Assessment) error {
	f := excelize.NewFile()
	defer f.Close()

	b := &workbook{f: f}
	b.init()

	b.sheet(SheetSummary, summaryRows(a), 0)
	b.sheet(SheetDetails, detailRows(a), 0)
	if unknowns := Unknowns(a); len(unknowns) > 0 {
		b.sheet(SheetMissing, missingRows(unknowns), 5)
	}
	if recs := a.Recommendations(); len(recs) > 0 {
		b.sheet(SheetRecommendations, recommendationRows(SheetRecommendations, recs), 3)
	}
	if points := a.CriticalPoints(); len(points) > 0 {
		b.sheet(SheetCriticalPoints, criticalRows(SheetCriticalPoints, points), 3)
	}
	if recs := Recommendations(a); len(recs) > 0 {
		b.sheet(SheetGeneratedRecommendations, recommendationRows(SheetGeneratedRecommendations, recs), 3)
	}
	if points := CriticalPoints(a); len(points) > 0 {
		b.sheet(SheetGeneratedCriticalPoints, criticalRows(SheetGeneratedCriticalPoints, points), 3)
	}
	if b.err != nil {
		return fmt.Errorf("build workbook: %w", b.err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// workbook accumulates the first error so sheet building reads linearly.
type workbook struct {
	f     *excelize.File
	bold  int
	title int
	first bool
	err   error
}

func (b *workbook) init() {
	b.first = true
	b.bold, b.err = b.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if b.err != nil {
		return
	}
	b.title, b.err = b.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
}

// sheet writes rows to a new sheet named name. Row 1 is styled as a title
// and headerRow (1-based, 0 for none) as a header.
func (b *workbook) sheet(name string, rows [][]any, headerRow int) {
	if b.err != nil {
		return
	}
	if b.first {
		// Reuse the default sheet so the workbook has no empty first tab.
		b.err = b.f.SetSheetName(b.f.GetSheetName(0), name)
		b.first = false
	} else {
		_, b.err = b.f.NewSheet(name)
	}
	if b.err != nil {
		return
	}

	width := 0
	for i, row := range rows {
		width = max(width, len(row))
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			b.err = err
			return
		}
		if err := b.f.SetSheetRow(name, cell, &row); err != nil {
			b.err = err
			return
		}
	}
	if width == 0 {
		return
	}

	lastCol, err := excelize.ColumnNumberToName(width)
	if err != nil {
		b.err = err
		return
	}
	if b.err = b.f.SetColWidth(name, "A", lastCol, 22); b.err != nil {
		return
	}
	if b.err = b.f.SetCellStyle(name, "A1", "A1", b.title); b.err != nil {
		return
	}
	if headerRow > 0 {
		b.err = b.f.SetCellStyle(name, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), b.bold)
	}
}

func summaryRows(a *assessment.Assessment) [][]any {
	s := Summarize(a)
	rows := [][]any{
		{"Salesforce Assessment Report"},
		{},
		{"Cliente:", s.ClientName},
		{"Assessor:", s.Assessor},
		{"Fecha:", s.Date.Format(dateLayout)},
		{},
		{"Resumen General"},
		{"Score Total:", round2(s.TotalScore)},
		{"Porcentaje:", pct(s.Percentage)},
		{"Preguntas respondidas:", fmt.Sprintf("%d/%d", s.Answered, s.Questions)},
		{"Sin información:", s.Unknown},
		{},
		{"Módulos", "Score", "Max Score", "Porcentaje", "Estado"},
	}
	for _, m := range s.Modules {
		rows = append(rows, []any{m.Name, round2(m.Score), round2(m.MaxScore), pct(m.Percentage), m.Status.DisplayName()})
	}
	return rows
}

func detailRows(a *assessment.Assessment) [][]any {
	rows := [][]any{{"Resultados Detallados"}, {}}
	for _, m := range a.Modules() {
		rows = append(rows,
			[]any{"Módulo: " + m.Name()},
			[]any{"Sección", "Pregunta", "Respuesta", "Score", "Max Score", "Crítico"},
		)
		for _, s := range m.Sections() {
			for _, q := range s.Questions() {
				ans := q.Answer()
				var score any = round2(q.Score())
				if ans.IsUnknown() {
					score = "N/A"
				}
				rows = append(rows, []any{s.Name(), q.Prompt(), ans.Display(), score, round2(q.MaxScore()), yesNo(q.Critical())})
			}
		}
		rows = append(rows, []any{})
	}
	return rows
}

func missingRows(unknowns []QuestionRef) [][]any {
	rows := [][]any{
		{"Preguntas Sin Información Disponible"},
		{},
		{fmt.Sprintf("Total de preguntas sin información: %d", len(unknowns))},
		{},
		{"Módulo", "Sección", "Pregunta", "Tipo"},
	}
	for _, u := range unknowns {
		rows = append(rows, []any{u.ModuleName, u.SectionName, u.Prompt, string(u.Kind)})
	}
	return rows
}

func recommendationRows(title string, recs []assessment.Recommendation) [][]any {
	rows := [][]any{
		{title},
		{},
		{"Título", "Descripción", "Prioridad", "Módulo", "Esfuerzo Estimado", "Impacto", "Complejidad", "Implementación"},
	}
	for _, r := range recs {
		rows = append(rows, []any{
			r.Title, r.Description, string(r.Priority), r.Module, r.EstimatedEffort,
			r.BusinessImpact, r.TechnicalComplexity, strings.Join(r.Implementation, "; "),
		})
	}
	return rows
}

func criticalRows(title string, points []assessment.CriticalPoint) [][]any {
	rows := [][]any{
		{title},
		{},
		{"Título", "Descripción", "Severidad", "Impacto", "Módulo", "Riesgo", "Mitigación"},
	}
	for _, p := range points {
		rows = append(rows, []any{p.Title, p.Description, string(p.Severity), p.Impact, p.Module, p.Risk, p.Mitigation})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
