package report

import (
	"fmt"

	"github.com/abhisek/sfassess/internal/assessment"
)

// recommendationRule fires when a module's percentage is strictly below
// threshold.
type recommendationRule struct {
	moduleID    string
	threshold   float64
	seq         int
	title       string
	description string
	priority    assessment.Priority
	effort      string
	impact      string
	complexity  string
	steps       []string
}

type criticalRule struct {
	moduleID    string
	threshold   float64
	title       string
	description string
	impact      string
	risk        string
	mitigation  string
}

var recommendationRules = []recommendationRule{
	{
		moduleID: "current-architecture", threshold: 60, seq: 1,
		title:       "Implementar monitoreo de Governor Limits",
		description: "Establecer framework de monitoreo para CPU time, heap size, SOQL queries y DML operations para prevenir errores en producción.",
		priority:    assessment.PriorityCritical, effort: "2-3 semanas", impact: "Alto", complexity: "Media",
		steps: []string{"Implementar logging de governor limits", "Configurar alertas automáticas", "Crear dashboard de monitoreo", "Documentar límites por org"},
	},
	{
		moduleID: "current-architecture", threshold: 40, seq: 2,
		title:       "Rediseñar arquitectura de datos",
		description: "Revisar y optimizar el modelo de datos siguiendo las mejores prácticas de Salesforce para escalabilidad.",
		priority:    assessment.PriorityHigh, effort: "4-6 semanas", impact: "Alto", complexity: "Alta",
		steps: []string{"Auditoría completa del modelo de datos", "Optimizar relaciones y campos calculados", "Implementar roll-up summaries", "Configurar Big Objects para datos históricos"},
	},
	{
		moduleID: "security-architecture", threshold: 70, seq: 1,
		title:       "Implementar cifrado de datos sensibles",
		description: "Configurar field-level encryption y platform encryption para datos sensibles según regulaciones peruanas.",
		priority:    assessment.PriorityHigh, effort: "3-4 semanas", impact: "Alto", complexity: "Media",
		steps: []string{"Identificar campos sensibles", "Configurar field-level encryption", "Implementar platform encryption", "Validar cumplimiento LGPD"},
	},
	{
		moduleID: "security-architecture", threshold: 50, seq: 2,
		title:       "Rediseñar modelo de seguridad",
		description: "Reestructurar perfiles, roles y sharing rules para optimizar rendimiento y seguridad.",
		priority:    assessment.PriorityCritical, effort: "6-8 semanas", impact: "Crítico", complexity: "Alta",
		steps: []string{"Auditoría completa de seguridad", "Rediseñar role hierarchy", "Optimizar sharing rules", "Implementar permission sets"},
	},
	{
		moduleID: "integration-architecture", threshold: 60, seq: 1,
		title:       "Implementar integración con SUNAT",
		description: "Desarrollar integración con sistemas de SUNAT para e-invoicing y reportes fiscales.",
		priority:    assessment.PriorityCritical, effort: "8-12 semanas", impact: "Crítico", complexity: "Alta",
		steps: []string{"Análisis de requerimientos SUNAT", "Desarrollo de APIs de integración", "Implementación de e-invoicing", "Testing con ambiente de SUNAT"},
	},
	{
		moduleID: "integration-architecture", threshold: 40, seq: 2,
		title:       "Establecer estrategia de middleware",
		description: "Implementar solución de middleware robusta para manejar integraciones complejas.",
		priority:    assessment.PriorityHigh, effort: "6-10 semanas", impact: "Alto", complexity: "Alta",
		steps: []string{"Evaluar opciones de middleware", "Diseñar arquitectura de integración", "Implementar MuleSoft o similar", "Configurar error handling"},
	},
	{
		moduleID: "performance-architecture", threshold: 60, seq: 1,
		title:       "Optimizar consultas SOQL",
		description: "Revisar y optimizar todas las consultas SOQL para mejorar rendimiento y evitar governor limits.",
		priority:    assessment.PriorityHigh, effort: "3-4 semanas", impact: "Alto", complexity: "Media",
		steps: []string{"Auditoría de todas las consultas SOQL", "Optimizar índices y selectividad", "Implementar bulk queries", "Configurar query monitoring"},
	},
	{
		moduleID: "performance-architecture", threshold: 40, seq: 2,
		title:       "Implementar estrategia multi-org",
		description: "Diseñar e implementar arquitectura multi-org para separar operaciones por país.",
		priority:    assessment.PriorityCritical, effort: "12-16 semanas", impact: "Crítico", complexity: "Alta",
		steps: []string{"Diseñar arquitectura multi-org", "Configurar org separation", "Implementar data sharing", "Configurar user management"},
	},
	{
		moduleID: "regional-configuration", threshold: 70, seq: 1,
		title:       "Configurar sistema de impuestos peruano",
		description: "Implementar configuración completa de impuestos para Perú incluyendo IGV y códigos fiscales.",
		priority:    assessment.PriorityHigh, effort: "2-3 semanas", impact: "Alto", complexity: "Media",
		steps: []string{"Configurar tax codes peruanos", "Implementar cálculo de IGV", "Configurar reportes fiscales", "Validar con contadores locales"},
	},
	{
		moduleID: "regional-configuration", threshold: 50, seq: 2,
		title:       "Implementar residencia de datos",
		description: "Configurar almacenamiento local de datos para cumplir con regulaciones peruanas.",
		priority:    assessment.PriorityCritical, effort: "4-6 semanas", impact: "Crítico", complexity: "Alta",
		steps: []string{"Evaluar requerimientos de residencia", "Configurar data storage local", "Implementar data classification", "Validar cumplimiento legal"},
	},
	{
		moduleID: "functionality-analysis", threshold: 60, seq: 1,
		title:       "Crear plan de migración de funcionalidades",
		description: "Desarrollar estrategia detallada para migrar funcionalidades críticas a Perú.",
		priority:    assessment.PriorityCritical, effort: "8-12 semanas", impact: "Crítico", complexity: "Alta",
		steps: []string{"Identificar funcionalidades críticas", "Evaluar dependencias y riesgos", "Crear roadmap de migración", "Definir criterios de éxito"},
	},
	{
		moduleID: "functionality-analysis", threshold: 40, seq: 2,
		title:       "Rediseñar funcionalidades no migrables",
		description: "Rediseñar funcionalidades que no pueden migrarse directamente a Perú.",
		priority:    assessment.PriorityHigh, effort: "12-16 semanas", impact: "Alto", complexity: "Alta",
		steps: []string{"Identificar funcionalidades no migrables", "Diseñar alternativas compatibles", "Desarrollar nuevas funcionalidades", "Testing exhaustivo"},
	},
}

var criticalRules = []criticalRule{
	{
		moduleID: "current-architecture", threshold: 50,
		title:       "Governor Limits no monitoreados",
		description: "Falta monitoreo de governor limits que puede causar errores en producción durante el roll out.",
		impact:      "Alto", risk: "Errores en producción, interrupciones del servicio",
		mitigation: "Implementar framework de monitoreo inmediatamente",
	},
	{
		moduleID: "security-architecture", threshold: 60,
		title:       "Cumplimiento GDPR/LGPD en riesgo",
		description: "Falta implementación de controles de privacidad requeridos para operaciones en Perú.",
		impact:      "Alto", risk: "Multas legales, pérdida de confianza del cliente",
		mitigation: "Implementar controles de privacidad urgentemente",
	},
	{
		moduleID: "integration-architecture", threshold: 50,
		title:       "Integración SUNAT no implementada",
		description: "Falta integración crítica con SUNAT para cumplimiento fiscal peruano.",
		impact:      "Alto", risk: "Incumplimiento fiscal, multas gubernamentales",
		mitigation: "Desarrollar integración SUNAT como prioridad máxima",
	},
	{
		moduleID: "performance-architecture", threshold: 40,
		title:       "Riesgo de escalabilidad",
		description: "Arquitectura actual no soporta el crecimiento esperado para Perú.",
		impact:      "Alto", risk: "Pérdida de rendimiento, interrupciones del servicio",
		mitigation: "Implementar estrategia de escalabilidad inmediatamente",
	},
	{
		moduleID: "regional-configuration", threshold: 60,
		title:       "Configuración fiscal peruana incompleta",
		description: "Falta configuración de impuestos y documentos peruanos requeridos.",
		impact:      "Alto", risk: "Incumplimiento fiscal, problemas operativos",
		mitigation: "Completar configuración fiscal peruana urgentemente",
	},
	{
		moduleID: "functionality-analysis", threshold: 50,
		title:       "Funcionalidades críticas no migrables",
		description: "Identificadas funcionalidades críticas que no pueden migrarse directamente a Perú.",
		impact:      "Alto", risk: "Interrupción de operaciones, pérdida de funcionalidad",
		mitigation: "Desarrollar plan de migración y alternativas inmediatamente",
	},
}

// Thresholds of the rules that apply to every module.
const (
	reconfigureBelow = 30
	criticalBelow    = 20
)

// Recommendations evaluates the rule tables against every module with a
// positive maximum score. Module rules come first, then the generic low
// score rule, module by module in catalog order.
func Recommendations(a *assessment.Assessment) []assessment.Recommendation {
	var out []assessment.Recommendation
	for _, m := range a.Modules() {
		if m.MaxScore() <= 0 {
			continue
		}
		pct := m.Percentage()
		for _, r := range recommendationRules {
			if r.moduleID != m.ID() || pct >= r.threshold {
				continue
			}
			out = append(out, assessment.Recommendation{
				ID:                  fmt.Sprintf("rec-%s-%d", m.ID(), r.seq),
				Title:               r.title,
				Description:         r.description,
				Priority:            r.priority,
				Module:              m.Name(),
				EstimatedEffort:     r.effort,
				BusinessImpact:      r.impact,
				TechnicalComplexity: r.complexity,
				Implementation:      append([]string(nil), r.steps...),
			})
		}
		if pct < reconfigureBelow {
			out = append(out, assessment.Recommendation{
				ID:                  fmt.Sprintf("rec-%s-3", m.ID()),
				Title:               "Reconfiguración crítica de " + m.Name(),
				Description:         fmt.Sprintf("El módulo %s requiere reconfiguración urgente debido al bajo score (%.1f%%).", m.Name(), pct),
				Priority:            assessment.PriorityCritical,
				Module:              m.Name(),
				EstimatedEffort:     "4-6 semanas",
				BusinessImpact:      "Crítico",
				TechnicalComplexity: "Alta",
				Implementation: []string{
					"Análisis completo del módulo",
					"Identificación de gaps críticos",
					"Rediseño de arquitectura",
					"Implementación y validación",
				},
			})
		}
	}
	return out
}

// CriticalPoints evaluates the critical point tables the same way
// Recommendations does.
func CriticalPoints(a *assessment.Assessment) []assessment.CriticalPoint {
	var out []assessment.CriticalPoint
	for _, m := range a.Modules() {
		if m.MaxScore() <= 0 {
			continue
		}
		pct := m.Percentage()
		for _, r := range criticalRules {
			if r.moduleID != m.ID() || pct >= r.threshold {
				continue
			}
			out = append(out, assessment.CriticalPoint{
				ID:          fmt.Sprintf("critical-%s-1", m.ID()),
				Title:       r.title,
				Description: r.description,
				Severity:    assessment.PriorityCritical,
				Module:      m.Name(),
				Impact:      r.impact,
				Risk:        r.risk,
				Mitigation:  r.mitigation,
			})
		}
		if pct < criticalBelow {
			out = append(out, assessment.CriticalPoint{
				ID:          fmt.Sprintf("critical-%s-2", m.ID()),
				Title:       fmt.Sprintf("Módulo %s en estado crítico", m.Name()),
				Description: fmt.Sprintf("El módulo %s requiere atención inmediata debido al score extremadamente bajo (%.1f%%).", m.Name(), pct),
				Severity:    assessment.PriorityCritical,
				Module:      m.Name(),
				Impact:      "Crítico",
				Risk:        "Fallo total del sistema, pérdida de datos",
				Mitigation:  "Revisión completa y reconfiguración del módulo",
			})
		}
	}
	return out
}
