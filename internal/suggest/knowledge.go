package suggest

// entry is one canned answer in the knowledge base.
type entry struct {
	text       string
	category   string
	confidence float64
	tags       []string
}

// topic groups entries under a keyword. The keyword, with hyphens read as
// spaces, is matched against the question text.
type topic struct {
	key     string
	entries []entry
}

type area struct {
	key    string
	topics []topic
}

type product struct {
	key   string
	areas []area
}

// knowledge is keyed by normalized product and area names. Slices keep the
// iteration order stable.
var knowledge = []product{
	{key: "sales-cloud", areas: []area{
		{key: "lead-management", topics: []topic{
			{key: "lead-scoring", entries: []entry{
				{"Lead scoring implementado con criterios personalizados", "implementation", 0.9, []string{"lead-scoring", "automation"}},
				{"Puntuación basada en comportamiento del lead", "implementation", 0.8, []string{"lead-scoring", "behavior"}},
				{"Integración con Marketing Cloud para scoring", "integration", 0.7, []string{"marketing-cloud", "integration"}},
			}},
			{key: "lead-sources", entries: []entry{
				{"Fuentes de leads configuradas: Web, Email, Eventos", "configuration", 0.9, []string{"lead-sources", "tracking"}},
				{"Tracking de ROI por fuente de lead", "analytics", 0.8, []string{"roi", "analytics"}},
			}},
			{key: "lead-qualification", entries: []entry{
				{"Proceso de calificación automática implementado", "automation", 0.9, []string{"qualification", "automation"}},
				{"Criterios de calificación personalizados por industria", "customization", 0.8, []string{"qualification", "customization"}},
			}},
		}},
		{key: "opportunity-management", topics: []topic{
			{key: "pipeline-stages", entries: []entry{
				{"Etapas de pipeline personalizadas para el sector energético", "customization", 0.9, []string{"pipeline", "energy-sector"}},
				{"Flujos de aprobación por monto y tipo de producto", "approval", 0.9, []string{"approval", "workflow"}},
				{"Forecasting habilitado con modelos predictivos", "analytics", 0.8, []string{"forecasting", "predictive"}},
			}},
			{key: "products-pricing", entries: []entry{
				{"Catálogo de productos configurado con precios dinámicos", "configuration", 0.9, []string{"products", "pricing"}},
				{"CPQ implementado para cotizaciones complejas", "implementation", 0.9, []string{"cpq", "quotes"}},
			}},
		}},
	}},
	{key: "service-cloud", areas: []area{
		{key: "case-management", topics: []topic{
			{key: "case-types", entries: []entry{
				{"Tipos de caso configurados: Técnico, Comercial, Facturación", "configuration", 0.9, []string{"case-types", "categorization"}},
				{"SLAs por tipo de caso y prioridad", "sla", 0.9, []string{"sla", "priority"}},
				{"Escalamiento automático para casos críticos", "automation", 0.8, []string{"escalation", "automation"}},
			}},
			{key: "queues", entries: []entry{
				{"Colas de trabajo automatizadas por especialidad", "automation", 0.9, []string{"queues", "automation"}},
				{"Asignación automática basada en skills", "automation", 0.8, []string{"assignment", "skills"}},
			}},
		}},
		{key: "knowledge-base", topics: []topic{
			{key: "content-management", entries: []entry{
				{"Base de conocimiento con artículos categorizados", "content", 0.9, []string{"knowledge", "categorization"}},
				{"Búsqueda avanzada con filtros inteligentes", "search", 0.8, []string{"search", "filters"}},
				{"Contenido multilingüe para atención internacional", "localization", 0.7, []string{"multilingual", "localization"}},
			}},
		}},
	}},
	{key: "marketing-cloud", areas: []area{
		{key: "email-studio", topics: []topic{
			{key: "campaigns", entries: []entry{
				{"Campañas de email configuradas con segmentación avanzada", "campaigns", 0.9, []string{"email", "segmentation"}},
				{"Templates personalizados con branding corporativo", "templates", 0.8, []string{"templates", "branding"}},
				{"A/B testing implementado para optimización", "testing", 0.8, []string{"ab-testing", "optimization"}},
			}},
		}},
		{key: "journey-builder", topics: []topic{
			{key: "automation", entries: []entry{
				{"Journeys de onboarding activos para nuevos clientes", "automation", 0.9, []string{"onboarding", "automation"}},
				{"Automatización de nurturing por etapa del funnel", "automation", 0.9, []string{"nurturing", "funnel"}},
				{"Triggers de comportamiento para personalización", "personalization", 0.8, []string{"triggers", "personalization"}},
			}},
		}},
	}},
	{key: "integrations", areas: []area{
		{key: "external-systems", topics: []topic{
			{key: "erp-integration", entries: []entry{
				{"SAP ERP integrado con sincronización bidireccional", "integration", 0.9, []string{"sap", "erp", "sync"}},
				{"Sistema de facturación conectado en tiempo real", "integration", 0.9, []string{"billing", "real-time"}},
				{"CRM legacy migrado con mapeo de datos", "migration", 0.8, []string{"migration", "data-mapping"}},
			}},
			{key: "apis", entries: []entry{
				{"APIs externas configuradas con autenticación OAuth", "security", 0.9, []string{"apis", "oauth", "security"}},
				{"Webhooks implementados para eventos críticos", "automation", 0.8, []string{"webhooks", "events"}},
			}},
		}},
	}},
}

// keywordGroup adds generic entries when any of its words occurs in the
// question text.
type keywordGroup struct {
	words   []string
	entries []entry
	quick   []string
}

var generic = []keywordGroup{
	{
		words: []string{"implementado", "configurado"},
		entries: []entry{
			{"Completamente implementado y en producción", "status", 0.9, []string{"implemented", "production"}},
			{"Parcialmente implementado, requiere configuración adicional", "status", 0.8, []string{"partial", "configuration"}},
			{"En desarrollo, estimado de finalización en 2 semanas", "status", 0.7, []string{"development", "timeline"}},
			{"No implementado, requiere análisis de requerimientos", "status", 0.6, []string{"not-implemented", "analysis"}},
		},
		quick: []string{"Completamente implementado", "Parcialmente implementado", "En desarrollo", "No implementado"},
	},
	{
		words: []string{"complejidad", "complejo"},
		entries: []entry{
			{"Baja complejidad: configuración estándar de Salesforce", "complexity", 0.9, []string{"low", "standard"}},
			{"Complejidad media: requiere personalización moderada", "complexity", 0.8, []string{"medium", "customization"}},
			{"Alta complejidad: desarrollo personalizado requerido", "complexity", 0.7, []string{"high", "development"}},
			{"Muy alta complejidad: integración con sistemas legacy", "complexity", 0.6, []string{"very-high", "legacy"}},
		},
		quick: []string{"Baja complejidad", "Complejidad media", "Alta complejidad", "Muy alta complejidad"},
	},
	{
		words: []string{"prioridad", "importante"},
		entries: []entry{
			{"Crítica: impacto directo en operaciones del negocio", "priority", 0.9, []string{"critical", "business-impact"}},
			{"Alta: afecta procesos importantes pero no críticos", "priority", 0.8, []string{"high", "important"}},
			{"Media: mejora de eficiencia y experiencia de usuario", "priority", 0.7, []string{"medium", "efficiency"}},
			{"Baja: optimización y mejoras menores", "priority", 0.6, []string{"low", "optimization"}},
		},
		quick: []string{"Crítica", "Alta", "Media", "Baja"},
	},
}

var (
	advancedConfig = entry{"Configuración avanzada requerida para optimización", "optimization", 0.8, []string{"advanced", "optimization"}}
	securityConfig = entry{"Configuración de seguridad y autenticación requerida", "security", 0.9, []string{"security", "authentication"}}
)
