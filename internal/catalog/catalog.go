// Package catalog defines the static tree of assessment modules, sections
// and questions, and ships the built-in Salesforce catalog.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"
)

// Kind discriminates a question's answer shape.
type Kind string

const (
	KindBoolean        Kind = "boolean"
	KindScale          Kind = "scale"
	KindText           Kind = "text"
	KindMultipleChoice Kind = "multiple-choice"
	KindCheckbox       Kind = "checkbox"
	KindAutocomplete   Kind = "autocomplete"
)

// AllKinds returns every question kind in display order.
func AllKinds() []Kind {
	return []Kind{
		KindBoolean,
		KindScale,
		KindText,
		KindMultipleChoice,
		KindCheckbox,
		KindAutocomplete,
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// IsFreeText reports whether answers of this kind are typed text.
func (k Kind) IsFreeText() bool {
	return k == KindText || k == KindAutocomplete
}

// DisplayName returns a human-readable label for a kind.
func (k Kind) DisplayName() string {
	switch k {
	case KindBoolean:
		return "Sí/No"
	case KindScale:
		return "Escala"
	case KindText:
		return "Texto"
	case KindMultipleChoice:
		return "Opción múltiple"
	case KindCheckbox:
		return "Selección múltiple"
	case KindAutocomplete:
		return "Texto con sugerencias"
	default:
		return string(k)
	}
}

// Question is an immutable question definition.
type Question struct {
	ID          string   `yaml:"id" json:"id"`
	Prompt      string   `yaml:"prompt" json:"prompt"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Kind        Kind     `yaml:"kind" json:"kind"`
	Options     []string `yaml:"options,omitempty" json:"options,omitempty"`
	MaxScore    float64  `yaml:"max_score" json:"max_score"`
	Weight      float64  `yaml:"weight,omitempty" json:"weight,omitempty"`
	Category    string   `yaml:"category,omitempty" json:"category,omitempty"`
	Critical    bool     `yaml:"critical" json:"critical"`
}

// OptionCount is the option-list length used by the scoring rule.
func (q Question) OptionCount() int {
	return len(q.Options)
}

// Section groups questions inside a module.
type Section struct {
	ID        string     `yaml:"id" json:"id"`
	Name      string     `yaml:"name" json:"name"`
	Questions []Question `yaml:"questions" json:"questions"`
}

// Question returns the question with the given ID, or false.
func (s *Section) Question(id string) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], true
		}
	}
	return nil, false
}

// MaxScore is the sum of the section's question max scores.
func (s *Section) MaxScore() float64 {
	var total float64
	for _, q := range s.Questions {
		total += q.MaxScore
	}
	return total
}

// Module is a top-level assessment area such as "Sales Cloud".
type Module struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Icon     string    `yaml:"icon,omitempty" json:"icon,omitempty"`
	Color    string    `yaml:"color,omitempty" json:"color,omitempty"`
	Sections []Section `yaml:"sections" json:"sections"`
}

// Section returns the section with the given ID, or false.
func (m *Module) Section(id string) (*Section, bool) {
	for i := range m.Sections {
		if m.Sections[i].ID == id {
			return &m.Sections[i], true
		}
	}
	return nil, false
}

// QuestionCount returns the number of questions across all sections.
func (m *Module) QuestionCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Questions)
	}
	return n
}

// Catalog is the ordered, versioned list of modules. It is shared
// read-only once loaded.
type Catalog struct {
	Version string   `yaml:"version" json:"version"`
	Modules []Module `yaml:"modules" json:"modules"`
}

// Module returns the module with the given ID, or false.
func (c *Catalog) Module(id string) (*Module, bool) {
	for i := range c.Modules {
		if c.Modules[i].ID == id {
			return &c.Modules[i], true
		}
	}
	return nil, false
}

// QuestionCount returns the total number of questions in the catalog.
func (c *Catalog) QuestionCount() int {
	n := 0
	for i := range c.Modules {
		n += c.Modules[i].QuestionCount()
	}
	return n
}

// Ref addresses a single question by its id triple.
type Ref struct {
	ModuleID   string `json:"moduleId"`
	SectionID  string `json:"sectionId"`
	QuestionID string `json:"questionId"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%s/%s", r.ModuleID, r.SectionID, r.QuestionID)
}

// Refs returns every question reference in catalog order.
func (c *Catalog) Refs() []Ref {
	refs := make([]Ref, 0, c.QuestionCount())
	for _, m := range c.Modules {
		for _, s := range m.Sections {
			for _, q := range s.Questions {
				refs = append(refs, Ref{ModuleID: m.ID, SectionID: s.ID, QuestionID: q.ID})
			}
		}
	}
	return refs
}

//go:embed salesforce.yaml
var salesforceYAML []byte

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Parse(salesforceYAML, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog is invalid: %v", err))
	}
	return c
})

// Default returns the built-in Salesforce assessment catalog.
func Default() *Catalog {
	return defaultCatalog()
}
