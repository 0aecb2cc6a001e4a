package assessment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/sfassess/internal/catalog"
)

// unknownWire is the legacy string form of the Unknown answer. It is only
// read back for kinds whose own payload can never be that string; new
// blobs write unknownObject, which no kind's payload can collide with.
const unknownWire = "unknown"

type unknownObject struct {
	Unknown bool `json:"unknown"`
}

type wireAssessment struct {
	ID              string           `json:"id"`
	ClientName      string           `json:"clientName"`
	Assessor        string           `json:"assessor"`
	AssessmentDate  time.Time        `json:"assessmentDate"`
	CatalogVersion  string           `json:"catalogVersion,omitempty"`
	Modules         []wireModule     `json:"modules"`
	Recommendations []Recommendation `json:"recommendations"`
	CriticalPoints  []CriticalPoint  `json:"criticalPoints"`
	OverallScore    float64          `json:"overallScore"`
}

type wireModule struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Icon     string        `json:"icon,omitempty"`
	Color    string        `json:"color,omitempty"`
	Score    float64       `json:"score"`
	MaxScore float64       `json:"maxScore"`
	Status   Status        `json:"status"`
	Sections []wireSection `json:"sections"`
}

type wireSection struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Score     float64        `json:"score"`
	MaxScore  float64        `json:"maxScore"`
	Status    Status         `json:"status"`
	Questions []wireQuestion `json:"questions"`
}

type wireQuestion struct {
	ID          string          `json:"id"`
	Question    string          `json:"question"`
	Description string          `json:"description,omitempty"`
	Type        catalog.Kind    `json:"type"`
	Options     []string        `json:"options,omitempty"`
	Answer      json.RawMessage `json:"answer,omitempty"`
	Score       float64         `json:"score"`
	MaxScore    float64         `json:"maxScore"`
	Weight      float64         `json:"weight"`
	Category    string          `json:"category"`
	Critical    bool            `json:"critical"`
}

// MarshalJSON encodes the aggregate as a single self-describing blob.
func (a *Assessment) MarshalJSON() ([]byte, error) {
	w := wireAssessment{
		ID:              a.id,
		ClientName:      a.clientName,
		Assessor:        a.assessor,
		AssessmentDate:  a.createdAt,
		CatalogVersion:  a.catalogVersion,
		Modules:         make([]wireModule, 0, len(a.modules)),
		Recommendations: a.recommendations,
		CriticalPoints:  a.criticalPoints,
		OverallScore:    a.overall,
	}
	if w.Recommendations == nil {
		w.Recommendations = []Recommendation{}
	}
	if w.CriticalPoints == nil {
		w.CriticalPoints = []CriticalPoint{}
	}
	for _, m := range a.modules {
		wm := wireModule{
			ID: m.id, Name: m.name, Icon: m.icon, Color: m.color,
			Score: m.score, MaxScore: m.maxScore, Status: m.status,
			Sections: make([]wireSection, 0, len(m.sections)),
		}
		for _, s := range m.sections {
			ws := wireSection{
				ID: s.id, Name: s.name,
				Score: s.score, MaxScore: s.maxScore, Status: s.status,
				Questions: make([]wireQuestion, 0, len(s.questions)),
			}
			for _, q := range s.questions {
				raw, err := encodeAnswer(q.answer)
				if err != nil {
					return nil, fmt.Errorf("question %s: %w", q.def.ID, err)
				}
				ws.Questions = append(ws.Questions, wireQuestion{
					ID:          q.def.ID,
					Question:    q.def.Prompt,
					Description: q.def.Description,
					Type:        q.def.Kind,
					Options:     q.def.Options,
					Answer:      raw,
					Score:       q.score,
					MaxScore:    q.def.MaxScore,
					Weight:      q.def.Weight,
					Category:    q.def.Category,
					Critical:    q.def.Critical,
				})
			}
			wm.Sections = append(wm.Sections, ws)
		}
		w.Modules = append(w.Modules, wm)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a stored blob. Stored scores, statuses and max
// scores are ignored and re-derived from the answers.
func (a *Assessment) UnmarshalJSON(data []byte) error {
	var w wireAssessment
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	next := Assessment{
		id:              w.ID,
		clientName:      w.ClientName,
		assessor:        w.Assessor,
		createdAt:       w.AssessmentDate.UTC(),
		catalogVersion:  w.CatalogVersion,
		modules:         make([]Module, 0, len(w.Modules)),
		recommendations: w.Recommendations,
		criticalPoints:  w.CriticalPoints,
	}
	for _, wm := range w.Modules {
		m := Module{
			id: wm.ID, name: wm.Name, icon: wm.Icon, color: wm.Color,
			sections: make([]Section, 0, len(wm.Sections)),
		}
		for _, ws := range wm.Sections {
			s := Section{id: ws.ID, name: ws.Name, questions: make([]Question, 0, len(ws.Questions))}
			for _, wq := range ws.Questions {
				def := catalog.Question{
					ID:          wq.ID,
					Prompt:      wq.Question,
					Description: wq.Description,
					Kind:        wq.Type,
					Options:     wq.Options,
					MaxScore:    wq.MaxScore,
					Weight:      wq.Weight,
					Category:    wq.Category,
					Critical:    wq.Critical,
				}
				if !def.Kind.Valid() {
					return fmt.Errorf("question %s/%s/%s: unknown type %q", wm.ID, ws.ID, wq.ID, wq.Type)
				}
				ans, err := decodeAnswer(def, wq.Answer)
				if err != nil {
					return fmt.Errorf("question %s/%s/%s: %w", wm.ID, ws.ID, wq.ID, err)
				}
				s.questions = append(s.questions, Question{
					def:    def,
					answer: ans,
					score:  Score(def.Kind, ans, def.MaxScore, def.Options),
				})
				s.maxScore += def.MaxScore
			}
			s.recompute()
			m.sections = append(m.sections, s)
			m.maxScore += s.maxScore
		}
		m.recompute()
		next.modules = append(next.modules, m)
		next.maxScore += m.maxScore
	}
	next.recompute()

	*a = next
	return nil
}

// Decode parses a stored blob into a fresh aggregate.
func Decode(data []byte) (*Assessment, error) {
	var a Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	return &a, nil
}

func encodeAnswer(a Answer) (json.RawMessage, error) {
	switch a.variant {
	case VariantUnset:
		return nil, nil
	case VariantUnknown:
		return json.Marshal(unknownObject{Unknown: true})
	case VariantBool:
		return json.Marshal(a.b)
	case VariantLevel:
		return json.Marshal(a.level)
	case VariantText, VariantChoice:
		return json.Marshal(a.text)
	case VariantChoices:
		if a.choices == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.choices)
	}
	return nil, fmt.Errorf("cannot encode %s answer", a.variant)
}

// legacyUnknown reports whether the bare string "unknown" can only mean
// the Unknown answer for q.
func legacyUnknown(q catalog.Question) bool {
	switch q.Kind {
	case catalog.KindText, catalog.KindAutocomplete:
		return false
	case catalog.KindMultipleChoice:
		return !slices.Contains(q.Options, unknownWire)
	}
	return true
}

// decodeAnswer interprets a stored answer through the question's kind.
func decodeAnswer(q catalog.Question, raw json.RawMessage) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Answer{}, nil
	}

	if raw[0] == '{' {
		var u unknownObject
		if err := json.Unmarshal(raw, &u); err == nil && u.Unknown {
			return Unknown(), nil
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s == unknownWire && legacyUnknown(q) {
		return Unknown(), nil
	}

	var (
		ans Answer
		err error
	)
	switch q.Kind {
	case catalog.KindBoolean:
		var b bool
		err = json.Unmarshal(raw, &b)
		ans = Bool(b)
	case catalog.KindScale:
		var l int
		err = json.Unmarshal(raw, &l)
		ans = Level(l)
	case catalog.KindMultipleChoice:
		var c string
		err = json.Unmarshal(raw, &c)
		ans = Choice(c)
	case catalog.KindCheckbox:
		var cs []string
		err = json.Unmarshal(raw, &cs)
		ans = Choices(cs...)
	case catalog.KindText, catalog.KindAutocomplete:
		var t string
		err = json.Unmarshal(raw, &t)
		ans = Text(t)
	default:
		return Answer{}, fmt.Errorf("unknown kind %q", q.Kind)
	}
	if err != nil {
		return Answer{}, &InvalidAnswerError{QuestionID: q.ID, Kind: q.Kind, Variant: VariantUnset, Reason: fmt.Sprintf("stored answer %s", raw)}
	}
	return ans, nil
}
