package assessment

import (
	"errors"
	"fmt"

	"github.com/abhisek/sfassess/internal/catalog"
)

var (
	// ErrNotFound matches any NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAnswerShape matches any InvalidAnswerError.
	ErrInvalidAnswerShape = errors.New("invalid answer shape")
)

// NotFoundError reports an id triple that does not resolve in the aggregate.
type NotFoundError struct {
	Level      string // "module", "section" or "question"
	ModuleID   string
	SectionID  string
	QuestionID string
}

func (e *NotFoundError) Error() string {
	switch e.Level {
	case "module":
		return fmt.Sprintf("module %q not found", e.ModuleID)
	case "section":
		return fmt.Sprintf("section %q not found in module %q", e.SectionID, e.ModuleID)
	default:
		return fmt.Sprintf("question %q not found in %s/%s", e.QuestionID, e.ModuleID, e.SectionID)
	}
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidAnswerError reports an answer whose shape does not fit the
// question's kind.
type InvalidAnswerError struct {
	QuestionID string
	Kind       catalog.Kind
	Variant    Variant
	Reason     string
}

func (e *InvalidAnswerError) Error() string {
	msg := fmt.Sprintf("question %q (%s) cannot take a %s answer", e.QuestionID, e.Kind, e.Variant)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvalidAnswerError) Is(target error) bool { return target == ErrInvalidAnswerShape }
