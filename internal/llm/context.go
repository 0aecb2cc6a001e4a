package llm

import "context"

type callLabelKey struct{}

// callLabel says why a request was made and, for suggestions, which
// question it was made for.
type callLabel struct {
	purpose  string
	question string
}

// PurposeSuggestion labels free-text answer suggestions.
const PurposeSuggestion = "suggestion"

// WithPurpose labels requests made with ctx for the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	l, _ := ctx.Value(callLabelKey{}).(callLabel)
	l.purpose = purpose
	return context.WithValue(ctx, callLabelKey{}, l)
}

// WithQuestion records the catalog reference (module/section/question) the
// request is about.
func WithQuestion(ctx context.Context, ref string) context.Context {
	l, _ := ctx.Value(callLabelKey{}).(callLabel)
	l.question = ref
	return context.WithValue(ctx, callLabelKey{}, l)
}

// PurposeFrom returns the purpose label, "unknown" when none was set.
func PurposeFrom(ctx context.Context) string {
	if l, ok := ctx.Value(callLabelKey{}).(callLabel); ok && l.purpose != "" {
		return l.purpose
	}
	return "unknown"
}

// QuestionFrom returns the question reference or "".
func QuestionFrom(ctx context.Context) string {
	l, _ := ctx.Value(callLabelKey{}).(callLabel)
	return l.question
}

// eventPurpose is the purpose column of the event log: the label, followed
// by the question reference when there is one.
func eventPurpose(ctx context.Context) string {
	if q := QuestionFrom(ctx); q != "" {
		return PurposeFrom(ctx) + " " + q
	}
	return PurposeFrom(ctx)
}
