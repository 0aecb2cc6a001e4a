package assessment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/sfassess/internal/catalog"
)

// ParseAnswer turns typed input into an answer for q. Options may be
// given by label (case-insensitive) or by 1-based number; checkbox
// selections are comma separated. "unknown", "?" and the sentinel labels
// produce Unknown; free-text kinds keep any input verbatim except the exact
// text sentinel.
func ParseAnswer(q catalog.Question, raw string) (Answer, error) {
	in := strings.TrimSpace(raw)
	if isUnknownInput(q, in) {
		return Unknown(), nil
	}

	invalid := func(reason string) (Answer, error) {
		return Answer{}, &InvalidAnswerError{QuestionID: q.ID, Kind: q.Kind, Variant: VariantText, Reason: reason}
	}

	switch q.Kind {
	case catalog.KindBoolean:
		switch strings.ToLower(in) {
		case "sí", "si", "s", "yes", "y", "true", "1":
			return Bool(true), nil
		case "no", "n", "false", "0":
			return Bool(false), nil
		}
		return invalid(fmt.Sprintf("%q is not a yes/no value", in))

	case catalog.KindScale:
		l, err := strconv.Atoi(in)
		if err != nil {
			return invalid(fmt.Sprintf("%q is not a level", in))
		}
		return Level(l), nil

	case catalog.KindMultipleChoice:
		opt, ok := matchOption(q.Options, in)
		if !ok {
			return invalid(fmt.Sprintf("%q is not one of %s", in, strings.Join(q.Options, ", ")))
		}
		return Choice(opt), nil

	case catalog.KindCheckbox:
		if in == "" {
			return Choices(), nil
		}
		var picked []string
		for _, part := range strings.Split(in, ",") {
			opt, ok := matchOption(q.Options, strings.TrimSpace(part))
			if !ok {
				return invalid(fmt.Sprintf("%q is not one of %s", strings.TrimSpace(part), strings.Join(q.Options, ", ")))
			}
			picked = append(picked, opt)
		}
		return Choices(picked...), nil

	case catalog.KindText, catalog.KindAutocomplete:
		return Text(raw), nil
	}
	return invalid("unsupported kind")
}

func isUnknownInput(q catalog.Question, in string) bool {
	if q.Kind.IsFreeText() {
		return in == UnknownTextLabel
	}
	switch strings.ToLower(in) {
	case unknownWire, "?":
		return true
	}
	return in == UnknownChoiceLabel || in == UnknownTextLabel
}

func matchOption(options []string, in string) (string, bool) {
	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	for _, o := range options {
		if strings.EqualFold(o, in) {
			return o, true
		}
	}
	return "", false
}
