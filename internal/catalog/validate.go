package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Validate performs all structural checks on the catalog.
// Returns a combined error describing all problems found, or nil if valid.
func (c *Catalog) Validate() error {
	var errs []string

	if !semver.IsValid(c.Version) {
		errs = append(errs, fmt.Sprintf("version %q is not a semantic version (want e.g. v1.0.0)", c.Version))
	}
	if len(c.Modules) == 0 {
		errs = append(errs, "catalog has no modules")
	}

	moduleIDs := make(map[string]bool, len(c.Modules))
	for _, m := range c.Modules {
		if m.ID == "" {
			errs = append(errs, fmt.Sprintf("module %q has empty ID", m.Name))
		} else if moduleIDs[m.ID] {
			errs = append(errs, fmt.Sprintf("duplicate module ID: %q", m.ID))
		}
		moduleIDs[m.ID] = true
		if m.Name == "" {
			errs = append(errs, fmt.Sprintf("module %q has empty name", m.ID))
		}

		sectionIDs := make(map[string]bool, len(m.Sections))
		for _, s := range m.Sections {
			prefix := fmt.Sprintf("module %q", m.ID)
			if s.ID == "" {
				errs = append(errs, fmt.Sprintf("%s: section %q has empty ID", prefix, s.Name))
			} else if sectionIDs[s.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate section ID: %q", prefix, s.ID))
			}
			sectionIDs[s.ID] = true
			errs = append(errs, validateQuestions(fmt.Sprintf("%s section %q", prefix, s.ID), s.Questions)...)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateQuestions(prefix string, questions []Question) []string {
	var errs []string
	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			errs = append(errs, fmt.Sprintf("%s: question with empty ID", prefix))
		} else if ids[q.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate question ID: %q", prefix, q.ID))
		}
		ids[q.ID] = true

		qp := fmt.Sprintf("%s question %q", prefix, q.ID)
		if q.Prompt == "" {
			errs = append(errs, fmt.Sprintf("%s: empty prompt", qp))
		}
		if !q.Kind.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown kind %q", qp, q.Kind))
		}
		if q.MaxScore <= 0 {
			errs = append(errs, fmt.Sprintf("%s: MaxScore must be > 0, got %g", qp, q.MaxScore))
		}
		if (q.Kind == KindMultipleChoice || q.Kind == KindCheckbox) && len(q.Options) == 0 {
			errs = append(errs, fmt.Sprintf("%s: %s question needs options", qp, q.Kind))
		}
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if seen[opt] {
				errs = append(errs, fmt.Sprintf("%s: duplicate option %q", qp, opt))
			}
			seen[opt] = true
		}
	}
	return errs
}

// Compatible reports whether two catalog versions share a major version,
// meaning an assessment built from one can be read against the other.
func Compatible(a, b string) bool {
	if !semver.IsValid(a) || !semver.IsValid(b) {
		return false
	}
	return semver.Major(a) == semver.Major(b)
}
