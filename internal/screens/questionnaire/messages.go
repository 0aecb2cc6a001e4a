package questionnaire

import "github.com/abhisek/sfassess/internal/catalog"

// suggestionsMsg carries the result of an asynchronous suggestion lookup
// for ref. open asks for the picker to be shown when results arrive.
type suggestionsMsg struct {
	ref   catalog.Ref
	items []string
	err   error
	open  bool
}
