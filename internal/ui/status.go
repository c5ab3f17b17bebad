package ui

import (
	"golang.org/x/text/language"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/logging"
)

// Status is the status bar line. It is the alert collaborator of the
// view-model and only touched from the UI loop.
type Status struct {
	lang  language.Tag
	l     logging.Logger
	text  string
	isErr bool
}

func NewStatus(lang language.Tag, l logging.Logger) *Status {
	return &Status{lang: lang, l: l}
}

// Alert shows the localized message for err
func (s *Status) Alert(err error) {
	s.l.Error("action failed", "kind", apperr.KindOf(err), "error", err)
	s.text = apperr.Message(s.lang, err)
	s.isErr = true
}

func (s *Status) Info(text string) {
	s.text = text
	s.isErr = false
}

func (s *Status) Clear() {
	s.text = ""
	s.isErr = false
}

// Text returns the current line and whether it is an error
func (s *Status) Text() (string, bool) {
	return s.text, s.isErr
}
