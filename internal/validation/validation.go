// Package validation checks user-supplied field values before any entity is
// touched.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tgienger/gtd/internal/apperr"
)

// MaxTitleLength is the longest task title accepted, in characters
const MaxTitleLength = 200

var (
	validate  = validator.New()
	titleRule = fmt.Sprintf("max=%d", MaxTitleLength)
)

// TaskTitle trims raw and checks it is non-empty and short enough
func TaskTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if err := validate.Var(title, "required"); err != nil {
		return "", apperr.ErrEmptyTitle
	}
	if err := validate.Var(title, titleRule); err != nil {
		return "", apperr.ErrTitleTooLong
	}
	return title, nil
}

// Priority accepts 0 (none) through 3 (high)
func Priority(n int) (int, error) {
	if err := validate.Var(n, "oneof=0 1 2 3"); err != nil {
		return 0, apperr.ErrInvalidPriority
	}
	return n, nil
}

// ProjectName trims raw and checks it is non-empty
func ProjectName(raw string) (string, error) {
	return Name(raw)
}

// Name trims raw and checks it is non-empty. Used for areas and tags.
func Name(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if err := validate.Var(name, "required"); err != nil {
		return "", apperr.ErrEmptyName
	}
	return name, nil
}
