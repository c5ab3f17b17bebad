// Package apperr defines the failure kinds surfaced by repositories and
// shown to the user.
package apperr

import (
	"errors"
	"strings"
)

// Kind identifies the operation category that failed
type Kind string

const (
	KindFetch    Kind = "fetch_failed"
	KindSave     Kind = "save_failed"
	KindCreation Kind = "creation_failed"
	KindUpdate   Kind = "update_failed"
	KindDeletion Kind = "deletion_failed"

	KindEmptyTitle      Kind = "empty_title"
	KindTitleTooLong    Kind = "title_too_long"
	KindInvalidPriority Kind = "invalid_priority"
	KindEmptyName       Kind = "empty_name"
)

// Entity names the kind of record an error is about
type Entity string

const (
	EntityTask    Entity = "task"
	EntityProject Entity = "project"
	EntityArea    Entity = "area"
	EntityTag     Entity = "tag"
)

// Error is a typed failure with an optional underlying cause
type Error struct {
	Kind   Kind
	Entity Entity
	Cause  error
}

func (e *Error) Error() string {
	msg := strings.ReplaceAll(string(e.Kind), "_", " ")
	if e.Entity != "" {
		msg = string(e.Entity) + " " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind, and on entity when the target names one
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Entity == "" || t.Entity == e.Entity)
}

// IsValidation reports whether the kind comes from field validation
func (k Kind) IsValidation() bool {
	switch k {
	case KindEmptyTitle, KindTitleTooLong, KindInvalidPriority, KindEmptyName:
		return true
	}
	return false
}

var (
	ErrEmptyTitle      = &Error{Kind: KindEmptyTitle}
	ErrTitleTooLong    = &Error{Kind: KindTitleTooLong}
	ErrInvalidPriority = &Error{Kind: KindInvalidPriority}
	ErrEmptyName       = &Error{Kind: KindEmptyName}
)

func FetchFailed(entity Entity, cause error) error {
	return &Error{Kind: KindFetch, Entity: entity, Cause: cause}
}

func SaveFailed(entity Entity, cause error) error {
	return &Error{Kind: KindSave, Entity: entity, Cause: cause}
}

func CreationFailed(entity Entity, cause error) error {
	return &Error{Kind: KindCreation, Entity: entity, Cause: cause}
}

func UpdateFailed(entity Entity, cause error) error {
	return &Error{Kind: KindUpdate, Entity: entity, Cause: cause}
}

func DeletionFailed(entity Entity, cause error) error {
	return &Error{Kind: KindDeletion, Entity: entity, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Wrap tags err with the given kind and entity. Validation failures pass
// through untouched.
func Wrap(kind Kind, entity Entity, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind.IsValidation() {
		return err
	}
	return &Error{Kind: kind, Entity: entity, Cause: err}
}
