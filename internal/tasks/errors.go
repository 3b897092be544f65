package tasks

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/tgienger/teamboard/internal/db"
)

// Kind classifies engine failures
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindInvalidState Kind = "invalid_state"
	KindInvalidGroup Kind = "invalid_group"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// Error is a typed engine failure. Code is a stable machine-readable reason
// within the kind.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same kind and code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code == "" {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

var (
	// ErrNotASuperTask is returned when a member is added to a task that is not a container
	ErrNotASuperTask = &Error{Kind: KindInvalidGroup, Code: "not_a_super_task", Message: "target task is not a super task"}
	// ErrAlreadyGrouped is returned when a task already belongs to another super task
	ErrAlreadyGrouped = &Error{Kind: KindInvalidGroup, Code: "already_grouped", Message: "task already belongs to a super task"}
	// ErrTeamExists is returned by BootstrapUser once any user has been created
	ErrTeamExists = &Error{Kind: KindConflict, Code: "team_exists", Message: "the team already has users"}
)

// KindOf returns the kind of err, or KindInternal for untyped errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func newError(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func validation(code, format string, args ...any) *Error {
	return newError(KindValidation, code, format, args...)
}

func forbidden(code, format string, args ...any) *Error {
	return newError(KindForbidden, code, format, args...)
}

func invalidState(code, format string, args ...any) *Error {
	return newError(KindInvalidState, code, format, args...)
}

func invalidGroup(code, format string, args ...any) *Error {
	return newError(KindInvalidGroup, code, format, args...)
}

// withID copies a sentinel and names the offending task in its message
func withID(sentinel *Error, id int64) *Error {
	e := *sentinel
	e.Message = fmt.Sprintf("%s (task %d)", sentinel.Message, id)
	return &e
}

// classify turns storage failures into typed errors. Errors that are already
// typed pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return err
	}

	if errors.Is(err, db.ErrNotFound) {
		return &Error{Kind: KindNotFound, Code: "not_found", Message: err.Error(), Err: err}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return &Error{Kind: KindConflict, Code: "constraint", Message: "persistence constraint violated", Err: err}
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return &Error{Kind: KindConflict, Code: "busy", Message: "storage is busy, retry the operation", Err: err}
		}
	}

	return err
}
