// Package apperr defines the request-failure taxonomy. Every category is
// surfaced to clients as HTTP 400 with a single human-readable message;
// the kinds exist so tests and audit events can tell failures apart.
package apperr

import "errors"

type Kind string

const (
	KindValidation     Kind = "VALIDATION"
	KindConflict       Kind = "CONFLICT"
	KindNotFound       Kind = "NOT_FOUND"
	KindSelfTarget     Kind = "SELF_TARGET"
	KindFriendNotFound Kind = "FRIEND_NOT_FOUND"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) error     { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) error       { return &Error{Kind: KindConflict, Message: msg} }
func NotFound(msg string) error       { return &Error{Kind: KindNotFound, Message: msg} }
func SelfTarget(msg string) error     { return &Error{Kind: KindSelfTarget, Message: msg} }
func FriendNotFound(msg string) error { return &Error{Kind: KindFriendNotFound, Message: msg} }

// As extracts an *Error if err belongs to the taxonomy.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
