package response

import (
	"errors"
)

// Error is a domain error that knows how it should be reported to a client: the HTTP
// status for one-shot requests and the short tag sent as {"error": tag}.
type Error struct {
	Code int
	Tag  string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Tag == t.Tag
}

func NewError(code int, tag string) error {
	return &Error{Code: code, Tag: tag, Err: errors.New(tag)}
}

// Wrap keeps code and tag of base while carrying the underlying cause.
func Wrap(base error, cause error) error {
	var b *Error
	if !errors.As(base, &b) {
		return cause
	}
	return &Error{Code: b.Code, Tag: b.Tag, Err: cause}
}
