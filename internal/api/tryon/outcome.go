package tryon

import (
	"fmt"

	"ProjectTryOn/pkg/anchor"
)

type FailureKind string

const (
	KindNoImage      FailureKind = "no_image"
	KindDecodeFailed FailureKind = "decode_failed"
	KindUnexpected   FailureKind = "unexpected"
)

// FrameError is a per-frame failure. It is reported to the client and never ends the
// connection.
type FrameError struct {
	Kind    FailureKind
	Message string
}

func (e *FrameError) Error() string {
	if e.Kind == KindUnexpected {
		return e.Message
	}
	return string(e.Kind)
}

// Outcome is the result of handling one client message. Exactly one of Anchors and
// Failure is set.
type Outcome struct {
	Anchors *anchor.Result
	Failure *FrameError
}

func Success(r *anchor.Result) Outcome {
	return Outcome{Anchors: r}
}

func Failure(kind FailureKind, message string) Outcome {
	return Outcome{Failure: &FrameError{Kind: kind, Message: message}}
}

func Unexpected(err error) Outcome {
	return Failure(KindUnexpected, err.Error())
}

func Recovered(r interface{}) Outcome {
	return Failure(KindUnexpected, fmt.Sprintf("%v", r))
}

// Response is the value serialized back to the client for this outcome.
func (o Outcome) Response() interface{} {
	if o.Failure != nil {
		return ErrorResponse{Error: o.Failure.Error()}
	}
	return NewAnchorResponse(o.Anchors)
}
