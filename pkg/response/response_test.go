package response

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrapKeepsIdentity(t *testing.T) {
	base := NewError(http.StatusBadRequest, "decode_failed")
	cause := errors.New("illegal base64 data at input byte 4")

	err := Wrap(base, cause)
	if !errors.Is(err, base) {
		t.Error("Expected wrapped error to match its base")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected wrapped error to expose its cause")
	}
	if err.Error() != cause.Error() {
		t.Errorf("Expected cause message, got %q", err.Error())
	}

	var respErr *Error
	if !errors.As(err, &respErr) || respErr.Tag != "decode_failed" || respErr.Code != http.StatusBadRequest {
		t.Errorf("Expected tag and code to be preserved, got %+v", respErr)
	}
}

func TestIsDistinguishesTags(t *testing.T) {
	a := NewError(http.StatusBadRequest, "no_image")
	b := NewError(http.StatusBadRequest, "decode_failed")
	if errors.Is(a, b) {
		t.Error("Expected errors with different tags to differ")
	}
}

func TestWrapNonResponseBase(t *testing.T) {
	cause := errors.New("cause")
	if got := Wrap(errors.New("plain"), cause); got != cause {
		t.Errorf("Expected cause to be returned unchanged, got %v", got)
	}
}
