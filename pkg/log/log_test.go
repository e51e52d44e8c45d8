package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	contextPkg "ProjectTryOn/pkg/context"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	l := NewLogger()
	buf := new(bytes.Buffer)
	prev := l.Out
	l.SetOutput(buf)
	t.Cleanup(func() { l.SetOutput(prev) })
	return buf
}

func TestErrorWithTraceIDReusesRequestID(t *testing.T) {
	buf := captureOutput(t)

	traceID := ErrorWithTraceID(Fields{RequestIDKey: "01HZX"}, "boom")
	if traceID != "01HZX" {
		t.Errorf("Expected trace id to reuse request id, got %q", traceID)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("Expected message in output, got %q", buf.String())
	}
}

func TestErrorWithTraceIDGeneratesID(t *testing.T) {
	captureOutput(t)

	traceID := ErrorWithTraceID(nil, "boom")
	if len(traceID) != 36 {
		t.Errorf("Expected a generated uuid trace id, got %q", traceID)
	}
}

func TestWithConnectionID(t *testing.T) {
	captureOutput(t)

	ctx := contextPkg.WithConnectionID(context.Background(), "conn-1")
	if got := WithConnectionID(ctx).Data[ConnectionIDKey]; got != "conn-1" {
		t.Errorf("Expected connection id conn-1, got %v", got)
	}
	if got := WithConnectionID(context.Background()).Data[ConnectionIDKey]; got != "unknown" {
		t.Errorf("Expected unknown connection id, got %v", got)
	}
}
