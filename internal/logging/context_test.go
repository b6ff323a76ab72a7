package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/yaklabco/richdraft/internal/logging"
)

func TestContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewService(&buf, "info", logging.FormatLogfmt)

	ctx := logging.WithLogger(context.Background(), logger)
	if logging.FromContext(ctx) != logger {
		t.Fatal("FromContext did not return the stored logger")
	}

	ctx = logging.With(ctx, logging.FieldRequestID, "abc")
	logging.FromContext(ctx).Info("handled")

	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Errorf("output %q is missing the request id", buf.String())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // nil context is handled
	if logging.FromContext(nil) == nil {
		t.Fatal("expected the default logger")
	}
	if logging.FromContext(context.Background()) == nil {
		t.Fatal("expected the default logger")
	}
}
