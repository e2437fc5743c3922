package logging_test

import (
	"context"
	"testing"

	"github.com/yaklabco/mdstream/internal/logging"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns attached logger", func(t *testing.T) {
		t.Parallel()

		attached := logging.New("error")
		ctx := logging.WithLogger(context.Background(), attached)

		if logging.FromContext(ctx) != attached {
			t.Error("FromContext did not return the attached logger")
		}
	})

	t.Run("falls back to default", func(t *testing.T) {
		t.Parallel()

		if logging.FromContext(context.Background()) != logging.Default() {
			t.Error("FromContext without attachment did not return the default")
		}
	})

	t.Run("nil context falls back to default", func(t *testing.T) {
		t.Parallel()

		//nolint:staticcheck // Exercising the nil-context fallback.
		if logging.FromContext(nil) != logging.Default() {
			t.Error("FromContext(nil) did not return the default")
		}
	})
}

func TestWithLoggerNilContext(t *testing.T) {
	t.Parallel()

	attached := logging.New("warn")
	//nolint:staticcheck // Exercising the nil-context fallback.
	ctx := logging.WithLogger(nil, attached)

	if logging.FromContext(ctx) != attached {
		t.Error("WithLogger(nil, ...) did not carry the logger")
	}
}
