package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestEngineErrorMapper(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		textCode string
		status   int
	}{
		{
			name:     "hooks changed",
			err:      fmt.Errorf("%w (expected 1, got 2)", ErrLifecycleHooksChanged),
			textCode: EngineErrorHooksChanged,
			status:   http.StatusInternalServerError,
		},
		{
			name:     "host missing",
			err:      ErrHostAPIRequired,
			textCode: EngineErrorHostUnavailable,
			status:   http.StatusInternalServerError,
		},
		{
			name:     "background sync unsupported",
			err:      fmt.Errorf("%w: fitbit", ErrBackgroundSyncUnsupported),
			textCode: EngineErrorBadInput,
			status:   http.StatusBadRequest,
		},
		{
			name:     "handler failure",
			err:      errors.New(`core: pre-toggle lifecycle handler "x" failed: boom`),
			textCode: EngineErrorHandlerFailed,
			status:   http.StatusBadGateway,
		},
		{
			name:     "timeout",
			err:      errors.New("core: call timed out after 1s: context deadline exceeded"),
			textCode: EngineErrorTimeout,
			status:   http.StatusBadGateway,
		},
		{
			name:     "bad input",
			err:      errors.New("core: provider id is required"),
			textCode: EngineErrorBadInput,
			status:   http.StatusBadRequest,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := engineErrorMapper(tc.err)
			if mapped == nil {
				t.Fatalf("expected mapped error")
			}
			if mapped.TextCode != tc.textCode {
				t.Fatalf("expected text code %s, got %s", tc.textCode, mapped.TextCode)
			}
			if mapped.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, mapped.Code)
			}
			if !errors.Is(mapped, tc.err) {
				t.Fatalf("expected source to stay reachable")
			}
		})
	}
}

func TestEngineErrorMapper_PassesRichErrorsThrough(t *testing.T) {
	rich := goerrors.New("already mapped", goerrors.CategoryNotFound)
	mapped := engineErrorMapper(fmt.Errorf("wrap: %w", rich))
	if mapped != rich {
		t.Fatalf("expected existing envelope to be reused")
	}
	if mapped.Code != http.StatusNotFound || mapped.TextCode != EngineErrorInternal {
		t.Fatalf("expected envelope defaults to be filled, got %d %s", mapped.Code, mapped.TextCode)
	}
}

func TestEngineErrorMapper_Nil(t *testing.T) {
	if engineErrorMapper(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
