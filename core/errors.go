package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	EngineErrorBadInput        = "WEARABLES_BAD_INPUT"
	EngineErrorHandlerFailed   = "WEARABLES_HANDLER_FAILED"
	EngineErrorToggleFailed    = "WEARABLES_TOGGLE_FAILED"
	EngineErrorHooksChanged    = "WEARABLES_HOOKS_CHANGED"
	EngineErrorHostUnavailable = "WEARABLES_HOST_UNAVAILABLE"
	EngineErrorTimeout         = "WEARABLES_TIMEOUT"
	EngineErrorInternal        = "WEARABLES_INTERNAL_ERROR"
)

var (
	ErrLifecycleHooksChanged     = errors.New("core: lifecycle hooks changed between activations; register hooks as early as possible")
	ErrHostAPIRequired           = errors.New("core: host api is required")
	ErrBackgroundSyncUnsupported = errors.New("core: provider does not support background sync")
	ErrHandlerPanicked           = errors.New("core: lifecycle handler panicked")
)

func engineErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureEngineErrorEnvelope(richErr)
	}

	switch {
	case errors.Is(err, ErrLifecycleHooksChanged):
		return wrapEngineError(err, goerrors.CategoryInternal, EngineErrorHooksChanged)
	case errors.Is(err, ErrHostAPIRequired):
		return wrapEngineError(err, goerrors.CategoryInternal, EngineErrorHostUnavailable)
	case errors.Is(err, ErrBackgroundSyncUnsupported):
		return wrapEngineError(err, goerrors.CategoryOperation, EngineErrorBadInput)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "lifecycle handler"):
		return wrapEngineError(err, goerrors.CategoryExternal, EngineErrorHandlerFailed)
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timed out"):
		return wrapEngineError(err, goerrors.CategoryExternal, EngineErrorTimeout)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "unsupported"):
		return wrapEngineError(err, goerrors.CategoryBadInput, EngineErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureEngineErrorEnvelope(mapped)
}

// wrapEngineError keeps the source error reachable through errors.Is.
func wrapEngineError(err error, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureEngineErrorEnvelope(
		goerrors.Wrap(err, category, err.Error()).
			WithTextCode(textCode),
	)
}

func ensureEngineErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = engineHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultEngineTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultEngineTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return EngineErrorBadInput
	case goerrors.CategoryExternal:
		return EngineErrorToggleFailed
	case goerrors.CategoryOperation:
		return EngineErrorBadInput
	default:
		return EngineErrorInternal
	}
}

func engineHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation, goerrors.CategoryOperation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
