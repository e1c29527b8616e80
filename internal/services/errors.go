package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTimeout marks a provider request that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrQuotaExceeded marks a provider quota or rate-limit rejection.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrAuthentication marks missing or rejected provider credentials.
	ErrAuthentication = errors.New("authentication error")
	// ErrValidation marks input the provider or stage refused to accept.
	ErrValidation = errors.New("validation error")
	// ErrProviderFailure is the catch-all marker for provider failures that
	// do not fit a more specific category.
	ErrProviderFailure = errors.New("provider failure")
	// ErrConfiguration marks construction-time failures (missing credentials,
	// uninitializable clients). The registry recovers these via mock fallback.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProviderFailure
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an arbitrary error to the taxonomy marker it carries. Errors
// without a marker, including raw context deadline errors, are normalized so
// callers never see implementation-specific failure types.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout):
		return ErrTimeout
	case errors.Is(err, ErrQuotaExceeded):
		return ErrQuotaExceeded
	case errors.Is(err, ErrAuthentication):
		return ErrAuthentication
	case errors.Is(err, ErrValidation):
		return ErrValidation
	case errors.Is(err, ErrConfiguration):
		return ErrConfiguration
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return ErrProviderFailure
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
