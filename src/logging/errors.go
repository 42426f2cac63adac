package logging

import (
	"context"
	"errors"
	"strings"
)

// IsRateLimit reports whether err looks like an upstream throttling response.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}

// IsCanceled reports whether err came from a canceled or expired context.
// Such errors are the caller walking away and are not worth reporting.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
