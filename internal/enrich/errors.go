package enrich

import (
	"context"
	"errors"
	"net"

	"google.golang.org/api/googleapi"
)

// Failure sentinels written into a translated field when the call could not
// produce a value. A present sentinel means "attempted and failed", distinct
// from an absent field meaning "not attempted".
const (
	SentinelRateLimited      = "[Rate Limit Exceeded]"
	SentinelTranslationError = "[Translation Error]"
	SentinelFailed           = "[Translation Failed]"
)

// IsTransient classifies a translation call error. Rate limits, server-side
// faults, and network timeouts are expected to resolve on retry; auth and
// malformed-input failures are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 429 || gerr.Code >= 500
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}
	return false
}

// IsRateLimited reports whether err is specifically a rate-limit rejection,
// which gets its own failure sentinel when retries are exhausted.
func IsRateLimited(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 429
}
