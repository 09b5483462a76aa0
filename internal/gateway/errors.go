package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/MrWong99/wordsmith/internal/resilience"
	"github.com/MrWong99/wordsmith/pkg/provider/llm"
)

// ErrNoCredential is wrapped in a [ConfigurationError] when neither the
// environment nor the local store holds a usable key.
var ErrNoCredential = errors.New("gateway: no credential configured")

// ErrEmptyPrompt is returned by [Gateway.Invoke] for a blank prompt.
var ErrEmptyPrompt = errors.New("gateway: prompt must not be empty")

// ErrEmptyReply is the failure recorded when a backend answers with no text.
var ErrEmptyReply = errors.New("gateway: model returned an empty reply")

// ErrorClass is the gateway's coarse classification of a model failure.
type ErrorClass int

const (
	// ClassNetworkOrOther covers transport failures and anything that cannot
	// be classified more precisely. Not retried.
	ClassNetworkOrOther ErrorClass = iota

	// ClassOverloaded is a transient capacity or quota signal. Retried.
	ClassOverloaded

	// ClassInvalidKey means the backend rejected the credential. Not retried.
	ClassInvalidKey
)

// String returns the snake_case class name used in logs and metrics.
func (c ErrorClass) String() string {
	switch c {
	case ClassOverloaded:
		return "overloaded"
	case ClassInvalidKey:
		return "invalid_key"
	default:
		return "network_or_other"
	}
}

// ModelError is the terminal failure of a gateway invocation.
type ModelError struct {
	// Class of the last failure.
	Class ErrorClass

	// Tier the last attempt was sent to.
	Tier Tier

	// Attempts is the number of model calls made.
	Attempts int

	Err error
}

// Error implements error.
func (e *ModelError) Error() string {
	return fmt.Sprintf("gateway: %s on %s tier after %d attempt(s): %v", e.Class, e.Tier, e.Attempts, e.Err)
}

// Unwrap returns the underlying failure.
func (e *ModelError) Unwrap() error { return e.Err }

// ConfigurationError reports that no model client could be built: either no
// credential is available or the configured provider cannot be constructed.
// No model call was made.
type ConfigurationError struct {
	Err error
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("gateway: configuration: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Signals inspected when no structured status is available. Matching is
// case-insensitive. Status codes only count as whole tokens, so byte counts
// and host names such as "503.example.com" do not match.
var (
	overloadSignals = []string{
		"overloaded", "unavailable", "resource_exhausted",
		"resource exhausted", "quota", "rate limit", "too many requests",
	}
	keySignals = []string{
		"api key", "api_key", "apikey", "permission denied", "permission_denied",
		"unauthenticated", "unauthorized",
	}

	overloadCodes = statusCodes("503", "429")
	keyCodes      = statusCodes("401", "403")
)

// statusCodes matches any of codes standing alone: not inside a longer
// number, identifier, host name or version string. A trailing sentence
// period is allowed.
func statusCodes(codes ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\w.-])(?:` + strings.Join(codes, "|") + `)(?:$|[^\w.-]|\.(?:\s|$))`)
}

// Classify maps a model failure to an [ErrorClass].
//
// Structured status codes from *llm.StatusError are consulted first; message
// inspection is a best-effort fallback for backends that expose no status.
// Anything unrecognised degrades to [ClassNetworkOrOther], so a change in a
// provider's wording costs a retry but never a crash.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNetworkOrOther
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return ClassOverloaded
	}

	var se *llm.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusServiceUnavailable, http.StatusTooManyRequests, 529:
			return ClassOverloaded
		case http.StatusUnauthorized, http.StatusForbidden:
			return ClassInvalidKey
		}
		switch strings.ToUpper(se.Status) {
		case "UNAVAILABLE", "RESOURCE_EXHAUSTED":
			return ClassOverloaded
		case "UNAUTHENTICATED", "PERMISSION_DENIED":
			return ClassInvalidKey
		}
		// Gemini reports a bad key as 400 INVALID_ARGUMENT.
		if se.Code == http.StatusBadRequest && containsAny(strings.ToLower(se.Error()), keySignals[:3]) {
			return ClassInvalidKey
		}
		return ClassNetworkOrOther
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassNetworkOrOther
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassNetworkOrOther
	}

	msg := strings.ToLower(err.Error())
	switch {
	case overloadCodes.MatchString(msg) || containsAny(msg, overloadSignals):
		return ClassOverloaded
	case keyCodes.MatchString(msg) || containsAny(msg, keySignals):
		return ClassInvalidKey
	}
	return ClassNetworkOrOther
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
