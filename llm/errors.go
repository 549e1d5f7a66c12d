package llm

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Provider failure classes, distinguishable so the orchestrator can decide
// what is retryable (only rate limits are).
var (
	// ErrAuth means the provider rejected the credentials.
	ErrAuth = errors.New("provider rejected the API key")
	// ErrRateLimited means the provider throttled the request.
	ErrRateLimited = errors.New("provider rate limit exceeded")
	// ErrUnavailable covers transport failures and server-side errors.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrInvalidModel means the provider did not accept the model or request.
	ErrInvalidModel = errors.New("provider rejected the model or request")
	// ErrUnknownModel means no provider could be inferred from the model name.
	ErrUnknownModel = errors.New("cannot infer provider from model name")
)

// MissingKeyError reports an unset API-key environment variable. It is
// raised at resolution time, before any network call.
type MissingKeyError struct {
	Provider Identity
	Var      string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("provider %s requires the %s environment variable", e.Provider, e.Var)
}

// classifyStatus maps an HTTP status from a provider response to one of the
// failure classes.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuth
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusNotFound || status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrInvalidModel
	case status >= 500:
		return ErrUnavailable
	default:
		return ErrUnavailable
	}
}

// wrapStatus attaches the failure class for status while keeping the
// provider's own message.
func wrapStatus(status int, cause error) error {
	return errors.Wrap(classifyStatus(status), cause.Error())
}
