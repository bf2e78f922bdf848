package http

import (
	"fmt"
	stdhttp "net/http"
)

// ErrorType classifies provider API failures so retry and reporting logic
// can react without parsing message text.
type ErrorType int

const (
	ErrTypeAuthentication ErrorType = iota
	ErrTypeRateLimit
	ErrTypeServiceUnavailable
	ErrTypeInvalidRequest
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeContentFiltered
	ErrTypeUnknown
)

var errorTypeNames = map[ErrorType]string{
	ErrTypeAuthentication:     "authentication error",
	ErrTypeRateLimit:          "rate limit exceeded",
	ErrTypeServiceUnavailable: "service unavailable",
	ErrTypeInvalidRequest:     "invalid request",
	ErrTypeTimeout:            "timeout",
	ErrTypeModelNotFound:      "model not found",
	ErrTypeContentFiltered:    "content filtered",
}

func (t ErrorType) String() string {
	if name, ok := errorTypeNames[t]; ok {
		return name
	}
	return "unknown error"
}

// Error is the uniform error shape every provider client returns. It is
// shared by the LLM clients and the GitHub adapter so one retry policy
// covers both.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Retryable  bool
	Provider   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s (status: %d)", e.Provider, e.Type, e.Message, e.StatusCode)
}

// Is matches any Error of the same type, so callers can probe with
// errors.Is without caring about provider or message.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && e.Type == other.Type
}

// IsRetryable reports whether another attempt at the same request could
// plausibly succeed.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

func newError(t ErrorType, provider, message string, status int, retryable bool) *Error {
	return &Error{Type: t, Message: message, StatusCode: status, Retryable: retryable, Provider: provider}
}

// NewAuthenticationError reports a rejected or missing API key.
func NewAuthenticationError(provider, message string) *Error {
	return newError(ErrTypeAuthentication, provider, message, stdhttp.StatusUnauthorized, false)
}

// NewRateLimitError reports request throttling by the provider.
func NewRateLimitError(provider, message string) *Error {
	return newError(ErrTypeRateLimit, provider, message, stdhttp.StatusTooManyRequests, true)
}

// NewServiceUnavailableError reports a provider outage or overload.
func NewServiceUnavailableError(provider, message string) *Error {
	return newError(ErrTypeServiceUnavailable, provider, message, stdhttp.StatusServiceUnavailable, true)
}

// NewInvalidRequestError reports a request the provider refused to process.
func NewInvalidRequestError(provider, message string) *Error {
	return newError(ErrTypeInvalidRequest, provider, message, stdhttp.StatusBadRequest, false)
}

// NewTimeoutError reports a request that ran out of time. The status code
// is zero because client-side timeouts never see a response.
func NewTimeoutError(provider, message string) *Error {
	return newError(ErrTypeTimeout, provider, message, 0, true)
}

// NewModelNotFoundError reports a model name the provider does not serve.
func NewModelNotFoundError(provider, message string) *Error {
	return newError(ErrTypeModelNotFound, provider, message, stdhttp.StatusNotFound, false)
}

// NewContentFilteredError reports a response blocked by the provider's
// safety system.
func NewContentFilteredError(provider, message string) *Error {
	return newError(ErrTypeContentFiltered, provider, message, stdhttp.StatusBadRequest, false)
}

// statusErrors maps provider HTTP status codes onto error classifications.
// 529 is Anthropic's non-standard overloaded signal.
var statusErrors = map[int]struct {
	errType   ErrorType
	retryable bool
}{
	stdhttp.StatusUnauthorized:        {ErrTypeAuthentication, false},
	stdhttp.StatusForbidden:           {ErrTypeAuthentication, false},
	stdhttp.StatusTooManyRequests:     {ErrTypeRateLimit, true},
	stdhttp.StatusNotFound:            {ErrTypeModelNotFound, false},
	stdhttp.StatusBadRequest:          {ErrTypeInvalidRequest, false},
	stdhttp.StatusUnprocessableEntity: {ErrTypeInvalidRequest, false},
	stdhttp.StatusRequestTimeout:      {ErrTypeTimeout, true},
	stdhttp.StatusGatewayTimeout:      {ErrTypeTimeout, true},
	stdhttp.StatusInternalServerError: {ErrTypeServiceUnavailable, true},
	stdhttp.StatusBadGateway:          {ErrTypeServiceUnavailable, true},
	stdhttp.StatusServiceUnavailable:  {ErrTypeServiceUnavailable, true},
	529:                               {ErrTypeServiceUnavailable, true},
}

// ErrorFromStatus turns an HTTP response status into a typed error. Codes
// the providers are known to emit get a specific classification; anything
// else comes back as ErrTypeUnknown and is never retried.
func ErrorFromStatus(provider string, statusCode int, message string) *Error {
	class, ok := statusErrors[statusCode]
	if !ok {
		return newError(ErrTypeUnknown, provider, message, statusCode, false)
	}
	return newError(class.errType, provider, message, statusCode, class.retryable)
}
