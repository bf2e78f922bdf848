package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	gogithub "github.com/google/go-github/v68/github"

	llmhttp "github.com/reviewbotdev/reviewbot/internal/adapter/llm/http"
)

// providerName identifies this adapter in typed errors.
const providerName = "github"

// mapAPIError converts go-github SDK errors into typed errors so the retry
// policy can distinguish transient failures from permanent ones.
func mapAPIError(operation string, err error) error {
	if err == nil {
		return nil
	}

	// Primary and secondary rate limits carry their own error types.
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return llmhttp.NewRateLimitError(providerName,
			fmt.Sprintf("%s: rate limit exceeded, resets at %s", operation, rateErr.Rate.Reset.Format("15:04:05")))
	}

	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return llmhttp.NewRateLimitError(providerName,
			fmt.Sprintf("%s: secondary rate limit exceeded", operation))
	}

	var ghErr *gogithub.ErrorResponse
	if errors.As(err, &ghErr) {
		return mapStatusError(operation, ghErr)
	}

	return classifyTransportError(operation, err)
}

// mapStatusError maps an API error response to a typed error by status code.
func mapStatusError(operation string, ghErr *gogithub.ErrorResponse) error {
	status := 0
	if ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	}

	message := fmt.Sprintf("%s: %s", operation, errorDetail(ghErr))

	switch status {
	case http.StatusUnauthorized:
		return llmhttp.NewAuthenticationError(providerName, message)

	case http.StatusForbidden:
		// 403 covers both missing scopes and exhausted rate limits. The
		// rate limit case is retryable after the window resets.
		if isRateLimited(ghErr) {
			return llmhttp.NewRateLimitError(providerName, message)
		}
		return llmhttp.NewAuthenticationError(providerName, message)

	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return llmhttp.NewInvalidRequestError(providerName, message)

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return llmhttp.NewServiceUnavailableError(providerName, message)

	default:
		return llmhttp.ErrorFromStatus(providerName, status, message)
	}
}

// isRateLimited reports whether a 403 response is a rate limit rather than
// a permissions problem.
func isRateLimited(ghErr *gogithub.ErrorResponse) bool {
	if ghErr.Response != nil && ghErr.Response.Header.Get("X-RateLimit-Remaining") == "0" {
		return true
	}
	return strings.Contains(strings.ToLower(ghErr.Message), "rate limit")
}

// errorDetail flattens an API error response into a single message,
// including per-field validation errors when present.
func errorDetail(ghErr *gogithub.ErrorResponse) string {
	if len(ghErr.Errors) == 0 {
		return ghErr.Message
	}

	details := make([]string, 0, len(ghErr.Errors))
	for _, e := range ghErr.Errors {
		switch {
		case e.Message != "":
			details = append(details, e.Message)
		case e.Field != "":
			details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Code))
		}
	}

	if len(details) == 0 {
		return ghErr.Message
	}
	return fmt.Sprintf("%s (%s)", ghErr.Message, strings.Join(details, "; "))
}

// classifyTransportError types network-level failures. Cancellation is
// passed through untyped so it is never retried.
func classifyTransportError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return llmhttp.NewTimeoutError(providerName, fmt.Sprintf("%s: request timed out", operation))
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return llmhttp.NewTimeoutError(providerName, fmt.Sprintf("%s: %s", operation, llmhttp.RedactURLSecrets(err.Error())))
	}

	return llmhttp.NewServiceUnavailableError(providerName, fmt.Sprintf("%s: %s", operation, llmhttp.RedactURLSecrets(err.Error())))
}
