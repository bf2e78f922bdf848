package http

import (
	"fmt"
	"regexp"
)

// MaxLoggedResponseLength caps how much of a response body reaches the logs.
// Model output echoes user source code, which may contain secrets.
const MaxLoggedResponseLength = 200

// urlSecretPattern matches sensitive query parameters (key=, apiKey=,
// api_key=, token=, access_token=) so their values can be stripped from
// logged URLs.
var urlSecretPattern = regexp.MustCompile(`(?i)\b(access_token|api_key|apikey|token|key)=([^&"\s]+)`)

// TruncateForLogging cuts text down to MaxLoggedResponseLength, noting the
// original size so a truncated log line is recognizable as such.
func TruncateForLogging(response string) string {
	if len(response) <= MaxLoggedResponseLength {
		return response
	}
	return fmt.Sprintf("%s... [truncated, total length=%d bytes]",
		response[:MaxLoggedResponseLength], len(response))
}

// RedactURLSecrets strips API keys and other secrets from URLs embedded in
// error text. HTTP client errors include the request URL, and some providers
// carry credentials in query parameters.
//
// Example:
//
//	input:  "https://api.example.com/endpoint?key=secret123&foo=bar"
//	output: "https://api.example.com/endpoint?key=[REDACTED]&foo=bar"
func RedactURLSecrets(text string) string {
	if text == "" {
		return text
	}
	return urlSecretPattern.ReplaceAllString(text, "$1=[REDACTED]")
}
