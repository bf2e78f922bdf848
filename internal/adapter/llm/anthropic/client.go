package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reviewbotdev/reviewbot/internal/adapter/llm"
	llmhttp "github.com/reviewbotdev/reviewbot/internal/adapter/llm/http"
	"github.com/reviewbotdev/reviewbot/internal/config"
	"github.com/reviewbotdev/reviewbot/internal/domain"
)

const (
	defaultBaseURL          = "https://api.anthropic.com"
	defaultTimeout          = 60 * time.Second
	defaultAnthropicVersion = "2023-06-01"
)

// HTTPClient is an HTTP client for the Anthropic API.
type HTTPClient struct {
	apiKey      string
	model       string
	baseURL     string
	timeout     time.Duration
	retryConfig llmhttp.RetryConfig
	client      *http.Client

	temperature float64

	logger  llmhttp.Logger
	metrics llmhttp.Metrics
	pricing llmhttp.Pricing
}

// NewHTTPClient creates a new Anthropic HTTP client. Timeout and retry
// behaviour come from the provider config, falling back to the global
// HTTP config.
func NewHTTPClient(apiKey, model string, providerCfg config.ProviderConfig, httpCfg config.HTTPConfig) *HTTPClient {
	timeout := llmhttp.ParseTimeout(providerCfg.Timeout, httpCfg.Timeout, defaultTimeout)
	return &HTTPClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     defaultBaseURL,
		timeout:     timeout,
		retryConfig: llmhttp.BuildRetryConfig(providerCfg, httpCfg),
		client:      &http.Client{Timeout: timeout},
	}
}

// SetBaseURL sets a custom base URL (for testing).
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = url
}

// SetTimeout sets the HTTP timeout.
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
	c.client.Timeout = timeout
}

// SetLogger attaches a logger for request/response logging.
func (c *HTTPClient) SetLogger(logger llmhttp.Logger) {
	c.logger = logger
}

// SetMetrics attaches a metrics collector.
func (c *HTTPClient) SetMetrics(metrics llmhttp.Metrics) {
	c.metrics = metrics
}

// SetPricing attaches a pricing calculator for cost reporting.
func (c *HTTPClient) SetPricing(pricing llmhttp.Pricing) {
	c.pricing = pricing
}

// SetDeterminism overrides the sampling temperature for review calls.
// The Messages API has no seed parameter, so useSeed is ignored here.
func (c *HTTPClient) SetDeterminism(temperature float64, useSeed bool) {
	c.temperature = temperature
}

// CallOptions contains options for the API call.
type CallOptions struct {
	Temperature float64
	MaxTokens   int
	System      string
}

// APIResponse represents the parsed response from the API.
type APIResponse struct {
	Text       string
	TokensIn   int
	TokensOut  int
	Cost       float64
	Model      string
	StopReason string
}

// Call makes a request to the Anthropic Messages API.
func (c *HTTPClient) Call(ctx context.Context, prompt string, options CallOptions) (*APIResponse, error) {
	reqBody := MessagesRequest{
		Model: c.model,
		Messages: []Message{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: options.MaxTokens,
	}

	if options.System != "" {
		reqBody.System = options.System
	} else {
		reqBody.System = "You are a code review assistant. Analyze the code and provide feedback in JSON format."
	}

	// Temperature is sent through a pointer so an explicit 0.0 survives
	// marshalling; omitting it would leave the API default of 1.0.
	temp := options.Temperature
	reqBody.Temperature = &temp

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	if c.logger != nil {
		c.logger.LogRequest(ctx, llmhttp.RequestLog{
			Provider:    providerName,
			Model:       c.model,
			Timestamp:   start,
			PromptChars: len(prompt),
			APIKey:      c.apiKey,
		})
	}
	if c.metrics != nil {
		c.metrics.RecordRequest(providerName, c.model)
	}

	url := c.baseURL + "/v1/messages"

	var response *APIResponse
	operation := func(ctx context.Context) error {
		// Rebuild the request each attempt; the body reader is consumed on use
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if reqErr != nil {
			return fmt.Errorf("failed to create request: %w", reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", defaultAnthropicVersion)

		resp, callErr := c.client.Do(req)
		if callErr != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return llmhttp.NewTimeoutError(providerName, "request timed out")
			}
			return llmhttp.NewTimeoutError(providerName, llmhttp.RedactURLSecrets(callErr.Error()))
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("failed to read response: %w", readErr)
		}

		if resp.StatusCode != http.StatusOK {
			return c.handleErrorResponse(resp.StatusCode, body)
		}

		var messagesResp MessagesResponse
		if err := json.Unmarshal(body, &messagesResp); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if len(messagesResp.Content) == 0 {
			return fmt.Errorf("no content in response")
		}

		var textParts []string
		for _, block := range messagesResp.Content {
			if block.Type == "text" {
				textParts = append(textParts, block.Text)
			}
		}

		response = &APIResponse{
			Text:       strings.Join(textParts, ""),
			TokensIn:   messagesResp.Usage.InputTokens,
			TokensOut:  messagesResp.Usage.OutputTokens,
			Model:      messagesResp.Model,
			StopReason: messagesResp.StopReason,
		}
		return nil
	}

	if err := llmhttp.RetryWithBackoff(ctx, operation, c.retryConfig); err != nil {
		c.observeError(ctx, start, err)
		return nil, err
	}

	response.Cost = c.costFor(response.TokensIn, response.TokensOut)
	c.observeResponse(ctx, start, response)
	return response, nil
}

// handleErrorResponse converts HTTP error responses to typed errors.
// 529 is Anthropic's overloaded status and is retryable.
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)

	// Try to parse Anthropic error format for a better message
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	} else if len(body) > 0 && len(body) < 200 {
		// Short non-JSON bodies are usually proxy error text
		message = string(body)
	}

	return llmhttp.ErrorFromStatus(providerName, statusCode, message)
}

func (c *HTTPClient) observeResponse(ctx context.Context, start time.Time, resp *APIResponse) {
	duration := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordDuration(providerName, c.model, duration)
		c.metrics.RecordTokens(providerName, c.model, resp.TokensIn, resp.TokensOut)
		c.metrics.RecordCost(providerName, c.model, resp.Cost)
	}
	if c.logger != nil {
		c.logger.LogResponse(ctx, llmhttp.ResponseLog{
			Provider:     providerName,
			Model:        resp.Model,
			Timestamp:    time.Now(),
			Duration:     duration,
			TokensIn:     resp.TokensIn,
			TokensOut:    resp.TokensOut,
			Cost:         resp.Cost,
			StatusCode:   http.StatusOK,
			FinishReason: resp.StopReason,
		})
	}
}

func (c *HTTPClient) observeError(ctx context.Context, start time.Time, err error) {
	errType := llmhttp.ErrTypeUnknown
	statusCode := 0
	retryable := false

	var llmErr *llmhttp.Error
	if errors.As(err, &llmErr) {
		errType = llmErr.Type
		statusCode = llmErr.StatusCode
		retryable = llmErr.Retryable
	}

	if c.metrics != nil {
		c.metrics.RecordError(providerName, c.model, errType)
	}
	if c.logger != nil {
		c.logger.LogError(ctx, llmhttp.ErrorLog{
			Provider:   providerName,
			Model:      c.model,
			Timestamp:  time.Now(),
			Duration:   time.Since(start),
			Error:      err,
			ErrorType:  errType,
			StatusCode: statusCode,
			Retryable:  retryable,
		})
	}
}

// costFor computes the USD cost for a call; zero when no pricing is attached.
func (c *HTTPClient) costFor(tokensIn, tokensOut int) float64 {
	if c.pricing == nil {
		return 0
	}
	return c.pricing.GetCost(providerName, c.model, tokensIn, tokensOut)
}

// CreateReview implements the Client interface for the Provider.
// The Messages API has no seed parameter, so req.Seed is not forwarded
// and determinism rests on the temperature alone.
func (c *HTTPClient) CreateReview(ctx context.Context, req Request) (llm.ProviderResponse, error) {
	apiResp, err := c.Call(ctx, req.Prompt, CallOptions{
		Temperature: c.temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return llm.ProviderResponse{}, fmt.Errorf("anthropic: %w", err)
	}

	usage := llm.UsageMetadata{
		TokensIn:  apiResp.TokensIn,
		TokensOut: apiResp.TokensOut,
		Cost:      apiResp.Cost,
	}

	summary, findings, err := llmhttp.ParseReviewResponse(apiResp.Text)
	if err != nil {
		// Unparseable responses degrade to a plain text summary
		return llm.ProviderResponse{
			Model:    apiResp.Model,
			Summary:  apiResp.Text,
			Findings: []domain.Finding{},
			Usage:    usage,
		}, nil
	}

	return llm.ProviderResponse{
		Model:    apiResp.Model,
		Summary:  summary,
		Findings: findings,
		Usage:    usage,
	}, nil
}

// Close cleans up resources.
func (c *HTTPClient) Close() error {
	// HTTP client doesn't need cleanup
	return nil
}
