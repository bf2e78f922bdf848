package openai

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
	defaultBaseURL = "https://api.openai.com"
	defaultTimeout = 60 * time.Second
)

// isO1Model returns true if the model is an o-series reasoning model.
// These models have different API requirements:
// - Use max_completion_tokens instead of max_tokens
// - Don't support temperature, seed, or response_format
func isO1Model(model string) bool {
	m := strings.ToLower(model)
	return strings.HasPrefix(m, "o1") || strings.HasPrefix(m, "o3") || strings.HasPrefix(m, "o4")
}

// HTTPClient is an HTTP client for the OpenAI API.
type HTTPClient struct {
	apiKey      string
	model       string
	baseURL     string
	timeout     time.Duration
	retryConfig llmhttp.RetryConfig
	client      *http.Client

	temperature float64
	useSeed     bool

	logger  llmhttp.Logger
	metrics llmhttp.Metrics
	pricing llmhttp.Pricing
}

// NewHTTPClient creates a new OpenAI HTTP client. Timeout and retry
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
		useSeed:     true,
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

// SetDeterminism overrides the sampling temperature and seed usage for
// review calls. The default is temperature 0 with a seed derived from the
// change under review.
func (c *HTTPClient) SetDeterminism(temperature float64, useSeed bool) {
	c.temperature = temperature
	c.useSeed = useSeed
}

// CallOptions contains options for the API call.
type CallOptions struct {
	Temperature float64
	Seed        *uint64
	MaxTokens   int
}

// APIResponse represents the parsed response from the API.
type APIResponse struct {
	Text         string
	TokensIn     int
	TokensOut    int
	Cost         float64
	Model        string
	FinishReason string
}

// Call makes a request to the OpenAI Chat Completion API.
func (c *HTTPClient) Call(ctx context.Context, prompt string, options CallOptions) (*APIResponse, error) {
	reqBody := ChatCompletionRequest{
		Model: c.model,
		Messages: []Message{
			{
				Role:    "system",
				Content: "You are a code review assistant. Analyze the code and provide feedback in JSON format.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
	}

	// o-series models have different API requirements
	isO1 := isO1Model(c.model)

	// Set token limits
	if options.MaxTokens > 0 {
		if isO1 {
			reqBody.MaxCompletionTokens = options.MaxTokens
		} else {
			reqBody.MaxTokens = options.MaxTokens
		}
	}

	// o-series models don't support temperature, seed, or response_format.
	// Temperature is sent through a pointer so an explicit 0.0 survives
	// marshalling; omitting it would leave the API default of 1.0.
	if !isO1 {
		temp := options.Temperature
		reqBody.Temperature = &temp
		reqBody.Seed = options.Seed
	}

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

	url := c.baseURL + "/v1/chat/completions"

	var response *APIResponse
	operation := func(ctx context.Context) error {
		// Rebuild the request each attempt; the body reader is consumed on use
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if reqErr != nil {
			return fmt.Errorf("failed to create request: %w", reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

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

		var chatResp ChatCompletionResponse
		if err := json.Unmarshal(body, &chatResp); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if len(chatResp.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}

		response = &APIResponse{
			Text:         chatResp.Choices[0].Message.Content,
			TokensIn:     chatResp.Usage.PromptTokens,
			TokensOut:    chatResp.Usage.CompletionTokens,
			Model:        chatResp.Model,
			FinishReason: chatResp.Choices[0].FinishReason,
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
func (c *HTTPClient) handleErrorResponse(statusCode int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", statusCode)

	// Try to parse OpenAI error format for a better message
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
			FinishReason: resp.FinishReason,
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
func (c *HTTPClient) CreateReview(ctx context.Context, req Request) (llm.ProviderResponse, error) {
	opts := CallOptions{
		Temperature: c.temperature,
		MaxTokens:   req.MaxTokens,
	}
	if c.useSeed {
		opts.Seed = &req.Seed
	}

	apiResp, err := c.Call(ctx, req.Prompt, opts)
	if err != nil {
		return llm.ProviderResponse{}, err
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
