// Package aiclient is a resilient client for an OpenAI-compatible
// chat-completions endpoint. It retries transient upstream failures with
// exponential backoff and normalizes the multimodal response shapes the
// proxy is known to produce.
package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/darijapress/darijapress/internal/logger"
)

const (
	// DefaultMaxRetries is the number of additional attempts after the first.
	DefaultMaxRetries = 3
	// DefaultTimeout bounds one chat-completion round trip. Generation calls
	// routinely take minutes on the free proxy.
	DefaultTimeout = 240 * time.Second

	maxBackoff         = 30 * time.Second
	imageFetchTimeout  = 30 * time.Second
	errBodyPreviewSize = 800
)

// UpstreamError describes a failed call to the AI endpoint.
type UpstreamError struct {
	Status    int
	Body      string
	Retryable bool
	Err       error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ai upstream: %v", e.Err)
	}
	return fmt.Sprintf("ai upstream: status %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Config holds client construction options.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	httpClient *http.Client
	// imageClient uses a short timeout; illustration URLs are fetched
	// opportunistically and must not stall the pipeline.
	imageClient *http.Client
	logger      logger.Logger

	// sleep is swapped out in tests to observe the backoff schedule.
	sleep func(ctx context.Context, d time.Duration) error
	// onRetry, when set, is called once per retried attempt.
	onRetry func()
}

// SetRetryObserver registers a callback invoked on every retried attempt.
// Not safe to call concurrently with Chat.
func (c *Client) SetRetryObserver(obs func()) {
	c.onRetry = obs
}

// NewClient creates a Client from config.
func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		maxRetries:  cfg.MaxRetries,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		imageClient: &http.Client{Timeout: imageFetchTimeout},
		logger:      log,
		sleep:       sleepWithContext,
	}
}

// Chat posts the request and returns the decoded response. It retries on
// HTTP 429, any 5xx, and transport failures; any other 4xx fails
// immediately since it indicates a malformed request, not a transient
// condition. A syntactically unparseable success body decodes to an empty
// response rather than an error; callers treat empty output as a soft
// failure and decide whether to retry the business operation.
func (c *Client) Chat(ctx context.Context, req *Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	var lastErr *UpstreamError
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, callErr := c.post(ctx, payload)
		if callErr == nil {
			return resp, nil
		}

		if !callErr.Retryable {
			return nil, callErr
		}
		lastErr = callErr

		if attempt >= c.maxRetries {
			break
		}

		if c.onRetry != nil {
			c.onRetry()
		}

		wait := backoffDelay(attempt)
		c.logger.Warn("ai retry",
			logger.Int("attempt", attempt+1),
			logger.Int("max_retries", c.maxRetries),
			logger.Duration("wait", wait),
			logger.Error(callErr),
		)
		if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
			return nil, sleepErr
		}
	}

	return nil, lastErr
}

func (c *Client) post(ctx context.Context, payload []byte) (*Response, *UpstreamError) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamError{Err: err, Retryable: false}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Connection and timeout failures are transient by policy.
		return nil, &UpstreamError{Err: err, Retryable: true}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &UpstreamError{Err: err, Retryable: true}
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		upErr := &UpstreamError{
			Status:    httpResp.StatusCode,
			Body:      preview(string(body), errBodyPreviewSize),
			Retryable: retryableStatus(httpResp.StatusCode),
		}
		c.logger.Error("ai response error",
			logger.Int("status", httpResp.StatusCode),
			logger.String("body", upErr.Body),
		)
		return nil, upErr
	}

	var resp Response
	if unmarshalErr := json.Unmarshal(body, &resp); unmarshalErr != nil {
		c.logger.Warn("ai response not json",
			logger.Int("status", httpResp.StatusCode),
			logger.String("body", preview(string(body), errBodyPreviewSize)),
		)
		return &Response{}, nil
	}

	return &resp, nil
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// backoffDelay returns min(2^attempt, 30) seconds: 1s, 2s, 4s, 8s, ...
func backoffDelay(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// preview flattens and truncates text for log output.
func preview(text string, limit int) string {
	t := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(text, "\r", " "), "\n", " "))
	if len(t) <= limit {
		return t
	}
	runes := []rune(t)
	if len(runes) <= limit {
		return t
	}
	return string(runes[:limit]) + "..."
}
