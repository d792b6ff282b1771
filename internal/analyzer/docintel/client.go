// Package docintel implements port.DocumentAnalyzer against the Document
// Intelligence REST API (analyze + long-running operation polling).
package docintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"taxextract/internal/analyzer"
	"taxextract/internal/config"
	"taxextract/internal/domain"
	"taxextract/internal/port"
)

// DefaultTimeout bounds one Analyze call when Options.Timeout is unset.
const DefaultTimeout = 5 * time.Minute

const (
	defaultAPIVersion   = "2024-11-30"
	defaultPollInterval = time.Second
	requestTimeout      = 60 * time.Second
	maxErrorBody        = 500
	// maxPollRetries is the number of consecutive failed status reads
	// tolerated before the operation is given up.
	maxPollRetries = 3
)

// Options configures a Client.
type Options struct {
	Endpoint     string
	Key          string
	APIVersion   string
	PollInterval time.Duration
	Timeout      time.Duration
	RateLimit    float64
	RateBurst    int
	// Resource names the endpoint in errors and logs ("prebuilt" or "custom").
	Resource string
}

// Client implements port.DocumentAnalyzer using the analyze REST API.
type Client struct {
	endpoint     string
	key          string
	apiVersion   string
	pollInterval time.Duration
	timeout      time.Duration
	resource     string
	limiter      *rate.Limiter
	http         *http.Client
}

// NewClient creates a Client. A zero RateLimit disables client-side limiting.
func NewClient(opts Options) *Client {
	if opts.APIVersion == "" {
		opts.APIVersion = defaultAPIVersion
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Resource == "" {
		opts.Resource = "docintel"
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Client{
		endpoint:     strings.TrimRight(opts.Endpoint, "/"),
		key:          opts.Key,
		apiVersion:   opts.APIVersion,
		pollInterval: opts.PollInterval,
		timeout:      opts.Timeout,
		resource:     opts.Resource,
		limiter:      limiter,
		http:         &http.Client{Timeout: requestTimeout},
	}
}

// FromConfig creates the Client for one analyzer resource kind.
func FromConfig(cfg *config.AnalyzerConfig, kind domain.AnalyzerKind) (*Client, error) {
	opts := Options{
		APIVersion:   cfg.APIVersion,
		PollInterval: time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		Timeout:      time.Duration(cfg.TimeoutSecs) * time.Second,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
		Resource:     string(kind),
	}
	switch kind {
	case domain.AnalyzerPrebuilt:
		opts.Endpoint, opts.Key = cfg.PrebuiltEndpoint, cfg.PrebuiltKey
	case domain.AnalyzerCustom:
		opts.Endpoint, opts.Key = cfg.CustomEndpoint, cfg.CustomKey
	default:
		return nil, fmt.Errorf("unknown analyzer kind: %s", kind)
	}
	if opts.Endpoint == "" || opts.Key == "" {
		return nil, fmt.Errorf("%s analyzer endpoint and key are required", kind)
	}
	return NewClient(opts), nil
}

type analyzeRequest struct {
	URLSource string `json:"urlSource"`
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type operationResponse struct {
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	AnalyzeResult *port.AnalyzeResult `json:"analyzeResult"`
}

func (c *Client) Analyze(ctx context.Context, input port.AnalyzeInput) (*port.AnalyzeResult, error) {
	if input.ModelID == "" || input.URLSource == "" {
		return nil, fmt.Errorf("docintel: model id and url source are required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opLocation, err := c.begin(ctx, input)
	if err != nil {
		return nil, err
	}
	return c.poll(ctx, opLocation)
}

// begin submits the analyze request and returns the operation URL to poll.
func (c *Client) begin(ctx context.Context, input port.AnalyzeInput) (string, error) {
	body, err := json.Marshal(analyzeRequest{URLSource: input.URLSource})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	analyzeURL := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, url.PathEscape(input.ModelID), url.QueryEscape(c.apiVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, analyzeURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, respBody, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusAccepted {
		return "", c.responseError(resp, respBody)
	}

	opLocation := resp.Header.Get("Operation-Location")
	if opLocation == "" {
		return "", fmt.Errorf("docintel: %s analyze response missing Operation-Location header", c.resource)
	}
	log.Printf("docintel.Client: %s analyze started (model=%s)", c.resource, input.ModelID)
	return opLocation, nil
}

// poll waits for the analyze operation to reach a terminal status. Failed
// status reads are retried in place; every error it returns is a PollError.
func (c *Client) poll(ctx context.Context, opLocation string) (*port.AnalyzeResult, error) {
	wait := c.pollInterval
	failures := 0
	for {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, c.pollError(fmt.Errorf("waiting for analyze result: %w", ctx.Err()))
		case <-timer.C:
		}

		op, retryAfter, err := c.fetchOperation(ctx, opLocation)
		if err != nil {
			if ctx.Err() != nil || !analyzer.IsRetryable(err) || failures >= maxPollRetries {
				return nil, c.pollError(err)
			}
			failures++
			wait = c.pollInterval << failures
			if retryAfter > 0 {
				wait = retryAfter
			}
			log.Printf("docintel.Client: %s status read failed (retry %d/%d in %s): %v",
				c.resource, failures, maxPollRetries, wait, err)
			continue
		}
		failures = 0

		switch op.Status {
		case "succeeded":
			if op.AnalyzeResult == nil {
				return nil, c.pollError(fmt.Errorf("operation succeeded without analyzeResult"))
			}
			return op.AnalyzeResult, nil
		case "failed", "canceled":
			opErr := &analyzer.OperationFailedError{Code: op.Status}
			if op.Error != nil {
				opErr.Code, opErr.Message = op.Error.Code, op.Error.Message
			}
			return nil, opErr
		case "notStarted", "running":
			wait = c.pollInterval
			if retryAfter > 0 {
				wait = retryAfter
			}
		default:
			return nil, c.pollError(fmt.Errorf("unexpected operation status %q", op.Status))
		}
	}
}

// fetchOperation reads the operation status once. The returned duration is
// the server's Retry-After hint, zero when absent.
func (c *Client) fetchOperation(ctx context.Context, opLocation string) (*operationResponse, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opLocation, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating poll request: %w", err)
	}
	resp, respBody, err := c.do(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	retryAfter := time.Duration(analyzer.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))) * time.Second
	if resp.StatusCode != http.StatusOK {
		return nil, retryAfter, c.responseError(resp, respBody)
	}

	var op operationResponse
	if err := json.Unmarshal(respBody, &op); err != nil {
		return nil, 0, fmt.Errorf("unmarshaling operation response: %w", err)
	}
	return &op, retryAfter, nil
}

func (c *Client) pollError(err error) error {
	return &analyzer.PollError{Resource: c.resource, Err: err}
}

// do sends an authenticated, rate-limited request and reads the full body.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("docintel: rate limiter: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("calling %s analysis API: %w", c.resource, ctx.Err())
		}
		return nil, nil, analyzer.WrapTransport(fmt.Errorf("calling %s analysis API: %w", c.resource, err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, analyzer.WrapTransport(fmt.Errorf("reading response: %w", err))
	}
	return resp, body, nil
}

func (c *Client) responseError(resp *http.Response, body []byte) error {
	apiErr := &analyzer.APIError{StatusCode: resp.StatusCode, Message: truncate(string(body), maxErrorBody)}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Error.Code != "" {
		apiErr.Code, apiErr.Message = eb.Error.Code, eb.Error.Message
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := analyzer.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return analyzer.NewRateLimitError(c.resource, apiErr, retryAfter)
	}
	return apiErr
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
