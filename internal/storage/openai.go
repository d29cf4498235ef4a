package storage

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

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultBetaHeader = "assistants=v2"
)

// OpenAIClient talks to the vector store REST API. It holds only values set
// at construction, so one instance may serve any number of concurrent calls,
// and several instances with different credentials may coexist.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	org     string
	http    *http.Client
	metrics *Metrics
	debug   bool
}

type Option func(*OpenAIClient)

func WithBaseURL(u string) Option {
	return func(c *OpenAIClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the client whose transport carries the requests. Its
// Timeout is left as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *OpenAIClient) { c.http = hc }
}

func WithOrganization(org string) Option {
	return func(c *OpenAIClient) { c.org = org }
}

func WithMetrics(m *Metrics) Option {
	return func(c *OpenAIClient) { c.metrics = m }
}

// WithDebugLogging dumps every request and response at debug level.
func WithDebugLogging(enabled bool) Option {
	return func(c *OpenAIClient) { c.debug = enabled }
}

// NewOpenAIClient builds a client for apiKey. The OpenAI-Beta header value
// defaults to assistants=v2 and may be overridden with betaHeader.
func NewOpenAIClient(apiKey, betaHeader string, opts ...Option) *OpenAIClient {
	c := &OpenAIClient{baseURL: DefaultBaseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	if betaHeader == "" {
		betaHeader = DefaultBetaHeader
	}

	base := http.DefaultTransport
	var timeout time.Duration
	var jar http.CookieJar
	if c.http != nil {
		if c.http.Transport != nil {
			base = c.http.Transport
		}
		timeout = c.http.Timeout
		jar = c.http.Jar
	}
	if c.debug || debugLoggingRequested() {
		base = &debugTransport{base: base}
	}

	c.http = &http.Client{
		Transport: &authTransport{base: base, apiKey: apiKey, betaHeader: betaHeader, organization: c.org},
		Timeout:   timeout,
		Jar:       jar,
	}

	log.Debug().Str("base_url", c.baseURL).Bool("api_key_present", apiKey != "").Msg("upstream client configured")
	return c
}

// HTTPClient exposes the configured client, mainly for inspection in tests.
func (c *OpenAIClient) HTTPClient() *http.Client { return c.http }

type response struct {
	status      int
	contentType string
	body        []byte
}

// send performs exactly one HTTP round trip and classifies non-2xx results.
// Callers record the request metric once the body has been handled.
func (c *OpenAIClient) send(ctx context.Context, req Request) (resp *response, err error) {
	if err := ctx.Err(); err != nil {
		return nil, newNetworkError(err)
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		buf, err := json.Marshal(req.Body)
		if err != nil {
			return nil, newNetworkError(fmt.Errorf("encode request body: %w", err))
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, newNetworkError(err)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, newNetworkError(err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, newNetworkError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, newStatusError(httpResp.StatusCode, data)
	}

	return &response{
		status:      httpResp.StatusCode,
		contentType: httpResp.Header.Get("Content-Type"),
		body:        data,
	}, nil
}

// Do executes req and returns the success body verbatim. An empty success
// body is returned as {}.
func (c *OpenAIClient) Do(ctx context.Context, req Request) (raw json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.metrics.observe(req.Method, start, err) }()

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(resp.body)) == 0 {
		return json.RawMessage(`{}`), nil
	}

	if decodeErr := json.Unmarshal(resp.body, &raw); decodeErr != nil {
		return nil, newNetworkError(fmt.Errorf("decode response body: %w", decodeErr))
	}
	return raw, nil
}

// DoRaw executes req and returns the success body as bytes, for endpoints
// whose payload is file content rather than JSON.
func (c *OpenAIClient) DoRaw(ctx context.Context, req Request) (body []byte, contentType string, err error) {
	start := time.Now()
	defer func() { c.metrics.observe(req.Method, start, err) }()

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, "", err
	}
	return resp.body, resp.contentType, nil
}

// Doer is anything that can execute a built request and return the raw
// success body.
type Doer interface {
	Do(ctx context.Context, req Request) (json.RawMessage, error)
}

// Call executes req and decodes the body into T while keeping the raw bytes.
func Call[T any](ctx context.Context, d Doer, req Request) (models.Result[T], error) {
	var res models.Result[T]
	raw, err := d.Do(ctx, req)
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(raw, &res.Value); err != nil {
		return res, newNetworkError(fmt.Errorf("decode response body: %w", err))
	}
	res.Raw = raw
	return res, nil
}

// Probe reports whether the credential is accepted, by listing models once.
// Every failure, whatever its cause, is reported as false.
func (c *OpenAIClient) Probe(ctx context.Context) bool {
	cfg := openai.DefaultConfig(c.apiKey)
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = c.http
	cfg.OrgID = c.org

	start := time.Now()
	_, err := openai.NewClientWithConfig(cfg).ListModels(ctx)
	c.metrics.observe(http.MethodGet, start, probeErr(err))
	if err != nil {
		log.Debug().Err(err).Msg("credential probe failed")
		return false
	}
	return true
}

func probeErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		return &APIError{Kind: KindForStatus(apiErr.HTTPStatusCode), Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	case errors.As(err, &reqErr):
		return &APIError{Kind: KindForStatus(reqErr.HTTPStatusCode), Status: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return newNetworkError(err)
}
