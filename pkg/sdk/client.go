package segscope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CombinedPath is the search + RAG endpoint of the service.
const CombinedPath = "/api/combined"

// Client is the segscope SDK entry point. It is safe for concurrent use.
type Client struct {
	baseURL  string
	endpoint string
	http     *http.Client
	obs      *observer
}

// New creates a Client. No connection is made until the first call.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{baseURL: DefaultBaseURL}
	for _, o := range opts {
		o.apply(cfg)
	}

	base, err := url.Parse(strings.TrimRight(cfg.baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("segscope: invalid base url %q: %w", cfg.baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("segscope: base url %q must be http or https", cfg.baseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("segscope: base url %q has no host", cfg.baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:  base.String(),
		endpoint: base.String() + CombinedPath,
		http:     hc,
		obs:      obs,
	}, nil
}

// Endpoint returns the full URL requests are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Search validates the parameters and performs one combined request.
func (c *Client) Search(
	ctx context.Context, act Action, query string, atLeast int, threshold float64, atMost int,
) (*Response, error) {
	p, err := NewParams(act, query, atLeast, threshold, atMost)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, p)
}

// Do posts the parameters to the combined endpoint and decodes the reply.
// Exactly one HTTP request is made; nothing is retried and no deadline is
// added beyond ctx. A non-2xx status yields a *RequestError.
func (c *Client) Do(ctx context.Context, p Params) (resp *Response, err error) {
	start := time.Now()
	op := "search." + string(p.Action())
	defer func() { c.obs.observe(op, start, err) }()

	payload, err := json.Marshal(BuildBody(p))
	if err != nil {
		return nil, fmt.Errorf("segscope: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("segscope: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("segscope: send request: %w: %w", ErrBackendUnavailable, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return nil, &RequestError{
			StatusCode: httpResp.StatusCode,
			StatusText: statusText(httpResp),
			Body:       body,
		}
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("segscope: read response: %w: %w", ErrBackendUnavailable, err)
	}

	return decodeResponse(raw)
}

func decodeResponse(raw []byte) (*Response, error) {
	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("segscope: decode response: %w: %w", ErrMalformedResponse, err)
	}
	out.Raw = raw
	return &out, nil
}
