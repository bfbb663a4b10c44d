package mwapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Option func(*Client)

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.ua = ua
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.hc != nil && d > 0 {
			c.hc.Timeout = d
		}
	}
}

// WithRaiseAPIErrors makes Get/Post return an *APIError whenever the
// response carries an error envelope, instead of leaving it in
// Response.Envelope for the caller to inspect.
func WithRaiseAPIErrors(v bool) Option {
	return func(c *Client) {
		c.raiseAPIErrors = v
	}
}

// WithTokenRetry sets how many attempts PostWithToken makes when the
// API rejects the action token. The default is 1: a single attempt,
// no retry.
func WithTokenRetry(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.tokenRetry = n
		}
	}
}

type Client struct {
	endpoint *url.URL
	hc       *http.Client
	ua       string

	raiseAPIErrors bool
	tokenRetry     int

	mu     sync.Mutex
	tokens map[TokenType]string
	sf     singleflight.Group
}

// New is NewClient for known-good endpoints; it panics on error.
func New(endpoint string, opts ...Option) *Client {
	c, err := NewClient(endpoint, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint URL (expect full URL): %q", endpoint)
	}
	if !strings.HasSuffix(u.Path, "api.php") {
		return nil, fmt.Errorf("invalid endpoint path (expect .../api.php): %q", u.Path)
	}

	jar, _ := cookiejar.New(nil)
	c := &Client{
		endpoint: u,
		hc: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		ua:         "pagelang-bot/0.1",
		tokenRetry: 1,
		tokens:     map[TokenType]string{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	// A session without a cookie jar cannot stay logged in.
	if c.hc.Jar == nil {
		jar2, _ := cookiejar.New(nil)
		c.hc.Jar = jar2
	}

	return c, nil
}

func (c *Client) Get(ctx context.Context, p any) (*Response, error) {
	return c.do(ctx, http.MethodGet, p)
}

func (c *Client) Post(ctx context.Context, p any) (*Response, error) {
	return c.do(ctx, http.MethodPost, p)
}

func (c *Client) do(ctx context.Context, method string, p any) (*Response, error) {
	values, err := normalizeParams(p)
	if err != nil {
		return nil, err
	}

	req, err := c.buildRequest(ctx, method, values)
	if err != nil {
		return nil, err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	const maxBody = 8 << 20 // 8MiB
	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, err
	}

	resp := &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header.Clone(),
		Raw:        json.RawMessage(body),
	}

	// Best-effort parse of the error/warning envelope.
	_ = json.Unmarshal(body, &resp.Envelope)

	if c.raiseAPIErrors {
		if apiErr := responseAPIError(resp); apiErr != nil {
			return resp, apiErr
		}
	}
	if resp.StatusCode >= 400 && resp.ErrorCode() == "" {
		return resp, &HTTPStatusError{StatusCode: resp.StatusCode, Response: resp}
	}

	return resp, nil
}

func (c *Client) buildRequest(ctx context.Context, method string, values url.Values) (*http.Request, error) {
	base := *c.endpoint

	if method == http.MethodGet {
		q := base.Query()
		for k, vs := range values {
			if len(vs) > 0 {
				q.Set(k, vs[0])
			}
		}
		base.RawQuery = q.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.ua)
		return req, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base.String(), strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.ua)
	return req, nil
}

func responseAPIError(r *Response) *APIError {
	if r.Error == nil && len(r.Errors) == 0 {
		return nil
	}
	var code, msg string
	var entries []ErrorEntry
	if r.Error != nil {
		code = r.Error.Code
		msg = firstNonEmpty(r.Error.Info, r.Error.Text)
		entries = append(entries, *r.Error)
	}
	if len(r.Errors) > 0 {
		if code == "" {
			code = r.Errors[0].Code
		}
		if msg == "" {
			msg = firstNonEmpty(r.Errors[0].Info, r.Errors[0].Text)
		}
		entries = append(entries, r.Errors...)
	}
	if msg == "" {
		msg = "MediaWiki API error"
	}
	return &APIError{
		Code:       code,
		Message:    msg,
		HTTPStatus: r.StatusCode,
		Entries:    entries,
		Response:   r,
	}
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
