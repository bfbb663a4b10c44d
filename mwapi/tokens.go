package mwapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func (c *Client) InvalidateToken(tokenType TokenType) {
	c.mu.Lock()
	delete(c.tokens, tokenType)
	c.mu.Unlock()
}

func (c *Client) InvalidateAllTokens() {
	c.mu.Lock()
	c.tokens = map[TokenType]string{}
	c.mu.Unlock()
}

// GetToken returns a cached token of the given type, fetching it via
// meta=tokens on first use. Concurrent fetches for the same type are
// collapsed into one request.
func (c *Client) GetToken(ctx context.Context, tokenType TokenType) (string, error) {
	c.mu.Lock()
	if tok := c.tokens[tokenType]; tok != "" {
		c.mu.Unlock()
		return tok, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sf.Do("token:"+string(tokenType), func() (any, error) {
		c.mu.Lock()
		if tok := c.tokens[tokenType]; tok != "" {
			c.mu.Unlock()
			return tok, nil
		}
		c.mu.Unlock()

		resp, err := c.Post(ctx, map[string]any{
			"action": "query",
			"meta":   "tokens",
			"type":   string(tokenType),
		})
		if err != nil {
			return "", err
		}

		tok, err := extractToken(resp.Raw, tokenType)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.tokens[tokenType] = tok
		c.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// PostWithToken fetches a token of the given type, injects it as the
// "token" field, and posts. By default it makes a single attempt; with
// WithTokenRetry a rejected token is invalidated and refetched.
func (c *Client) PostWithToken(ctx context.Context, tokenType TokenType, p map[string]any) (*Response, error) {
	params := make(map[string]any, len(p)+1)
	for k, v := range p {
		params[k] = v
	}

	var lastErr error
	for attempt := 0; attempt < c.tokenRetry; attempt++ {
		if attempt > 0 {
			c.InvalidateToken(tokenType)
		}

		tok, err := c.GetToken(ctx, tokenType)
		if err != nil {
			return nil, err
		}
		params["token"] = tok

		resp, err := c.Post(ctx, params)
		if err == nil {
			// Token errors can sit in the envelope even when
			// raiseAPIErrors is off.
			if code := resp.ErrorCode(); isTokenErrorCode(code) && attempt < c.tokenRetry-1 {
				lastErr = &APIError{
					Code:       code,
					Message:    "token rejected",
					HTTPStatus: resp.StatusCode,
					Response:   resp,
				}
				continue
			}
			return resp, nil
		}

		lastErr = err
		if e, ok := AsAPIError(err); ok && isTokenErrorCode(e.Code) {
			continue
		}
		return resp, err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("token attempts exhausted")
	}
	return nil, lastErr
}

func extractToken(raw json.RawMessage, tokenType TokenType) (string, error) {
	var r struct {
		Query struct {
			Tokens map[string]string `json:"tokens"`
		} `json:"query"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return "", fmt.Errorf("parse %s token response: %w", tokenType, err)
	}

	key := strings.ToLower(string(tokenType)) + "token"
	tok := r.Query.Tokens[key]
	if tok == "" {
		return "", fmt.Errorf("missing %s token in response", tokenType)
	}
	return tok, nil
}
