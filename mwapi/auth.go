package mwapi

import (
	"context"
	"encoding/json"
	"strings"
)

type LoginResult struct {
	Result   string `json:"result"`
	LgUserID int    `json:"lguserid"`
	LgName   string `json:"lgusername"`
	Reason   string `json:"reason,omitempty"`
}

// Login fetches a fresh login token and posts action=login. Any result
// other than Success is returned as a *LoginError carrying the remote
// reason. Login is a single attempt; callers decide whether to try again.
func (c *Client) Login(ctx context.Context, user, pass string) (*LoginResult, error) {
	// Login tokens are bound to session state; never reuse a cached one.
	c.InvalidateToken(TokenLogin)
	tok, err := c.GetToken(ctx, TokenLogin)
	if err != nil {
		return nil, err
	}

	resp, err := c.Post(ctx, map[string]any{
		"action":     "login",
		"lgname":     user,
		"lgpassword": pass,
		"lgtoken":    tok,
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Login LoginResult `json:"login"`
	}
	if err := json.Unmarshal(resp.Raw, &out); err != nil {
		return nil, err
	}

	if !strings.EqualFold(out.Login.Result, "success") {
		return &out.Login, &LoginError{Result: out.Login.Result, Reason: out.Login.Reason}
	}

	// Session changed; any previously fetched token is stale.
	c.InvalidateAllTokens()
	return &out.Login, nil
}

// Logout ends the server-side session. The client remains usable for
// anonymous requests afterwards.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.PostWithToken(ctx, TokenCSRF, map[string]any{
		"action": "logout",
	})
	if err != nil {
		return err
	}
	c.InvalidateAllTokens()
	return nil
}
