package mwapi

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is a MediaWiki API error envelope surfaced as a Go error.
type APIError struct {
	Code       string
	Message    string
	HTTPStatus int
	Entries    []ErrorEntry
	Response   *Response
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func AsAPIError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HTTPStatusError reports a non-2xx response that carried no parseable
// API error envelope.
type HTTPStatusError struct {
	StatusCode int
	Response   *Response
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// LoginError reports an action=login result other than Success,
// carrying the remote-provided reason.
type LoginError struct {
	Result string
	Reason string
}

func (e *LoginError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "unknown reason"
	}
	if e.Result == "" {
		return fmt.Sprintf("login failed: %s", reason)
	}
	return fmt.Sprintf("login failed: %s (%s)", e.Result, reason)
}

func isTokenErrorCode(code string) bool {
	switch strings.ToLower(code) {
	case "badtoken", "notoken", "needtoken", "wrongtoken":
		return true
	default:
		return false
	}
}
