package mwapi

import (
	"encoding/json"
	"net/http"
)

type TokenType string

const (
	TokenCSRF  TokenType = "csrf"
	TokenLogin TokenType = "login"
)

// ErrorEntry is one entry of the API error envelope
// (errorformat=plaintext fills Text, legacy format fills Info).
type ErrorEntry struct {
	Code string `json:"code"`
	Info string `json:"info,omitempty"`
	Text string `json:"text,omitempty"`
}

type Envelope struct {
	Error    *ErrorEntry    `json:"error,omitempty"`
	Errors   []ErrorEntry   `json:"errors,omitempty"`
	Warnings map[string]any `json:"warnings,omitempty"`
}

type Response struct {
	StatusCode int
	Header     http.Header
	Envelope

	Raw json.RawMessage
}

// Into unmarshals the raw response body into out.
func (r *Response) Into(out any) error {
	return json.Unmarshal(r.Raw, out)
}

// ErrorCode returns the first API error code in the envelope, or "".
func (r *Response) ErrorCode() string {
	if r == nil {
		return ""
	}
	if r.Error != nil {
		return r.Error.Code
	}
	if len(r.Errors) > 0 {
		return r.Errors[0].Code
	}
	return ""
}
