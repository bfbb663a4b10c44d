// Package mwapi is a minimal MediaWiki Action API client for bot-style
// tools: cookie-based sessions, login/CSRF token management, and a small
// request surface (NewClient -> Login -> Get/Post/PostWithToken -> Logout).
package mwapi
