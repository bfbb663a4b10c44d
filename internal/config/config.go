package config

import (
	"os"
	"strings"
	"time"
)

// Default configuration values.
const (
	// DefaultPagesFile is the titles file looked up when none is
	// configured, matching the conventional bot setup of a pages.txt
	// next to the working directory.
	DefaultPagesFile = "pages.txt"

	// DefaultTimeout applies to each individual API request. Wiki
	// write actions can be slow on large farms, so this is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the bot in HTTP requests, as asked
	// by the Wikimedia User-Agent policy.
	DefaultUserAgent = "pagelang/0.2 (+https://github.com/moegirlwiki/pagelang)"
)

// Environment variable names. Credentials are environment-only so the
// YAML file can be committed without leaking secrets.
const (
	EnvEndpoint = "PAGELANG_ENDPOINT"
	EnvLanguage = "PAGELANG_LANG"
	EnvUsername = "PAGELANG_USERNAME"
	EnvPassword = "PAGELANG_PASSWORD"
)

// Config is the resolved pagelang configuration. It is populated from
// defaults, then the .pagelang file, then environment variables, then
// CLI flags, and passed by value into each component.
type Config struct {
	// Endpoint is the full URL of the wiki's api.php.
	Endpoint string

	// Language is the code applied to every page in the run, e.g. "es".
	// It is not validated locally; the wiki decides what it accepts.
	Language string

	// PagesFile is the path of the newline-delimited titles file.
	PagesFile string

	// Username and Password are bot credentials from Special:BotPasswords.
	Username string
	Password string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent is sent on every API request.
	UserAgent string

	// Verbose enables slog.LevelDebug diagnostics.
	Verbose bool
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		PagesFile: DefaultPagesFile,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// ApplyFile overlays non-empty values from a loaded .pagelang file.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Endpoint != "" {
		c.Endpoint = f.Endpoint
	}
	if f.Language != "" {
		c.Language = f.Language
	}
	if f.PagesFile != "" {
		c.PagesFile = f.PagesFile
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
}

// ApplyEnv overlays values from the process environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLanguage)); v != "" {
		c.Language = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUsername)); v != "" {
		c.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Password = v
	}
}

// Validate checks that the configuration is complete enough to run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return ErrNoEndpoint
	}
	if strings.TrimSpace(c.Language) == "" {
		return ErrNoLanguage
	}
	if strings.TrimSpace(c.PagesFile) == "" {
		return ErrNoPagesFile
	}
	if c.Username == "" || c.Password == "" {
		return ErrNoCredentials
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
