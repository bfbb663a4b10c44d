package config

import "errors"

// Validation errors returned by Config.Validate. Sentinel errors so
// callers can use errors.Is while the messages stay user-readable.
var (
	// ErrNoEndpoint is returned when no api.php endpoint URL is configured.
	ErrNoEndpoint = errors.New("no endpoint configured: set endpoint in .pagelang, PAGELANG_ENDPOINT, or --endpoint")

	// ErrNoLanguage is returned when no target language code is configured.
	ErrNoLanguage = errors.New("no target language configured: set language in .pagelang, PAGELANG_LANG, or --lang")

	// ErrNoPagesFile is returned when the titles file path is empty.
	ErrNoPagesFile = errors.New("no pages file configured: set pages_file in .pagelang or --file")

	// ErrNoCredentials is returned when the bot username or password is
	// missing. Credentials come from the environment only, never from
	// the YAML file. Obtain them from Special:BotPasswords on the wiki.
	ErrNoCredentials = errors.New("missing bot credentials: set PAGELANG_USERNAME and PAGELANG_PASSWORD")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")
)
