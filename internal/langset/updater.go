package langset

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/moegirlwiki/pagelang/mwapi"
)

// Updater sets the content language of pages through an authenticated
// mwapi client. Per-title failures are reported on the output writer
// and never abort the batch.
type Updater struct {
	client *mwapi.Client
	lang   string
	out    io.Writer
	logger *slog.Logger
}

// New returns an Updater that writes per-title status lines to out.
func New(client *mwapi.Client, lang string, out io.Writer, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		client: client,
		lang:   lang,
		out:    out,
		logger: logger,
	}
}

// result is the setpagelanguage success payload. "from" is only present
// when the page already had an explicit language.
type result struct {
	Title string `json:"title"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Run issues exactly one setpagelanguage call per title, in input
// order. It only returns early when ctx is cancelled.
func (u *Updater) Run(ctx context.Context, titles []string) error {
	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(u.out, "\nProcessing page: %q...\n", title)
		u.setOne(ctx, title)
	}
	return nil
}

func (u *Updater) setOne(ctx context.Context, title string) {
	u.logger.Debug("issuing setpagelanguage", "title", title, "lang", u.lang)

	resp, err := u.client.PostWithToken(ctx, mwapi.TokenCSRF, map[string]any{
		"action": "setpagelanguage",
		"title":  title,
		"lang":   u.lang,
	})
	if err != nil {
		if apiErr, ok := mwapi.AsAPIError(err); ok {
			fmt.Fprintf(u.out, "    API error: %s\n", apiErr.Message)
		} else {
			fmt.Fprintf(u.out, "    request error: %v\n", err)
		}
		return
	}

	// With error raising disabled the error payload sits in the envelope.
	if resp.Error != nil || len(resp.Errors) > 0 {
		fmt.Fprintf(u.out, "    API error: %s\n", envelopeMessage(resp))
		return
	}

	var out struct {
		SetPageLanguage *result `json:"setpagelanguage"`
	}
	if err := resp.Into(&out); err != nil || out.SetPageLanguage == nil {
		fmt.Fprintf(u.out, "    warning: unrecognized response: %s\n", string(resp.Raw))
		return
	}

	from := out.SetPageLanguage.From
	if from == "" {
		from = "[not previously set]"
	}
	to := out.SetPageLanguage.To
	if to == "" {
		to = u.lang
	}
	fmt.Fprintf(u.out, "    language set to %q (previous: %s)\n", to, from)
}

func envelopeMessage(r *mwapi.Response) string {
	var entry mwapi.ErrorEntry
	if r.Error != nil {
		entry = *r.Error
	} else if len(r.Errors) > 0 {
		entry = r.Errors[0]
	}
	if entry.Info != "" {
		return entry.Info
	}
	if entry.Text != "" {
		return entry.Text
	}
	if entry.Code != "" {
		return entry.Code
	}
	return "MediaWiki API error"
}
