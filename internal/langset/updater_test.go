package langset

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moegirlwiki/pagelang/mwapi"
)

// fakeWiki answers csrf token queries and routes setpagelanguage calls
// by title through respond. It records the titles of write calls in order.
type fakeWiki struct {
	srv *httptest.Server

	mu     sync.Mutex
	writes []string
}

func newFakeWiki(t *testing.T, respond func(title string) map[string]any) *fakeWiki {
	t.Helper()

	fw := &fakeWiki{}
	fw.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()

		switch r.Form.Get("action") {
		case "query":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"query": map[string]any{
					"tokens": map[string]any{"csrftoken": "CSRF_TOKEN"},
				},
			})
		case "setpagelanguage":
			title := r.Form.Get("title")
			fw.mu.Lock()
			fw.writes = append(fw.writes, title)
			fw.mu.Unlock()

			if r.Form.Get("token") != "CSRF_TOKEN" {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"code": "badtoken", "info": "Invalid CSRF token."},
				})
				return
			}
			body := respond(title)
			if body == nil {
				// Simulate a transport-level failure.
				panic(http.ErrAbortHandler)
			}
			_ = json.NewEncoder(w).Encode(body)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": "badtest", "info": "unhandled request"},
			})
		}
	}))
	t.Cleanup(fw.srv.Close)
	return fw
}

func (fw *fakeWiki) writeTitles() []string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return append([]string(nil), fw.writes...)
}

func newTestUpdater(t *testing.T, fw *fakeWiki, lang string, out io.Writer) *Updater {
	t.Helper()
	c := mwapi.New(fw.srv.URL + "/api.php")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(c, lang, out, logger)
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func successBody(from, to string) map[string]any {
	payload := map[string]any{}
	if from != "" {
		payload["from"] = from
	}
	if to != "" {
		payload["to"] = to
	}
	return map[string]any{"setpagelanguage": payload}
}

func TestRun_OneCallPerTitleInOrder(t *testing.T) {
	t.Parallel()

	fw := newFakeWiki(t, func(title string) map[string]any {
		return successBody("en", "es")
	})

	var out bytes.Buffer
	u := newTestUpdater(t, fw, "es", &out)

	titles := []string{"Main Page", "Project:Sandbox", "Help:Contents"}
	if err := u.Run(testCtx(t), titles); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := fw.writeTitles(); !reflect.DeepEqual(got, titles) {
		t.Errorf("write calls = %#v, want %#v (one per title, input order)", got, titles)
	}
}

func TestRun_ZeroTitlesIssuesNoCalls(t *testing.T) {
	t.Parallel()

	fw := newFakeWiki(t, func(title string) map[string]any {
		return successBody("en", "es")
	})

	var out bytes.Buffer
	u := newTestUpdater(t, fw, "es", &out)

	if err := u.Run(testCtx(t), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := fw.writeTitles(); len(got) != 0 {
		t.Errorf("write calls = %#v, want none", got)
	}
}

func TestRun_FailingTitleDoesNotStopTheBatch(t *testing.T) {
	t.Parallel()

	t.Run("API error payload", func(t *testing.T) {
		t.Parallel()

		fw := newFakeWiki(t, func(title string) map[string]any {
			if title == "B" {
				return map[string]any{
					"error": map[string]any{"code": "permissiondenied", "info": "You do not have permission."},
				}
			}
			return successBody("en", "es")
		})

		var out bytes.Buffer
		u := newTestUpdater(t, fw, "es", &out)

		if err := u.Run(testCtx(t), []string{"A", "B", "C"}); err != nil {
			t.Fatalf("Run: %v", err)
		}

		if got, want := fw.writeTitles(), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
			t.Errorf("write calls = %#v, want %#v", got, want)
		}
		if !strings.Contains(out.String(), "You do not have permission.") {
			t.Errorf("output missing remote error message:\n%s", out.String())
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		fw := newFakeWiki(t, func(title string) map[string]any {
			if title == "B" {
				return nil // connection aborted
			}
			return successBody("en", "es")
		})

		var out bytes.Buffer
		u := newTestUpdater(t, fw, "es", &out)

		if err := u.Run(testCtx(t), []string{"A", "B", "C"}); err != nil {
			t.Fatalf("Run: %v", err)
		}

		if got, want := fw.writeTitles(), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
			t.Errorf("write calls = %#v, want %#v", got, want)
		}
		if !strings.Contains(out.String(), "request error") {
			t.Errorf("output missing transport error line:\n%s", out.String())
		}
	})
}

func TestRun_RendersPreviousAndNewLanguage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body map[string]any
		want []string
	}{
		{
			name: "both fields present",
			body: successBody("en", "es"),
			want: []string{`language set to "es"`, "previous: en"},
		},
		{
			name: "from absent means not previously set",
			body: successBody("", "es"),
			want: []string{`language set to "es"`, "previous: [not previously set]"},
		},
		{
			name: "to absent falls back to configured target",
			body: successBody("en", ""),
			want: []string{`language set to "es"`, "previous: en"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fw := newFakeWiki(t, func(title string) map[string]any {
				return tc.body
			})

			var out bytes.Buffer
			u := newTestUpdater(t, fw, "es", &out)

			if err := u.Run(testCtx(t), []string{"Main Page"}); err != nil {
				t.Fatalf("Run: %v", err)
			}
			for _, want := range tc.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestRun_UnrecognizedResponseShape(t *testing.T) {
	t.Parallel()

	fw := newFakeWiki(t, func(title string) map[string]any {
		return map[string]any{"surprise": true}
	})

	var out bytes.Buffer
	u := newTestUpdater(t, fw, "es", &out)

	if err := u.Run(testCtx(t), []string{"Main Page"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "unrecognized response") {
		t.Errorf("output missing unrecognized-response warning:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "surprise") {
		t.Errorf("output should include the raw payload:\n%s", out.String())
	}
}

func TestRun_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	fw := newFakeWiki(t, func(title string) map[string]any {
		return successBody("en", "es")
	})

	var out bytes.Buffer
	u := newTestUpdater(t, fw, "es", &out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := u.Run(ctx, []string{"A", "B"}); err == nil {
		t.Fatal("expected context error")
	}
	if got := fw.writeTitles(); len(got) != 0 {
		t.Errorf("write calls = %#v, want none after cancellation", got)
	}
}
