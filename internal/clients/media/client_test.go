package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/noteeline-backend/internal/config"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, fn roundTripperFunc) *Client {
	t.Helper()
	cfg := config.ServicesConfig{
		TranscriptURL: "http://media.test/youtube-transcript",
		SummaryURL:    "http://media.test/fetch-summary",
		Timeout:       config.Duration{Duration: time.Second},
	}
	return NewWithHTTPClient(cfg, &http.Client{Transport: fn}, nil)
}

func respond(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Header: http.Header{}, Body: io.NopCloser(strings.NewReader(body))}
}

func TestTranscript(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/youtube-transcript" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["ytLink"] != "https://www.youtube.com/watch?v=abc123" {
			t.Fatalf("ytLink=%q", body["ytLink"])
		}
		return respond(200, `[{"text":"hello","start":0,"duration":1500.4},{"text":"world","start":1500,"duration":900}]`), nil
	})
	segs, err := c.Transcript(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	want := []types.TranscriptSegment{{Text: "hello", OffsetMs: 0, DurationMs: 1500}, {Text: "world", OffsetMs: 1500, DurationMs: 900}}
	if len(segs) != 2 || segs[0] != want[0] || segs[1] != want[1] {
		t.Fatalf("segs=%+v", segs)
	}
}

func TestTranscriptEmpty(t *testing.T) {
	for _, body := range []string{"null", "[]"} {
		c := newTestClient(t, func(r *http.Request) (*http.Response, error) { return respond(200, body), nil })
		if _, err := c.Transcript(context.Background(), "x"); !errors.Is(err, ErrNoTranscript) {
			t.Fatalf("body %s: err=%v", body, err)
		}
	}
}

func TestTranscriptHTTPErrorIsUpstream(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) { return respond(404, "nope"), nil })
	_, err := c.Transcript(context.Background(), "x")
	if !errors.Is(err, apperrors.ErrUpstream) {
		t.Fatalf("err=%v", err)
	}
}

func TestSummary(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		b, _ := io.ReadAll(r.Body)
		if string(b) != `{"transcript":"a b"}` {
			t.Fatalf("body=%s", b)
		}
		return respond(200, `{"response":"  short summary \n"}`), nil
	})
	got, err := c.Summary(context.Background(), "a b")
	if err != nil || got != "short summary" {
		t.Fatalf("got=%q err=%v", got, err)
	}
}

func TestUnconfiguredURL(t *testing.T) {
	c := NewWithHTTPClient(config.ServicesConfig{}, http.DefaultClient, nil)
	if _, err := c.Summary(context.Background(), "x"); !errors.Is(err, apperrors.ErrUnavailable) {
		t.Fatalf("err=%v", err)
	}
}

func TestVideoID(t *testing.T) {
	cases := []struct {
		link string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", true},
		{"youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch", "", false},
		{"https://vimeo.com/123", "", false},
	}
	for _, tc := range cases {
		got, err := VideoID(tc.link)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%s: got=%q err=%v", tc.link, got, err)
		}
		if !tc.ok && !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Fatalf("%s: expected invalid argument, got %q %v", tc.link, got, err)
		}
	}
}
