package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"
)

// TestRedactHandler_SensitiveKeys tests that values under sensitive keys are masked.
func TestRedactHandler_SensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "cookie key is masked", key: "cookie", value: "PHPSESSID=abc123", wantMask: true},
		{name: "Cookie key (uppercase) is masked", key: "Cookie", value: "PHPSESSID=abc123", wantMask: true},
		{name: "authorization key is masked", key: "authorization", value: "Bearer token123", wantMask: true},
		{name: "api_key key is masked", key: "api_key", value: "abc", wantMask: true},
		{name: "keyword inside key is masked", key: "edsm_session_cookie", value: "abc", wantMask: true},
		{name: "url key is kept", key: "url", value: "https://www.edsm.net/en/search/systems", wantMask: false},
		{name: "cache_key is kept", key: "cache_key", value: "pages", wantMask: false},
		{name: "bearer value under any key is masked", key: "header", value: "Bearer abc.def", wantMask: true},
		{name: "api key shaped value is masked", key: "value", value: strings.Repeat("a1", 20), wantMask: true},
		{name: "system name is kept", key: "system", value: "Sagittarius A*", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))
			logger.Info("test", tt.key, tt.value)

			out := buf.String()
			masked := strings.Contains(out, MaskValue)
			if masked != tt.wantMask {
				t.Errorf("masked = %v, want %v; output %q", masked, tt.wantMask, out)
			}
			if tt.wantMask && strings.Contains(out, tt.value) {
				t.Errorf("sensitive value leaked: %q", out)
			}
		})
	}
}

// TestRedactHandler_HeaderMaps tests masking inside header maps.
func TestRedactHandler_HeaderMaps(t *testing.T) {
	t.Parallel()

	t.Run("map[string]string keeps non-secret headers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewJSONHandler(&buf, nil)))
		logger.Info("request", "headers", map[string]string{
			"Cookie":          "PHPSESSID=abc123",
			"Accept-Language": "en",
		})

		var entry struct {
			Headers map[string]string `json:"headers"`
		}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("invalid JSON log line: %v", err)
		}
		if entry.Headers["Cookie"] != MaskValue {
			t.Errorf("expected Cookie to be masked, got %q", entry.Headers["Cookie"])
		}
		if entry.Headers["Accept-Language"] != "en" {
			t.Errorf("expected Accept-Language to be kept, got %q", entry.Headers["Accept-Language"])
		}
	})

	t.Run("http.Header is masked per entry", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewJSONHandler(&buf, nil)))
		h := http.Header{}
		h.Set("Set-Cookie", "PHPSESSID=abc123")
		h.Set("Etag", `"v1"`)
		logger.Info("response", "header", h)

		if strings.Contains(buf.String(), "abc123") {
			t.Errorf("cookie leaked: %s", buf.String())
		}
		if !strings.Contains(buf.String(), "v1") {
			t.Errorf("expected Etag to be kept: %s", buf.String())
		}
		if h.Get("Set-Cookie") != "PHPSESSID=abc123" {
			t.Error("expected original header to be left untouched")
		}
	})

	t.Run("RedactHeaders copies the input", func(t *testing.T) {
		t.Parallel()

		in := map[string]string{"Cookie": "x"}
		out := RedactHeaders(in)
		if in["Cookie"] != "x" {
			t.Error("expected input map to be left untouched")
		}
		if out["Cookie"] != MaskValue {
			t.Errorf("expected masked Cookie, got %q", out["Cookie"])
		}
	})
}

// TestRedactHandler_GroupsAndWith tests nested groups and pre-bound attributes.
func TestRedactHandler_GroupsAndWith(t *testing.T) {
	t.Parallel()

	t.Run("nested group attributes are masked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil)))
		logger.Info("test", slog.Group("request", slog.String("cookie", "abc123"), slog.String("url", "u")))

		if strings.Contains(buf.String(), "abc123") {
			t.Errorf("cookie leaked: %s", buf.String())
		}
		if !strings.Contains(buf.String(), "request.url=u") {
			t.Errorf("expected url to be kept: %s", buf.String())
		}
	})

	t.Run("With attributes are masked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewRedactHandler(slog.NewTextHandler(&buf, nil))).
			With("token", "abc123").
			WithGroup("crawl")
		logger.Info("test", "id", "12")

		if strings.Contains(buf.String(), "abc123") {
			t.Errorf("token leaked: %s", buf.String())
		}
		if !strings.Contains(buf.String(), "crawl.id=12") {
			t.Errorf("expected grouped id: %s", buf.String())
		}
	})
}

// TestNewLogger tests level and format selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("non-verbose drops info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false, false)
		logger.Info("hidden")
		logger.Warn("shown")

		if strings.Contains(buf.String(), "hidden") {
			t.Errorf("expected info to be dropped: %s", buf.String())
		}
		if !strings.Contains(buf.String(), "shown") {
			t.Errorf("expected warning: %s", buf.String())
		}
	})

	t.Run("verbose keeps debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewLogger(&buf, true, false).Debug("details")
		if !strings.Contains(buf.String(), "details") {
			t.Errorf("expected debug output: %s", buf.String())
		}
	})

	t.Run("json format emits JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewLogger(&buf, false, true).Warn("slow", "cookie", "abc123")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("invalid JSON: %v (%s)", err, buf.String())
		}
		if entry["cookie"] != MaskValue {
			t.Errorf("expected masked cookie, got %v", entry["cookie"])
		}
	})
}
