package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	kit "hwbot/internal/transport"
)

type chanSender struct{ got chan string }

func (c *chanSender) SendText(_ context.Context, to kit.ChatTarget, text string, _ *kit.SendOptions) (kit.MessageRef, error) {
	c.got <- to.ChatID + "|" + text
	return kit.MessageRef{ChatID: to.ChatID}, nil
}

func TestZeroLoggerIsSafe(t *testing.T) {
	var l Logger
	if !l.IsZero() {
		t.Fatalf("zero Logger should report IsZero")
	}
	l.Info("nothing happens", String("k", "v"))
	l.With(Int("n", 1)).Error("still nothing")
}

func TestWriterLoggerEmitsStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug").With(String("comp", "poller"))
	l.Warn("cycle failed", String("kind", "schema_error"), Int64("since", 42), Err(errors.New("boom")))

	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if m["message"] != "cycle failed" || m["comp"] != "poller" || m["kind"] != "schema_error" {
		t.Fatalf("unexpected fields: %v", m)
	}
	if m["since"].(float64) != 42 {
		t.Fatalf("since = %v", m["since"])
	}
	if m["err"] != "boom" {
		t.Fatalf("err = %v", m["err"])
	}
	if c, _ := m["caller"].(string); !strings.HasPrefix(c, "logging_test.go:") {
		t.Fatalf("caller = %q", c)
	}
}

func TestWriterLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info line written at warn level: %q", buf.String())
	}
	if l.Enabled(LevelInfo) || !l.Enabled(LevelError) {
		t.Fatalf("Enabled does not follow configured level")
	}
}

func TestServiceFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hwbot.log")
	svc, log := New(Config{Level: "info", File: FileConfig{Enabled: true, Path: path}}, nil)
	log.Info("notification sent", String("homework", "hw1"))
	if err := svc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"homework":"hw1"`) {
		t.Fatalf("file sink missing field: %q", string(b))
	}
}

func TestServiceTelegramSinkHonoursMinLevel(t *testing.T) {
	sender := &chanSender{got: make(chan string, 4)}
	svc, log := New(Config{
		Level: "debug",
		File:  FileConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "x.log")},
		Telegram: TelegramConfig{
			Enabled:    true,
			ChatID:     "-100",
			MinLevel:   "error",
			RatePerSec: 10,
		},
	}, sender)
	defer svc.Close()

	log.Warn("below threshold")
	log.Error("source unavailable", String("reason", "http_status"))

	select {
	case got := <-sender.got:
		if !strings.HasPrefix(got, "-100|[ERROR] source unavailable") {
			t.Fatalf("unexpected telegram line %q", got)
		}
		if !strings.Contains(got, "reason=http_status") {
			t.Fatalf("missing field in %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("telegram sink did not deliver")
	}

	select {
	case got := <-sender.got:
		t.Fatalf("unexpected extra delivery %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFormatTelegramJSONFallsBackToRaw(t *testing.T) {
	if got := formatTelegramJSON([]byte("  not json \n")); got != "not json" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghijklmnop", 12); got != "abcdefghi..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("short", 12); got != "short" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := "Работа взята на проверку ревьюером."
	for n := 1; n < len(s); n++ {
		got := truncate(s, n)
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%d) = %q is not valid UTF-8", n, got)
		}
		if len(got) > n {
			t.Fatalf("truncate(%d) = %q exceeds limit", n, got)
		}
	}
	if got := truncate("Ура!Ура!Ура!", 13); got != "Ура!У..." {
		t.Fatalf("got %q", got)
	}
}
