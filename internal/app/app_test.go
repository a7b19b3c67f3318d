package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"hwbot/internal/config"
	"hwbot/internal/failure"
	logx "hwbot/pkg/logx"
)

func lookup(m map[string]string) config.LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestNewFailsOnMissingSecrets(t *testing.T) {
	_, err := New(Options{Lookup: lookup(map[string]string{config.EnvTelegramToken: "123:abc"})}, logx.Nop())
	if !failure.Is(err, failure.KindConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
	if !strings.Contains(err.Error(), config.EnvPracticumToken) {
		t.Fatalf("error should name the missing secret: %v", err)
	}
}

func TestNewRejectsBadInterval(t *testing.T) {
	_, err := New(Options{Lookup: lookup(map[string]string{
		config.EnvPracticumToken: "p",
		config.EnvTelegramToken:  "123:abc",
		config.EnvTelegramChatID: "1",
		config.EnvPollInterval:   "whenever",
	})}, logx.Nop())
	if err == nil || !strings.Contains(err.Error(), "poll.interval") {
		t.Fatalf("expected interval error, got %v", err)
	}
}

func TestRunOnceDeliversStatusChange(t *testing.T) {
	var gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"homeworks":[{"homework_name":"hw1","status":"reviewing"}]}`))
	}))
	defer api.Close()

	var (
		mu   sync.Mutex
		sent []map[string]any
	)
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		sent = append(sent, body)
		mu.Unlock()
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":1700000000,"chat":{"id":555,"type":"private"}}}`))
	}))
	defer bot.Close()

	cfgPath := filepath.Join(t.TempDir(), "hwbot.yaml")
	cfgBody := "telegram:\n  api_url: " + bot.URL + "\nlogging:\n  level: error\n  console: true\n"
	if err := os.WriteFile(cfgPath, []byte(cfgBody), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	a, err := New(Options{
		ConfigPath: cfgPath,
		Once:       true,
		Lookup: lookup(map[string]string{
			config.EnvPracticumToken: "ptoken",
			config.EnvTelegramToken:  "123:abc",
			config.EnvTelegramChatID: "555",
			config.EnvSourceEndpoint: api.URL,
		}),
	}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotAuth != "OAuth ptoken" {
		t.Fatalf("Authorization = %q", gotAuth)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sent) != 1 {
		t.Fatalf("messages sent = %d, want 1", len(sent))
	}
	if sent[0]["chat_id"] != "555" {
		t.Fatalf("chat_id = %v", sent[0]["chat_id"])
	}
	text, _ := sent[0]["text"].(string)
	if !strings.Contains(text, `"hw1"`) {
		t.Fatalf("text = %q", text)
	}
	if _, ok := a.Controller().Prior(); !ok {
		t.Fatalf("prior not recorded")
	}
}

func TestRunOnceReportsSourceFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer api.Close()

	a, err := New(Options{
		Once: true,
		Lookup: lookup(map[string]string{
			config.EnvPracticumToken: "ptoken",
			config.EnvTelegramToken:  "123:abc",
			config.EnvTelegramChatID: "555",
			config.EnvSourceEndpoint: api.URL,
			config.EnvLogLevel:       "error",
		}),
	}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	err = a.Run(context.Background())
	if !failure.Is(err, failure.KindSourceUnavailable) {
		t.Fatalf("err = %v, want source unavailable", err)
	}
}
