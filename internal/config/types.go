package config

import "time"

const (
	DefaultEndpoint     = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollInterval = 600 * time.Second
)

// Environment variable names. The three secrets are required; the rest
// override the config file when set.
const (
	EnvPracticumToken = "PRACTICUM_TOKEN"
	EnvTelegramToken  = "TELEGRAM_TOKEN"
	EnvTelegramChatID = "TELEGRAM_CHAT_ID"
	EnvTelegramThread = "TELEGRAM_THREAD_ID"
	EnvSourceEndpoint = "HWBOT_ENDPOINT"
	EnvPollInterval   = "HWBOT_POLL_INTERVAL"
	EnvLogLevel       = "HWBOT_LOG_LEVEL"
)

// Config is the on-disk shape (JSON or YAML). Secrets may be present in the
// file but are normally supplied through the environment.
type Config struct {
	Source   SourceConfig   `json:"source"`
	Telegram TelegramConfig `json:"telegram"`
	Poll     PollConfig     `json:"poll"`
	Logging  LoggingConfig  `json:"logging"`
}

type SourceConfig struct {
	Endpoint string `json:"endpoint,omitempty"`
	Token    string `json:"token,omitempty"` // do not log
	// Timeout is a Go duration string. "0s" or empty leaves the transport default.
	Timeout string `json:"timeout,omitempty"`
}

type TelegramConfig struct {
	Token    string `json:"token,omitempty"` // do not log
	ChatID   string `json:"chat_id,omitempty"`
	ThreadID int    `json:"thread_id,omitempty"`
	// APIURL points at a self-hosted Bot API server. Empty uses api.telegram.org.
	APIURL string `json:"api_url,omitempty"`
}

type PollConfig struct {
	// Interval is a Go duration ("10m") or HH:MM ("00:10"). Default 10m.
	Interval string `json:"interval,omitempty"`
}

type LoggingConfig struct {
	Level    string          `json:"level"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// LoggingTelegram forwards warnings/errors to an operator chat.
type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	ChatID     string `json:"chat_id"`
	ThreadID   int    `json:"thread_id"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec"`
}

// Default returns the config used when no file is given.
func Default() *Config {
	return &Config{
		Source:  SourceConfig{Endpoint: DefaultEndpoint},
		Poll:    PollConfig{Interval: DefaultPollInterval.String()},
		Logging: LoggingConfig{Level: "info", Console: true},
	}
}

// Secrets groups the three values without which the bot cannot run.
type Secrets struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID string
}

func (c *Config) Secrets() Secrets {
	return Secrets{
		PracticumToken: c.Source.Token,
		TelegramToken:  c.Telegram.Token,
		TelegramChatID: c.Telegram.ChatID,
	}
}

// Runtime is the resolved, typed view of Config handed to the app.
type Runtime struct {
	Endpoint      string
	SourceTimeout time.Duration
	PollInterval  time.Duration
}
