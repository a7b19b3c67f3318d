package config

import (
	"strings"

	"hwbot/internal/failure"
)

// Missing returns the environment names of the secrets that are empty.
func (s Secrets) Missing() []string {
	var out []string
	if strings.TrimSpace(s.PracticumToken) == "" {
		out = append(out, EnvPracticumToken)
	}
	if strings.TrimSpace(s.TelegramToken) == "" {
		out = append(out, EnvTelegramToken)
	}
	if strings.TrimSpace(s.TelegramChatID) == "" {
		out = append(out, EnvTelegramChatID)
	}
	return out
}

// Validate returns a configuration failure naming every missing secret.
func (s Secrets) Validate() error {
	missing := s.Missing()
	if len(missing) == 0 {
		return nil
	}
	return failure.New(failure.KindConfiguration, "config", "missing_secret").
		WithValue(strings.Join(missing, ","))
}
