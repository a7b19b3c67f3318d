package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LookupFunc matches os.LookupEnv. Tests pass a map-backed lookup.
type LookupFunc func(key string) (string, bool)

// LoadOptions controls where configuration comes from.
type LoadOptions struct {
	// Path is an optional JSON or YAML file. Empty means defaults only.
	Path string
	// EnvFile is a dotenv file loaded into the process environment before
	// lookups. Real environment variables always win over the file.
	EnvFile string
	// EnvFileRequired makes a missing EnvFile an error.
	EnvFileRequired bool
	// Lookup defaults to os.LookupEnv.
	Lookup LookupFunc
}

// Load builds the startup configuration: defaults, then the optional file,
// then environment overrides. Missing secrets are not an error here; the
// caller decides through Secrets().Validate().
func Load(opts LoadOptions) (*Config, error) {
	if err := LoadEnvFile(opts.EnvFile, opts.EnvFileRequired); err != nil {
		return nil, err
	}

	cfg := Default()
	if p := strings.TrimSpace(opts.Path); p != "" {
		parsed, err := Parse(p)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", p, err)
		}
		cfg = parsed
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads a dotenv file without overriding variables that are
// already set.
func LoadEnvFile(path string, required bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}

// Parse reads a JSON or YAML file on top of Default(). Unknown keys are rejected.
func Parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jb, _, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with environment values. Only non-empty values
// override; an empty variable is treated as unset.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	get := func(k string) (string, bool) {
		v, ok := lookup(k)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvPracticumToken); ok {
		cfg.Source.Token = v
	}
	if v, ok := get(EnvTelegramToken); ok {
		cfg.Telegram.Token = v
	}
	if v, ok := get(EnvTelegramChatID); ok {
		cfg.Telegram.ChatID = v
	}
	if v, ok := get(EnvTelegramThread); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid thread id %q", EnvTelegramThread, v)
		}
		cfg.Telegram.ThreadID = n
	}
	if v, ok := get(EnvSourceEndpoint); ok {
		cfg.Source.Endpoint = v
	}
	if v, ok := get(EnvPollInterval); ok {
		cfg.Poll.Interval = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.Logging.Level = v
	}
	return nil
}

// Resolve parses the string knobs into typed values.
func (c *Config) Resolve() (Runtime, error) {
	rt := Runtime{Endpoint: strings.TrimSpace(c.Source.Endpoint)}
	if rt.Endpoint == "" {
		rt.Endpoint = DefaultEndpoint
	}

	var err error
	if rt.SourceTimeout, err = ParseDurationField("source.timeout", c.Source.Timeout); err != nil {
		return Runtime{}, err
	}
	if rt.PollInterval, err = ParseInterval("poll.interval", c.Poll.Interval, DefaultPollInterval); err != nil {
		return Runtime{}, err
	}
	return rt, nil
}
