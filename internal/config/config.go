// Package config handles loading and resolving bidash configuration.
// Resolution order (first non-empty value wins):
//  1. CLI flags (--base-url, --timeout, --rate, --locale, --format)
//  2. Environment variables BIDASH_*
//  3. .env in the current working directory
//  4. bidash.json in the current working directory
//  5. Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

const (
	DefaultConfigFile = "bidash.json"
	DefaultEnvFile    = ".env"
	DefaultBaseURL    = "http://localhost:5000/api"
	DefaultFormat     = "table"
	DefaultTimeout    = 30 * time.Second
	DefaultRate       = 5.0
	DefaultLocale     = "en-US"

	EnvBaseURL = "BIDASH_BASE_URL"
	EnvTimeout = "BIDASH_TIMEOUT"
	EnvRate    = "BIDASH_RATE"
	EnvLocale  = "BIDASH_LOCALE"
	EnvFormat  = "BIDASH_FORMAT"
)

// File is the on-disk representation of bidash.json.
type File struct {
	BaseURL       string  `json:"base_url"`
	DefaultFormat string  `json:"default_format"`
	Timeout       string  `json:"timeout"`
	Rate          float64 `json:"rate"`
	Locale        string  `json:"locale"`
}

// Config is the fully-resolved runtime configuration.
// All callers use this struct; the File is only read during loading.
type Config struct {
	BaseURL    string
	Format     string
	Timeout    time.Duration
	Rate       float64 // requests per second; 0 disables the limiter
	Locale     string
	ConfigPath string // path of the bidash.json that was loaded (empty if none found)
	EnvPath    string // path of the .env that was loaded (empty if none found)

	// Runtime overrides set from CLI flags after Load()
	Quiet   bool
	Verbose bool
	Debug   bool
	NoColor bool
}

// Flags carries the CLI flag values. Zero values mean "not set".
type Flags struct {
	BaseURL string
	Format  string
	Timeout time.Duration
	Rate    float64
	RateSet bool // --rate was given; allows an explicit 0
	Locale  string
}

// Load resolves configuration from all sources. A missing bidash.json or
// .env is not an error; an unparsable environment value is.
func Load(flags Flags) (*Config, error) {
	cfg := &Config{
		BaseURL: DefaultBaseURL,
		Format:  DefaultFormat,
		Timeout: DefaultTimeout,
		Rate:    DefaultRate,
		Locale:  DefaultLocale,
	}

	// Layer 1: bidash.json (lowest priority)
	if f, path, err := loadFile(); err == nil {
		applyFile(cfg, f, path)
	}

	// Layer 2: .env, then the real environment on top of it
	env := map[string]string{}
	if path, err := filepath.Abs(DefaultEnvFile); err == nil {
		if vals, err := godotenv.Read(path); err == nil {
			env = vals
			cfg.EnvPath = path
		}
	}
	for _, k := range []string{EnvBaseURL, EnvTimeout, EnvRate, EnvLocale, EnvFormat} {
		if v := os.Getenv(k); v != "" {
			env[k] = v
		}
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	// Layer 3: CLI flags (highest priority)
	if flags.BaseURL != "" {
		cfg.BaseURL = flags.BaseURL
	}
	if flags.Format != "" {
		cfg.Format = flags.Format
	}
	if flags.Timeout > 0 {
		cfg.Timeout = flags.Timeout
	}
	if flags.RateSet {
		cfg.Rate = flags.Rate
	}
	if flags.Locale != "" {
		cfg.Locale = flags.Locale
	}

	return cfg, nil
}

func applyEnv(cfg *Config, env map[string]string) error {
	if v := env[EnvBaseURL]; v != "" {
		cfg.BaseURL = v
	}
	if v := env[EnvFormat]; v != "" {
		cfg.Format = v
	}
	if v := env[EnvLocale]; v != "" {
		cfg.Locale = v
	}
	if v := env[EnvTimeout]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := env[EnvRate]; v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRate, err)
		}
		cfg.Rate = r
	}
	return nil
}

// Validate returns an error if a resolved value cannot be used.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("base_url %q: scheme must be http or https", c.BaseURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("base_url %q: missing host", c.BaseURL))
	}
	if _, err := language.Parse(c.Locale); err != nil {
		errs = append(errs, fmt.Errorf("locale %q: %w", c.Locale, err))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Rate < 0 {
		errs = append(errs, fmt.Errorf("rate must not be negative, got %g", c.Rate))
	}
	return errors.Join(errs...)
}

// loadFile attempts to read bidash.json from the current working directory.
func loadFile() (*File, string, error) {
	path, err := filepath.Abs(DefaultConfigFile)
	if err != nil {
		return nil, "", err
	}
	f, err := ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

// ReadFile parses a bidash.json at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s not found at %s: %w", DefaultConfigFile, path, err)
		}
		return nil, fmt.Errorf("reading %s: %w", DefaultConfigFile, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", DefaultConfigFile, err)
	}
	return &f, nil
}

// applyFile copies values from a parsed File into cfg,
// skipping any fields that are zero/empty.
func applyFile(cfg *Config, f *File, path string) {
	cfg.ConfigPath = path
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.DefaultFormat != "" {
		cfg.Format = f.DefaultFormat
	}
	if f.Timeout != "" {
		if d, err := time.ParseDuration(f.Timeout); err == nil {
			cfg.Timeout = d
		}
	}
	if f.Rate > 0 {
		cfg.Rate = f.Rate
	}
	if f.Locale != "" {
		cfg.Locale = f.Locale
	}
}

// Template returns a File populated with the defaults, suitable for writing
// an initial bidash.json via `bidash config init`.
func Template() File {
	return File{
		BaseURL:       DefaultBaseURL,
		DefaultFormat: DefaultFormat,
		Timeout:       DefaultTimeout.String(),
		Rate:          DefaultRate,
		Locale:        DefaultLocale,
	}
}

// WriteFile serialises a File to the given path.
func WriteFile(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// ─── Key access for `config set` ──────────────────────────────────────────────

var setters = map[string]func(f *File, v string) error{
	"base_url": func(f *File, v string) error {
		if _, err := url.ParseRequestURI(v); err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
		f.BaseURL = v
		return nil
	},
	"default_format": func(f *File, v string) error { f.DefaultFormat = v; return nil },
	"timeout": func(f *File, v string) error {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("timeout must be a duration such as 30s")
		}
		f.Timeout = v
		return nil
	},
	"rate": func(f *File, v string) error {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 {
			return fmt.Errorf("rate must be a non-negative number")
		}
		f.Rate = r
		return nil
	},
	"locale": func(f *File, v string) error {
		if _, err := language.Parse(v); err != nil {
			return fmt.Errorf("locale: %w", err)
		}
		f.Locale = v
		return nil
	},
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns a key by name. "format" is accepted for default_format.
func (f *File) Set(key, value string) error {
	key = strings.ToLower(key)
	if key == "format" {
		key = "default_format"
	}
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s", key, strings.Join(Keys(), ", "))
	}
	return set(f, value)
}
