package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/derickschaefer/bidash/internal/config"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// chdir changes the working directory to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// writeConfig writes a bidash.json into dir and changes into it.
func writeConfig(t *testing.T, dir string, f config.File) {
	t.Helper()
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), append(data, '\n'), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, dir)
}

// writeEnvFile writes a .env into dir.
func writeEnvFile(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, config.DefaultEnvFile), []byte(body), 0600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
}

// clearEnv empties every BIDASH_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvBaseURL, config.EnvTimeout, config.EnvRate, config.EnvLocale, config.EnvFormat} {
		t.Setenv(k, "")
	}
}

// ─── Defaults ─────────────────────────────────────────────────────────────────

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := config.Load(config.Flags{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != config.DefaultBaseURL {
		t.Errorf("BaseURL: expected %q, got %q", config.DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.Format != config.DefaultFormat {
		t.Errorf("Format: expected %q, got %q", config.DefaultFormat, cfg.Format)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("Timeout: expected %v, got %v", config.DefaultTimeout, cfg.Timeout)
	}
	if cfg.Rate != config.DefaultRate {
		t.Errorf("Rate: expected %g, got %g", config.DefaultRate, cfg.Rate)
	}
	if cfg.Locale != config.DefaultLocale {
		t.Errorf("Locale: expected %q, got %q", config.DefaultLocale, cfg.Locale)
	}
	if cfg.ConfigPath != "" || cfg.EnvPath != "" {
		t.Errorf("no files should be recorded, got %q and %q", cfg.ConfigPath, cfg.EnvPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// ─── Config file loading ──────────────────────────────────────────────────────

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, t.TempDir(), config.File{
		BaseURL:       "https://bi.example.com/api",
		DefaultFormat: "json",
		Timeout:       "60s",
		Rate:          2.5,
		Locale:        "de-DE",
	})

	cfg, err := config.Load(config.Flags{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://bi.example.com/api" {
		t.Errorf("BaseURL: expected custom URL, got %q", cfg.BaseURL)
	}
	if cfg.Format != "json" {
		t.Errorf("Format: expected json, got %q", cfg.Format)
	}
	if cfg.Timeout != time.Minute {
		t.Errorf("Timeout: expected 1m0s, got %v", cfg.Timeout)
	}
	if cfg.Rate != 2.5 {
		t.Errorf("Rate: expected 2.5, got %g", cfg.Rate)
	}
	if cfg.Locale != "de-DE" {
		t.Errorf("Locale: expected de-DE, got %q", cfg.Locale)
	}
	if !strings.HasSuffix(cfg.ConfigPath, config.DefaultConfigFile) {
		t.Errorf("ConfigPath should end with %s, got %q", config.DefaultConfigFile, cfg.ConfigPath)
	}
}

func TestLoadInvalidTimeoutInFileIgnored(t *testing.T) {
	clearEnv(t)
	writeConfig(t, t.TempDir(), config.File{Timeout: "not-a-duration"})

	cfg, err := config.Load(config.Flags{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Timeout != config.DefaultTimeout {
		t.Errorf("invalid timeout should use default %v, got %v", config.DefaultTimeout, cfg.Timeout)
	}
}

func TestLoadMalformedFileIgnored(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, err := config.Load(config.Flags{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("malformed file should not be recorded, got %q", cfg.ConfigPath)
	}
}

// ─── .env and environment priority ───────────────────────────────────────────

func TestLoadDotEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeEnvFile(t, dir, "BIDASH_LOCALE=fr-FR\nBIDASH_TIMEOUT=5s\n")
	writeConfig(t, dir, config.File{Locale: "de-DE"})

	cfg, err := config.Load(config.Flags{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Locale != "fr-FR" {
		t.Errorf(".env should override file: expected fr-FR, got %q", cfg.Locale)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout: expected 5s, got %v", cfg.Timeout)
	}
	if cfg.EnvPath == "" {
		t.Error("EnvPath should be recorded when .env is found")
	}
}

func TestLoadEnvOverridesDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeEnvFile(t, dir, "BIDASH_BASE_URL=http://dotenv:1/api\n")
	chdir(t, dir)
	t.Setenv(config.EnvBaseURL, "http://env:2/api")

	cfg, err := config.Load(config.Flags{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://env:2/api" {
		t.Errorf("environment should override .env: got %q", cfg.BaseURL)
	}
}

func TestLoadDotEnvDoesNotTouchProcessEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeEnvFile(t, dir, "BIDASH_FORMAT=csv\n")
	chdir(t, dir)

	if _, err := config.Load(config.Flags{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v := os.Getenv(config.EnvFormat); v != "" {
		t.Errorf("Load must not export .env values, found %s=%q", config.EnvFormat, v)
	}
}

func TestLoadInvalidEnvTimeout(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv(config.EnvTimeout, "soon")

	if _, err := config.Load(config.Flags{}); err == nil {
		t.Error("expected error for unparsable BIDASH_TIMEOUT")
	} else if !strings.Contains(err.Error(), config.EnvTimeout) {
		t.Errorf("error should name the variable, got: %v", err)
	}
}

func TestLoadEnvRate(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv(config.EnvRate, "0")

	cfg, err := config.Load(config.Flags{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rate != 0 {
		t.Errorf("explicit BIDASH_RATE=0 should disable the limiter, got %g", cfg.Rate)
	}
}

// ─── CLI flag priority ────────────────────────────────────────────────────────

func TestLoadFlagsOverrideEverything(t *testing.T) {
	clearEnv(t)
	writeConfig(t, t.TempDir(), config.File{BaseURL: "http://file/api", Rate: 1})
	t.Setenv(config.EnvBaseURL, "http://env/api")

	cfg, err := config.Load(config.Flags{
		BaseURL: "http://flag/api",
		Timeout: 2 * time.Second,
		Rate:    9,
		RateSet: true,
		Locale:  "ja-JP",
		Format:  "md",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://flag/api" {
		t.Errorf("--base-url should win: got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 2*time.Second || cfg.Rate != 9 || cfg.Locale != "ja-JP" || cfg.Format != "md" {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestLoadFlagEmptyDoesNotOverride(t *testing.T) {
	clearEnv(t)
	writeConfig(t, t.TempDir(), config.File{BaseURL: "http://file/api", Rate: 3})

	cfg, err := config.Load(config.Flags{Rate: 0})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "http://file/api" {
		t.Errorf("empty flag should not override file value, got %q", cfg.BaseURL)
	}
	if cfg.Rate != 3 {
		t.Errorf("unset --rate should not override file value, got %g", cfg.Rate)
	}
}

// ─── Validate ─────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	valid := config.Config{BaseURL: "http://localhost:5000/api", Locale: "en-US", Timeout: time.Second}
	cases := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{"ok", func(c *config.Config) {}, ""},
		{"ftp scheme", func(c *config.Config) { c.BaseURL = "ftp://x/api" }, "scheme"},
		{"no host", func(c *config.Config) { c.BaseURL = "http:///api" }, "host"},
		{"bad locale", func(c *config.Config) { c.Locale = "!!" }, "locale"},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }, "timeout"},
		{"negative rate", func(c *config.Config) { c.Rate = -1 }, "rate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

// ─── File.Set ─────────────────────────────────────────────────────────────────

func TestFileSet(t *testing.T) {
	f := config.Template()
	if err := f.Set("rate", "12.5"); err != nil || f.Rate != 12.5 {
		t.Errorf("rate: err=%v rate=%g", err, f.Rate)
	}
	if err := f.Set("FORMAT", "csv"); err != nil || f.DefaultFormat != "csv" {
		t.Errorf("format alias: err=%v format=%q", err, f.DefaultFormat)
	}
	if err := f.Set("timeout", "later"); err == nil {
		t.Error("expected error for bad timeout")
	}
	if err := f.Set("locale", "!!"); err == nil {
		t.Error("expected error for bad locale")
	}
	if err := f.Set("api_key", "x"); err == nil || !strings.Contains(err.Error(), "base_url") {
		t.Errorf("unknown key should list valid keys, got %v", err)
	}
}

// ─── WriteFile / Template ─────────────────────────────────────────────────────

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
	f := config.File{
		BaseURL:       "https://bi.example.com/api",
		DefaultFormat: "csv",
		Timeout:       "45s",
		Rate:          3.0,
		Locale:        "en-GB",
	}
	if err := config.WriteFile(path, f); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := config.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if *got != f {
		t.Errorf("round trip: expected %+v, got %+v", f, *got)
	}
}

func TestWriteFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
	if err := config.WriteFile(path, config.Template()); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file permissions: expected 0600, got %04o", info.Mode().Perm())
	}
}

func TestTemplateDefaults(t *testing.T) {
	tmpl := config.Template()
	if tmpl.DefaultFormat != "table" {
		t.Errorf("Template.DefaultFormat: expected table, got %q", tmpl.DefaultFormat)
	}
	if tmpl.Timeout != "30s" {
		t.Errorf("Template.Timeout: expected 30s, got %q", tmpl.Timeout)
	}
	if tmpl.BaseURL != config.DefaultBaseURL {
		t.Errorf("Template.BaseURL: expected %q, got %q", config.DefaultBaseURL, tmpl.BaseURL)
	}
	if tmpl.Locale != config.DefaultLocale {
		t.Errorf("Template.Locale: expected %q, got %q", config.DefaultLocale, tmpl.Locale)
	}
}
