package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME at an empty directory and clears DSTK_* variables so
// the developer's own settings never leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			_ = os.Unsetenv(name)
		}
	}
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingDefaultFileFallsBackToDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load = %+v, want %+v", cfg, Default())
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	home := isolate(t)

	_, err := Load(filepath.Join(home, "does-not-exist.toml"), nil)
	if err == nil {
		t.Fatal("Load returned nil error, want open error")
	}
	if !strings.Contains(err.Error(), "open config") {
		t.Fatalf("Load error = %q, want it to mention open config", err.Error())
	}
}

func TestLoad_ReadsTOMLFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
api_base = "  http://localhost:8080  "
check_version = false
show_headers = true
concurrency = 8
log_level = "DEBUG"
theme = "light"
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://localhost:8080" {
		t.Fatalf("APIBase = %q, want trimmed value", cfg.APIBase)
	}
	if cfg.CheckVersion {
		t.Fatal("CheckVersion = true, want false from file")
	}
	if !cfg.ShowHeaders {
		t.Fatal("ShowHeaders = false, want true from file")
	}
	if cfg.Concurrency != 8 {
		t.Fatalf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "console" {
		t.Fatalf("LogFormat = %q, want default console", cfg.LogFormat)
	}
	if cfg.Theme != "light" {
		t.Fatalf("Theme = %q, want light", cfg.Theme)
	}
}

func TestLoad_ConfigPathFromEnvironment(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `concurrency = 3`)
	t.Setenv(PathEnv, path)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Concurrency != 3 {
		t.Fatalf("Concurrency = %d, want 3", cfg.Concurrency)
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
api_base = "http://from-file"
concurrency = 2
log_format = "json"
`)
	t.Setenv("DSTK_API_BASE", "http://from-env")
	t.Setenv("DSTK_CONCURRENCY", "6")
	t.Setenv("DSTK_SHOW_HEADERS", "true")

	cfg, err := Load(path, map[string]any{"api_base": "http://from-flag"})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://from-flag" {
		t.Fatalf("APIBase = %q, want override to win", cfg.APIBase)
	}
	if cfg.Concurrency != 6 {
		t.Fatalf("Concurrency = %d, want env to beat file", cfg.Concurrency)
	}
	if !cfg.ShowHeaders {
		t.Fatal("ShowHeaders = false, want true from env")
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("LogFormat = %q, want json from file", cfg.LogFormat)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `api_base = [`)

	_, err := Load(path, nil)
	if err == nil {
		t.Fatal("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_ValidationReportsEveryField(t *testing.T) {
	isolate(t)

	_, err := Load("", map[string]any{
		"concurrency": 0,
		"log_format":  "xml",
	})
	if err == nil {
		t.Fatal("Load returned nil error, want validation error")
	}
	msg := err.Error()
	for _, want := range []string{"invalid config", "concurrency must be at least 1", "log_format must be one of"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q does not mention %q", msg, want)
		}
	}
}

func TestValidate_UpperBound(t *testing.T) {
	cfg := Default()
	cfg.Concurrency = 33
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "at most 32") {
		t.Fatalf("Validate = %v, want upper bound error", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestDefaultPath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := DefaultPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("DefaultPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/dstk/config.toml")) {
		t.Fatalf("DefaultPath = %q, want it to end with /dstk/config.toml", got)
	}
}

func TestTOMLParser_RoundTrip(t *testing.T) {
	p := TOMLParser()
	m, err := p.Unmarshal([]byte("theme = \"dark\"\nconcurrency = 5\n"))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["theme"] != "dark" {
		t.Fatalf("theme = %v, want dark", m["theme"])
	}
	out, err := p.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(out), "concurrency = 5") {
		t.Fatalf("Marshal = %q, want concurrency line", out)
	}
}
