package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config holds the CLI settings after all layers are merged.
type Config struct {
	APIBase      string `koanf:"api_base"`
	CheckVersion bool   `koanf:"check_version"`
	ShowHeaders  bool   `koanf:"show_headers"`
	Concurrency  int    `koanf:"concurrency" validate:"gte=1,lte=32"`
	LogLevel     string `koanf:"log_level" validate:"oneof=trace debug info warn warning error disabled"`
	LogFormat    string `koanf:"log_format" validate:"oneof=console json"`
	Theme        string `koanf:"theme" validate:"oneof=auto dark light plain"`
}

const (
	// EnvPrefix marks environment variables read by Load, eg DSTK_CONCURRENCY.
	EnvPrefix = "DSTK_"
	// PathEnv names an alternative config file.
	PathEnv = EnvPrefix + "CONFIG"

	defaultConfigPath  = "~/.config/dstk/config.toml"
	defaultConcurrency = 4
)

// Default returns the built-in settings. An empty APIBase lets the client
// apply its own fallback.
func Default() Config {
	return Config{
		CheckVersion: true,
		Concurrency:  defaultConcurrency,
		LogLevel:     "warn",
		LogFormat:    "console",
		Theme:        "auto",
	}
}

// Load merges defaults, the TOML file, DSTK_* environment variables and
// overrides, in that order, and validates the result.
//
// The file is path when given, else $DSTK_CONFIG, else
// ~/.config/dstk/config.toml. Only the default location may be missing.
// Override keys use the koanf names, eg "api_base".
func Load(path string, overrides map[string]any) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	resolved, required, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	if _, statErr := os.Stat(resolved); statErr == nil {
		if err := k.Load(file.Provider(resolved), TOMLParser()); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	} else if required || !errors.Is(statErr, os.ErrNotExist) {
		return Config{}, fmt.Errorf("open config: %w", statErr)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return Config{}, fmt.Errorf("set %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps DSTK_LOG_LEVEL to log_level.
func envKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
}

func (c *Config) normalize() {
	c.APIBase = strings.TrimSpace(c.APIBase)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate reports every invalid field in one error.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %q)", fe.Field(), fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// resolvePath reports whether the file must exist, which is the case for
// any location other than the default.
func resolvePath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		resolved, err := expandPath(path)
		return resolved, true, err
	}
	if fromEnv := strings.TrimSpace(os.Getenv(PathEnv)); fromEnv != "" {
		resolved, err := expandPath(fromEnv)
		return resolved, true, err
	}
	resolved, err := expandPath(defaultConfigPath)
	return resolved, false, err
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	expanded, err := expandPath(defaultConfigPath)
	if err != nil {
		return defaultConfigPath
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
