// Package config provides layered configuration management for vchangelog using koanf.
// Configuration is loaded with priority: environment variables > user config
// (~/.config/vchangelog/config.yml) > legacy JSON (~/.vchangelog.json) > defaults.
// The legacy JSON file is the format written by earlier releases; it is still read,
// with a warning, until it is migrated to YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "VCHANGELOG_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceLegacy  ConfigSource = "legacy"
	SourceUser    ConfigSource = "user"
	SourceEnv     ConfigSource = "env"
)

// debugLogger receives layer-by-layer load messages; nil disables them.
var debugLogger func(format string, args ...any)

// SetDebugLogger installs a logger for configuration loading.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Configuration is the vchangelog configuration record. It is loaded once per
// invocation and passed by value.
type Configuration struct {
	// URL is the full chat-completions endpoint,
	// e.g. https://api.openai.com/v1/chat/completions.
	URL string `koanf:"url" validate:"omitempty,url"`
	// Key is the API key sent as a bearer token.
	Key string `koanf:"key"`
	// Model is the chat model name.
	Model string `koanf:"model" validate:"required"`
	// Lang selects the AI prompt language: zh or en.
	// Values other than zh fall back to English prompts.
	Lang string `koanf:"lang"`
	// Emoji is the default for category emoji prefixes when neither
	// --emoji nor --no-emoji is given.
	Emoji bool `koanf:"emoji"`
	// Timeout bounds a single AI request.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`

	// Sources maps each key to the layer that last set it.
	Sources map[string]ConfigSource `koanf:"-"`
}

// HasAI reports whether both the endpoint and the key are configured.
func (c Configuration) HasAI() bool {
	return c.URL != "" && c.Key != ""
}

// MaskedKey returns the first 8 characters of the key followed by "...",
// or the empty string when no key is set.
func (c Configuration) MaskedKey() string {
	if c.Key == "" {
		return ""
	}
	if len(c.Key) <= 8 {
		return c.Key + "..."
	}
	return c.Key[:8] + "..."
}

// Validate checks the values the AI client depends on: url, model and
// timeout.
func (c Configuration) Validate() error {
	if err := ValidateConfigValues(&c, "config"); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Source returns the layer that supplied key.
func (c Configuration) Source(key string) ConfigSource {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// UserConfigPath overrides the YAML config path (default: UserConfigPath()).
	UserConfigPath string
	// LegacyConfigPath overrides the legacy JSON path (default: ~/.vchangelog.json).
	LegacyConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
	// SkipEnv ignores VCHANGELOG_* environment variables.
	SkipEnv bool
	// SkipValidation returns the record without checking values. Commands
	// that never call the AI endpoint load this way; Validate runs later
	// for those that do.
	SkipValidation bool
}

// Load loads configuration from the default locations without checking
// values. Call Validate before using the AI settings.
func Load() (Configuration, error) {
	return LoadWithOptions(LoadOptions{SkipValidation: true})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (Configuration, error) {
	k := koanf.New(".")
	sources := make(map[string]ConfigSource)
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	userPath, legacyPath, err := resolvePaths(opts)
	if err != nil {
		return Configuration{}, err
	}

	if err := loadUserConfig(k, sources, userPath, legacyPath, warningWriter, opts.SkipWarnings); err != nil {
		return Configuration{}, err
	}

	if !opts.SkipEnv {
		if err := loadEnvironmentConfig(k, sources); err != nil {
			return Configuration{}, err
		}
	}

	return finalizeConfig(k, sources, opts.SkipValidation)
}

func resolvePaths(opts LoadOptions) (userPath, legacyPath string, err error) {
	userPath = opts.UserConfigPath
	if userPath == "" {
		if userPath, err = UserConfigPath(); err != nil {
			return "", "", fmt.Errorf("resolving user config path: %w", err)
		}
	}
	legacyPath = opts.LegacyConfigPath
	if legacyPath == "" {
		if legacyPath, err = LegacyConfigPath(); err != nil {
			return "", "", fmt.Errorf("resolving legacy config path: %w", err)
		}
	}
	return userPath, legacyPath, nil
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadUserConfig loads the YAML config, falling back to the legacy JSON file.
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadUserConfig(k *koanf.Koanf, sources map[string]ConfigSource, yamlPath, legacyPath string, warningWriter io.Writer, skipWarnings bool) error {
	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, sources, yamlPath); err != nil {
			return fmt.Errorf("loading user YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyPath, yamlPath, legacyExists, skipWarnings)
	case legacyExists:
		if err := loadLegacyJSONConfig(k, sources, legacyPath, warningWriter, skipWarnings); err != nil {
			return fmt.Errorf("loading legacy JSON config: %w", err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, sources map[string]ConfigSource, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	return loadLayer(k, sources, SourceUser, file.Provider(path), yaml.Parser())
}

// loadLegacyJSONConfig loads legacy JSON and warns about migration
func loadLegacyJSONConfig(k *koanf.Koanf, sources map[string]ConfigSource, path string, warningWriter io.Writer, skipWarnings bool) error {
	if err := loadLayer(k, sources, SourceLegacy, file.Provider(path), json.Parser()); err != nil {
		return err
	}
	if !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", path)
		fmt.Fprintf(warningWriter, "  Run 'vchangelog config migrate' to migrate to YAML format.\n\n")
	}
	return nil
}

// warnLegacyExists warns if legacy JSON exists alongside new YAML
func warnLegacyExists(warningWriter io.Writer, legacyPath, yamlPath string, legacyExists, skipWarnings bool) {
	if legacyExists && !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		fmt.Fprintf(warningWriter, "  Run 'vchangelog config migrate' to back it up and stop this warning.\n\n")
	}
}

// loadEnvironmentConfig loads environment variable overrides.
// Only known keys are taken so unrelated VCHANGELOG_* variables such as
// VCHANGELOG_DEBUG do not leak into the record.
func loadEnvironmentConfig(k *koanf.Koanf, sources map[string]ConfigSource) error {
	provider := env.Provider(EnvPrefix, ".", func(s string) string {
		key := envTransform(s)
		if _, ok := KnownKeys[key]; !ok {
			return ""
		}
		return key
	})
	if err := loadLayer(k, sources, SourceEnv, provider, nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// loadLayer loads one source into its own koanf instance, records which keys
// it set, then merges it over k.
func loadLayer(k *koanf.Koanf, sources map[string]ConfigSource, source ConfigSource, p koanf.Provider, parser koanf.Parser) error {
	layer := koanf.New(".")
	if err := layer.Load(p, parser); err != nil {
		return fmt.Errorf("failed to load %s config: %w", source, err)
	}
	keys := layer.Keys()
	for _, key := range keys {
		sources[key] = source
	}
	logDebug("[config] %s layer set %v", source, keys)
	return k.Merge(layer)
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf, sources map[string]ConfigSource, skipValidation bool) (Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return Configuration{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.Key = strings.TrimSpace(cfg.Key)
	cfg.Lang = strings.ToLower(strings.TrimSpace(cfg.Lang))
	cfg.Sources = sources

	if skipValidation {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Keys returns the known configuration keys in display order.
func Keys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return KnownKeys[keys[i]].Order < KnownKeys[keys[j]].Order
	})
	return keys
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: VCHANGELOG_MODEL -> model
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}
