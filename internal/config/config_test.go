// Package config tests layered configuration loading, saving and migration.
// Related: internal/config/config.go, internal/config/save.go, internal/config/migrate.go
// Tags: config, koanf, yaml, json, legacy, env

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolatedOptions points every config location into a fresh temp dir.
func isolatedOptions(t *testing.T) (LoadOptions, string) {
	t.Helper()
	dir := t.TempDir()
	return LoadOptions{
		UserConfigPath:   filepath.Join(dir, "vchangelog", "config.yml"),
		LegacyConfigPath: filepath.Join(dir, ".vchangelog.json"),
		WarningWriter:    &bytes.Buffer{},
		SkipEnv:          true,
	}, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.URL)
	assert.Equal(t, "", cfg.Key)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, "zh", cfg.Lang)
	assert.False(t, cfg.Emoji)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.False(t, cfg.HasAI())
	assert.Equal(t, SourceDefault, cfg.Source("model"))
}

func TestLoad_LegacyJSON(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	warnings := &bytes.Buffer{}
	opts.WarningWriter = warnings
	writeFile(t, opts.LegacyConfigPath, `{"url": "https://api.example.com/v1/chat/completions", "key": "sk-abcdefghijkl", "model": "gpt-4o", "lang": "en"}`)

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1/chat/completions", cfg.URL)
	assert.Equal(t, "sk-abcdefghijkl", cfg.Key)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "en", cfg.Lang)
	assert.True(t, cfg.HasAI())
	assert.Equal(t, SourceLegacy, cfg.Source("key"))
	assert.Contains(t, warnings.String(), "deprecated JSON config")
	assert.Contains(t, warnings.String(), "vchangelog config migrate")
}

func TestLoad_YAMLWinsOverLegacy(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	warnings := &bytes.Buffer{}
	opts.WarningWriter = warnings
	writeFile(t, opts.LegacyConfigPath, `{"model": "legacy-model"}`)
	writeFile(t, opts.UserConfigPath, "model: yaml-model\nemoji: true\n")

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)

	assert.Equal(t, "yaml-model", cfg.Model)
	assert.True(t, cfg.Emoji)
	assert.Equal(t, SourceUser, cfg.Source("model"))
	assert.Contains(t, warnings.String(), "ignored")
}

func TestLoad_SkipWarnings(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	warnings := &bytes.Buffer{}
	opts.WarningWriter = warnings
	opts.SkipWarnings = true
	writeFile(t, opts.LegacyConfigPath, `{"lang": "en"}`)

	_, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Empty(t, warnings.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	opts, _ := isolatedOptions(t)
	opts.SkipEnv = false
	writeFile(t, opts.UserConfigPath, "model: yaml-model\nlang: zh\n")

	t.Setenv("VCHANGELOG_MODEL", "env-model")
	t.Setenv("VCHANGELOG_LANG", "en")
	t.Setenv("VCHANGELOG_EMOJI", "true")
	t.Setenv("VCHANGELOG_DEBUG", "1")

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)

	assert.Equal(t, "env-model", cfg.Model)
	assert.Equal(t, "en", cfg.Lang)
	assert.True(t, cfg.Emoji)
	assert.Equal(t, SourceEnv, cfg.Source("model"))
	_, leaked := cfg.Sources["debug"]
	assert.False(t, leaked)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		yaml      string
		wantField string
	}{
		"empty model":    {yaml: "model: \"\"\n", wantField: "model"},
		"bad url":        {yaml: "url: not a url\n", wantField: "url"},
		"schemeless url": {yaml: "url: api.example.com/v1/chat/completions\n", wantField: "url"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			opts, _ := isolatedOptions(t)
			writeFile(t, opts.UserConfigPath, tt.yaml)

			_, err := LoadWithOptions(opts)
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestLoad_UnknownLanguageAccepted(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	writeFile(t, opts.LegacyConfigPath, `{"lang": "english"}`)

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "english", cfg.Lang)
}

func TestLoad_SkipValidation(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	opts.SkipValidation = true
	writeFile(t, opts.LegacyConfigPath, `{"url": "api.example.com/v1/chat/completions", "model": "", "emoji": true}`)

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.True(t, cfg.Emoji)
	assert.Equal(t, "api.example.com/v1/chat/completions", cfg.URL)

	err = cfg.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "url", verr.Field)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultLang, cfg.Lang)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.False(t, cfg.HasAI())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BrokenYAML(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	writeFile(t, opts.UserConfigPath, "model: [unclosed\n")

	_, err := LoadWithOptions(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating YAML syntax")
}

func TestMaskedKey(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		key  string
		want string
	}{
		"empty": {key: "", want: ""},
		"long":  {key: "sk-1234567890", want: "sk-12345..."},
		"short": {key: "abc", want: "abc..."},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Configuration{Key: tt.key}.MaskedKey())
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	want := Configuration{
		URL:     "https://api.example.com/v1/chat/completions",
		Key:     "sk-secret",
		Model:   "gpt-4o-mini",
		Lang:    "en",
		Emoji:   true,
		Timeout: 90 * time.Second,
	}

	require.NoError(t, Save(want, opts.UserConfigPath))

	info, err := os.Stat(opts.UserConfigPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, want.URL, got.URL)
	assert.Equal(t, want.Key, got.Key)
	assert.Equal(t, want.Model, got.Model)
	assert.Equal(t, want.Lang, got.Lang)
	assert.Equal(t, want.Emoji, got.Emoji)
	assert.Equal(t, want.Timeout, got.Timeout)
}

func TestSave_RejectsInvalid(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	err := Save(Configuration{Model: "m", URL: "example.com/chat"}, opts.UserConfigPath)
	require.Error(t, err)
	assert.NoFileExists(t, opts.UserConfigPath)
}

func TestSetValue(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	writeFile(t, opts.UserConfigPath, "model: kept\n")

	parsed, err := SetValue(opts.UserConfigPath, "emoji", "yes")
	require.NoError(t, err)
	assert.Equal(t, true, parsed.Parsed)

	_, err = SetValue(opts.UserConfigPath, "timeout", "2m")
	require.NoError(t, err)

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "kept", cfg.Model)
	assert.True(t, cfg.Emoji)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)

	_, err = SetValue(opts.UserConfigPath, "lang", "fr")
	require.Error(t, err)

	_, err = SetValue(opts.UserConfigPath, "colour", "red")
	var unknown ErrUnknownKey
	require.ErrorAs(t, err, &unknown)
}

func TestSetValue_FirstWriteUsesTemplate(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	_, err := SetValue(opts.UserConfigPath, "model", "gpt-4o")
	require.NoError(t, err)

	data, err := os.ReadFile(opts.UserConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# vchangelog configuration")
	assert.Contains(t, string(data), "# Chat model name")
	assert.Contains(t, string(data), "# Prompt language")

	_, err = SetValue(opts.UserConfigPath, "lang", "en")
	require.NoError(t, err)

	data, err = os.ReadFile(opts.UserConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Chat model name")
	assert.Contains(t, string(data), "# Prompt language")

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestSave_KeepsComments(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	writeFile(t, opts.UserConfigPath, "# mine\nmodel: old # pinned\n")

	require.NoError(t, Save(Configuration{Model: "new", Lang: "en"}, opts.UserConfigPath))

	data, err := os.ReadFile(opts.UserConfigPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# mine")
	assert.Contains(t, string(data), "model: new # pinned")
	assert.NotContains(t, string(data), "# Chat model name")
}

func TestValidateYAMLSyntaxFromBytes(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateYAMLSyntaxFromBytes([]byte("  \n"), "c.yml"))
	assert.NoError(t, ValidateYAMLSyntaxFromBytes([]byte("model: m\n"), "c.yml"))

	err := ValidateYAMLSyntaxFromBytes([]byte("model: m\n  lang: [\n"), "c.yml")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "c.yml", verr.FilePath)
	assert.Positive(t, verr.Line)
}

func TestMigrateJSONToYAML(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	writeFile(t, opts.LegacyConfigPath, `{"url": "https://x.example/v1/chat/completions", "key": "k", "model": "m", "lang": "en", "extra": 1}`)

	dry, err := MigrateJSONToYAML(opts.LegacyConfigPath, opts.UserConfigPath, true)
	require.NoError(t, err)
	assert.True(t, dry.Success)
	assert.NoFileExists(t, opts.UserConfigPath)

	res, err := MigrateJSONToYAML(opts.LegacyConfigPath, opts.UserConfigPath, false)
	require.NoError(t, err)
	assert.True(t, res.Success)

	data, err := os.ReadFile(opts.UserConfigPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "extra")
	require.NoError(t, ValidateYAMLSyntax(opts.UserConfigPath))

	again, err := MigrateJSONToYAML(opts.LegacyConfigPath, opts.UserConfigPath, false)
	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Contains(t, again.Message, "skipped")

	require.NoError(t, RemoveLegacyConfig(opts.LegacyConfigPath, false))
	assert.NoFileExists(t, opts.LegacyConfigPath)
	assert.FileExists(t, opts.LegacyConfigPath+".bak")
}

func TestMigrateJSONToYAML_NoLegacy(t *testing.T) {
	t.Parallel()

	opts, _ := isolatedOptions(t)
	res, err := MigrateJSONToYAML(opts.LegacyConfigPath, opts.UserConfigPath, false)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "No JSON config")
}

func TestKeys_Order(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"url", "key", "model", "lang", "emoji", "timeout"}, Keys())
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	p, err := UserConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "vchangelog", "config.yml"), p)

	legacy, err := LegacyConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".vchangelog.json"), legacy)
}
