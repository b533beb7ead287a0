package config

import "time"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-3.5-turbo"

// DefaultLang is the AI prompt language when none is configured.
const DefaultLang = "zh"

// DefaultTimeout bounds a single AI request.
const DefaultTimeout = "60s"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# vchangelog configuration
# See 'vchangelog config -h' for commands.

# AI settings (used by --ai and --commit-msg)
url: ""                               # Full chat-completions URL, e.g. https://api.openai.com/v1/chat/completions
key: ""                               # API key
model: gpt-3.5-turbo                  # Chat model name
lang: zh                              # Prompt language: zh | en
timeout: 60s                          # Max duration of one AI request

# Output settings
emoji: false                          # Prefix category titles with emoji by default
`
}

// Default returns the record used when no configuration can be read.
func Default() Configuration {
	timeout, _ := time.ParseDuration(DefaultTimeout)
	return Configuration{
		Model:   DefaultModel,
		Lang:    DefaultLang,
		Timeout: timeout,
		Sources: map[string]ConfigSource{},
	}
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"url":     "",
		"key":     "",
		"model":   DefaultModel,
		"lang":    DefaultLang,
		"emoji":   false,
		"timeout": DefaultTimeout,
	}
}
