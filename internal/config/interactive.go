package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// prompt is one interactive question.
type prompt struct {
	key     string
	label   string
	current string
	shown   string
}

// Configure asks for each AI setting on out and reads answers from in.
// Empty input keeps the current value; the key is shown masked. Invalid
// answers are reported and asked again. End of input keeps the remaining
// values unchanged. The returned record has not been saved.
func Configure(in io.Reader, out io.Writer, current Configuration) (Configuration, error) {
	fmt.Fprintln(out, "配置 AI API (Configure AI API)")
	fmt.Fprintln(out, "URL 需要完整路径，如 https://api.openai.com/v1/chat/completions")
	fmt.Fprintln(out, "URL should be full path, e.g. https://api.openai.com/v1/chat/completions")
	fmt.Fprintln(out)

	prompts := []prompt{
		{key: "url", label: "API URL", current: current.URL},
		{key: "key", label: "API Key", current: current.Key, shown: current.MaskedKey()},
		{key: "model", label: "Model", current: current.Model},
		{key: "lang", label: "Language (zh/en)", current: current.Lang},
		{key: "emoji", label: "Emoji by default (true/false)", current: fmt.Sprint(current.Emoji)},
	}

	reader := bufio.NewReader(in)
	next := current

	for _, p := range prompts {
		value, changed, err := ask(reader, out, p)
		if err != nil {
			return Configuration{}, err
		}
		if !changed {
			continue
		}
		if err := apply(&next, p.key, value); err != nil {
			return Configuration{}, err
		}
	}

	if next.Timeout == 0 {
		next.Timeout, _ = time.ParseDuration(DefaultTimeout)
	}
	return next, nil
}

// ask prompts until the answer validates or input ends. changed is false
// when the current value should be kept.
func ask(reader *bufio.Reader, out io.Writer, p prompt) (value string, changed bool, err error) {
	shown := p.shown
	if shown == "" && p.key != "key" {
		shown = p.current
	}

	for {
		fmt.Fprintf(out, "%s [%s]: ", p.label, shown)
		line, rerr := reader.ReadString('\n')
		eof := errors.Is(rerr, io.EOF)
		if rerr != nil && !eof {
			return "", false, fmt.Errorf("reading %s: %w", p.key, rerr)
		}

		answer := strings.TrimSpace(line)
		if answer == "" {
			if eof {
				fmt.Fprintln(out)
			}
			return "", false, nil
		}

		if _, verr := ValidateValue(p.key, answer); verr != nil {
			fmt.Fprintf(out, "  %v\n", verr)
			if eof {
				return "", false, nil
			}
			continue
		}
		return answer, true, nil
	}
}

func apply(cfg *Configuration, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "url":
		cfg.URL = value
	case "key":
		cfg.Key = value
	case "model":
		cfg.Model = value
	case "lang":
		cfg.Lang = value
	case "emoji":
		cfg.Emoji = parsed.Parsed.(bool)
	}
	return nil
}
