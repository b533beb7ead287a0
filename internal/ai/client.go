// Package ai talks to an OpenAI-compatible chat-completions endpoint to
// summarize commits into a changelog and to draft commit messages.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultTimeout bounds one request when the caller sets none.
const DefaultTimeout = 60 * time.Second

// ErrNotConfigured is returned by New when the endpoint or key is missing.
var ErrNotConfigured = errors.New("ai endpoint and key are required")

// ErrEmptyResponse is returned when the endpoint answers without choices.
var ErrEmptyResponse = errors.New("empty response from model")

var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for AI requests.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Settings holds what the client needs from configuration.
type Settings struct {
	URL     string // Full chat-completions URL or a base URL
	Key     string
	Model   string
	Timeout time.Duration
}

// Client sends chat-completion requests.
type Client struct {
	model   string
	timeout time.Duration
	opts    []option.RequestOption
}

// New builds a client from settings. Extra request options are appended
// after the defaults, which lets tests swap the HTTP client.
func New(s Settings, extra ...option.RequestOption) (*Client, error) {
	if strings.TrimSpace(s.URL) == "" || strings.TrimSpace(s.Key) == "" {
		return nil, ErrNotConfigured
	}
	if s.Model == "" {
		return nil, errors.New("ai model is required")
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := BaseURL(s.URL)
	logDebug("[ai] endpoint base %s, model %s", base, s.Model)

	opts := []option.RequestOption{
		option.WithAPIKey(s.Key),
		option.WithBaseURL(base),
		option.WithMaxRetries(0),
	}
	opts = append(opts, extra...)

	return &Client{model: s.Model, timeout: timeout, opts: opts}, nil
}

// BaseURL derives the SDK base URL from a configured endpoint. A full
// ".../chat/completions" URL is cut back to its prefix; the result always
// ends with a slash.
func BaseURL(endpoint string) string {
	u := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	u = strings.TrimSuffix(u, "/chat/completions")
	return u + "/"
}

// Summarize asks the model to write a changelog for commits between from and to.
func (c *Client) Summarize(ctx context.Context, commits []string, from, to string, lang Language) (string, error) {
	logDebug("[ai] summarizing %d commits %s..%s (%s)", len(commits), from, to, lang)
	return c.complete(ctx, SummaryPrompt(commits, from, to, lang))
}

// CommitMessage asks the model for a commit message describing diff.
func (c *Client) CommitMessage(ctx context.Context, diff string, files []string, lang Language) (string, error) {
	logDebug("[ai] drafting commit message for %d bytes of diff (%s)", len(diff), lang)
	return c.complete(ctx, CommitMessagePrompt(diff, files, lang))
}

// complete sends a single user message and returns the first choice.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client := openai.NewClient(c.opts...)

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	logDebug("[ai] response in %s", time.Since(start).Round(time.Millisecond))

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
