package changelog

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
)

// Format selects the output rendering of a Report.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a user-supplied format name to a Format.
// "md" and "markdown" both select markdown; the empty string selects text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: text, md, markdown, html)", name)
	}
}

// ValidFormats returns the accepted format names for help text.
func ValidFormats() []string {
	return []string{"text", "md", "markdown", "html"}
}

// RenderHTML renders the markdown form of the report and converts it to an
// HTML fragment.
func RenderHTML(w io.Writer, r *Report, emoji bool) error {
	md, err := RenderString(r, RenderOptions{Format: FormatMarkdown, Emoji: emoji})
	if err != nil {
		return err
	}
	return MarkdownToHTML(w, md)
}

// MarkdownToHTML converts arbitrary markdown (such as an AI summary) to HTML.
func MarkdownToHTML(w io.Writer, md string) error {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return fmt.Errorf("converting markdown to html: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	return nil
}
