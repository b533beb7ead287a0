// Package diffreport reformats a raw unified diff for reading in a terminal.
// It inserts a separator block naming each file before its "diff --git"
// header. Embedded colour codes are ignored for classification and passed
// through untouched.
package diffreport

import (
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// DefaultWidth is the width of the separator rule in runes.
const DefaultWidth = 60

const headerPrefix = "diff --git "

// ansiPattern matches CSI escape sequences such as "\x1b[1;32m".
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// Options controls separator rendering.
type Options struct {
	Width int  // Separator width; 0 means DefaultWidth
	Color bool // Colour the separator and label
}

// Reformat reformats raw with plain 60-wide separators.
func Reformat(raw string) string {
	return ReformatWithOptions(raw, Options{})
}

// ReformatWithOptions inserts, before every file header line, a separator
// rule, the file label and a second rule. A blank line precedes every block
// except the first. All other lines are emitted unchanged.
func ReformatWithOptions(raw string, opts Options) string {
	if raw == "" {
		return ""
	}

	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	rule := strings.Repeat("─", width)

	ruleColor := color.New(color.FgCyan)
	labelColor := color.New(color.FgYellow, color.Bold)
	if opts.Color {
		ruleColor.EnableColor()
		labelColor.EnableColor()
	} else {
		ruleColor.DisableColor()
		labelColor.DisableColor()
	}

	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines)+4)
	seen := 0

	for _, line := range lines {
		a, b, ok := ParseFileHeader(StripANSI(line))
		if !ok {
			out = append(out, line)
			continue
		}

		if seen > 0 {
			out = append(out, "")
		}
		seen++

		out = append(out,
			ruleColor.Sprint(rule),
			labelColor.Sprint(Label(a, b)),
			ruleColor.Sprint(rule),
			line,
		)
	}

	return strings.Join(out, "\n")
}

// Label returns "a -> b" for renames and just the path otherwise.
func Label(a, b string) string {
	if a == b {
		return a
	}
	return a + " -> " + b
}

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	return ansiPattern.ReplaceAllString(s, "")
}

// ParseFileHeader extracts the two paths from a "diff --git a/<p> b/<q>"
// line. The line must already be free of escape codes.
func ParseFileHeader(line string) (a, b string, ok bool) {
	rest, found := strings.CutPrefix(line, headerPrefix)
	if !found {
		return "", "", false
	}
	rest = strings.TrimRight(rest, "\r")

	if strings.HasPrefix(rest, `"`) {
		return parseQuotedHeader(rest)
	}

	if !strings.HasPrefix(rest, "a/") {
		return "", "", false
	}

	// Unrenamed files repeat the same path, which disambiguates paths that
	// themselves contain " b/".
	if n := len(rest); n%2 == 1 {
		half := (n - 1) / 2
		left, right := rest[:half], rest[half+1:]
		if rest[half] == ' ' && strings.HasPrefix(right, "b/") && left[2:] == right[2:] {
			return left[2:], right[2:], true
		}
	}

	idx := strings.LastIndex(rest, " b/")
	if idx < 0 {
		return "", "", false
	}
	return rest[2:idx], rest[idx+3:], true
}

// parseQuotedHeader handles git's quoted form used for unusual file names:
// diff --git "a/with space" "b/with space".
func parseQuotedHeader(rest string) (a, b string, ok bool) {
	parts := strings.SplitN(rest, `" "`, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	left := strings.TrimPrefix(parts[0], `"`)
	right := strings.TrimSuffix(parts[1], `"`)
	if !strings.HasPrefix(left, "a/") || !strings.HasPrefix(right, "b/") {
		return "", "", false
	}
	return left[2:], right[2:], true
}
