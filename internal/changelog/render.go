package changelog

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// RenderOptions controls how a Report is rendered.
type RenderOptions struct {
	Format Format
	Emoji  bool // Keep the emoji prefix on category titles
}

// leadingSymbols matches a leading run of characters that are neither word
// characters nor whitespace, plus the whitespace that follows.
var leadingSymbols = regexp.MustCompile(`^[^\p{L}\p{N}_\s]+\s*`)

// Render writes the report to w.
//
// Layout: a header line, a blank line, then for every section a heading,
// one line per record and a blank line. An empty report renders as the
// header line only. Sections are written in rank order.
//
// The function is deterministic: the same report and options always produce
// byte-identical output.
func Render(w io.Writer, r *Report, opts RenderOptions) error {
	if opts.Format == FormatHTML {
		return RenderHTML(w, r, opts.Emoji)
	}

	ew := &errWriter{w: w}
	md := opts.Format == FormatMarkdown

	ew.printf("%s\n", formatHeader(r.From, r.To, md))
	if r.IsEmpty() {
		return ew.err
	}
	ew.println("")

	for _, s := range sortedSections(r.Sections) {
		ew.printf("%s\n", formatCategoryHeading(s.Category, md, opts.Emoji))
		for _, rec := range s.Records {
			ew.printf("%s\n", formatRecord(rec))
		}
		ew.println("")
	}

	return ew.err
}

// RenderString is a convenience function that renders to a string.
func RenderString(r *Report, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := Render(&b, r, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// formatHeader formats the "Changelog: from → to" line.
func formatHeader(from, to string, md bool) string {
	header := fmt.Sprintf("Changelog: %s → %s", from, to)
	if md {
		return "## " + header
	}
	return header
}

// formatCategoryHeading formats a category heading such as "Features:".
func formatCategoryHeading(c Category, md, emoji bool) string {
	title := CategoryTitle(c, emoji)
	if md {
		return "### " + title + ":"
	}
	return title + ":"
}

// formatRecord formats a single record line.
func formatRecord(rec CommitRecord) string {
	if rec.HasScope() {
		return fmt.Sprintf("  - %s: %s", rec.Scope, rec.Description)
	}
	return "  - " + rec.Description
}

// CategoryTitle returns the category label, with its emoji prefix only when
// emoji is true.
func CategoryTitle(c Category, emoji bool) string {
	label := c.Info().Label
	if emoji {
		return label
	}
	return StripEmoji(label)
}

// StripEmoji removes any leading run of non-word, non-space characters and
// the whitespace after it. "✨ Features" becomes "Features"; a label without
// a symbolic prefix is returned unchanged.
func StripEmoji(label string) string {
	return leadingSymbols.ReplaceAllString(label, "")
}

// sortedSections returns sections in rank order without modifying the input.
// Reports built by Categorize are already sorted; hand-built ones may not be.
func sortedSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Category.Rank() < out[j-1].Category.Rank(); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
