package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Format
		wantErr bool
	}{
		"empty":          {input: "", want: FormatText},
		"text":           {input: "text", want: FormatText},
		"md":             {input: "md", want: FormatMarkdown},
		"markdown":       {input: "markdown", want: FormatMarkdown},
		"mixed case":     {input: "Markdown", want: FormatMarkdown},
		"html":           {input: "html", want: FormatHTML},
		"unknown format": {input: "pdf", wantErr: true},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "pdf")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_HTML(t *testing.T) {
	t.Parallel()

	got, err := RenderString(sampleReport(), RenderOptions{Format: FormatHTML})
	require.NoError(t, err)

	assert.Contains(t, got, "<h2>Changelog: 1.0.0 → 1.1.0</h2>")
	assert.Contains(t, got, "<h3>Features:</h3>")
	assert.Contains(t, got, "<li>export to csv</li>")
	assert.Contains(t, got, "<li>api: handle nil</li>")
	assert.Less(t, strings.Index(got, "Features"), strings.Index(got, "Bug Fixes"))
}

func TestMarkdownToHTML(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	require.NoError(t, MarkdownToHTML(&b, "# Title\n\n- one\n"))
	assert.Contains(t, b.String(), "<h1>Title</h1>")
	assert.Contains(t, b.String(), "<li>one</li>")
}
