package changelog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return Categorize("1.0.0", "1.1.0", []CommitRecord{
		{Type: "fix", Scope: "api", Description: "handle nil"},
		{Type: "feat", Description: "export to csv"},
		{Type: "other", Description: "Merge branch 'dev'"},
	})
}

func TestRender_Text(t *testing.T) {
	t.Parallel()

	got, err := RenderString(sampleReport(), RenderOptions{Format: FormatText})
	require.NoError(t, err)

	want := "Changelog: 1.0.0 → 1.1.0\n" +
		"\n" +
		"Features:\n" +
		"  - export to csv\n" +
		"\n" +
		"Bug Fixes:\n" +
		"  - api: handle nil\n" +
		"\n" +
		"Other:\n" +
		"  - Merge branch 'dev'\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestRender_MarkdownWithEmoji(t *testing.T) {
	t.Parallel()

	got, err := RenderString(sampleReport(), RenderOptions{Format: FormatMarkdown, Emoji: true})
	require.NoError(t, err)

	want := "## Changelog: 1.0.0 → 1.1.0\n" +
		"\n" +
		"### ✨ Features:\n" +
		"  - export to csv\n" +
		"\n" +
		"### 🐛 Bug Fixes:\n" +
		"  - api: handle nil\n" +
		"\n" +
		"### 📝 Other:\n" +
		"  - Merge branch 'dev'\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestRender_EmptyReportIsHeaderOnly(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		format Format
		want   string
	}{
		"text":     {format: FormatText, want: "Changelog: 1.0.0 → 1.1.0\n"},
		"markdown": {format: FormatMarkdown, want: "## Changelog: 1.0.0 → 1.1.0\n"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := RenderString(Categorize("1.0.0", "1.1.0", nil), RenderOptions{Format: tt.format})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	opts := RenderOptions{Format: FormatMarkdown, Emoji: true}
	first, err := RenderString(sampleReport(), opts)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := RenderString(sampleReport(), opts)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRender_UnsortedSections(t *testing.T) {
	t.Parallel()

	r := &Report{
		From: "a",
		To:   "b",
		Sections: []Section{
			{Category: CategoryOther, Records: []CommitRecord{{Description: "o"}}},
			{Category: CategoryFeat, Records: []CommitRecord{{Description: "f"}}},
		},
	}

	got, err := RenderString(r, RenderOptions{})
	require.NoError(t, err)
	assert.Less(t, strings.Index(got, "Features:"), strings.Index(got, "Other:"))
	assert.Equal(t, CategoryOther, r.Sections[0].Category, "input is not mutated")
}

func TestStripEmoji(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		label string
		want  string
	}{
		"sparkles":           {label: "✨ Features", want: "Features"},
		"variation selector": {label: "♻️ Refactors", want: "Refactors"},
		"multi symbol":       {label: "🔧🔧  Chores", want: "Chores"},
		"plain":              {label: "Features", want: "Features"},
		"inner symbol kept":  {label: "Bug ✨ Fixes", want: "Bug ✨ Fixes"},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StripEmoji(tt.label))
		})
	}
}

func TestStripEmoji_AllLabels(t *testing.T) {
	t.Parallel()

	for _, c := range ValidCategories() {
		assert.Equal(t, c.Info().Title, StripEmoji(c.Info().Label))
		assert.Equal(t, c.Info().Title, CategoryTitle(c, false))
		assert.Equal(t, c.Info().Label, CategoryTitle(c, true))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriterError(t *testing.T) {
	t.Parallel()

	err := Render(failingWriter{}, sampleReport(), RenderOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestPipeline_MixedSubjects(t *testing.T) {
	t.Parallel()

	subjects := []string{"feat(auth): add login", "fix: null pointer", "v1.2.0", "chore: bump deps", "weird message"}
	records := ParseCommits(subjects)
	require.Len(t, records, 4)
	assert.Equal(t, CommitRecord{Type: "other", Description: "weird message"}, records[3])

	got, err := RenderString(Categorize("1.1.0", "1.2.0", records), RenderOptions{})
	require.NoError(t, err)

	want := "Changelog: 1.1.0 → 1.2.0\n" +
		"\n" +
		"Features:\n" +
		"  - auth: add login\n" +
		"\n" +
		"Bug Fixes:\n" +
		"  - null pointer\n" +
		"\n" +
		"Chores:\n" +
		"  - bump deps\n" +
		"\n" +
		"Other:\n" +
		"  - weird message\n" +
		"\n"
	assert.Equal(t, want, got)
}
