package changelog

import "context"

// Category identifies one of the fixed changelog buckets. The value is the
// conventional-commit type it collects (e.g. "feat").
type Category string

const (
	CategoryFeat     Category = "feat"
	CategoryFix      Category = "fix"
	CategoryPerf     Category = "perf"
	CategoryChore    Category = "chore"
	CategoryDocs     Category = "docs"
	CategoryRefactor Category = "refactor"
	CategoryTest     Category = "test"
	CategoryOther    Category = "other"
)

// CategoryInfo holds the display label and sort rank of a category.
// Label carries the emoji prefix; Title is the bare human title.
type CategoryInfo struct {
	Label string
	Title string
	Rank  int
}

// categoryTable is closed: any type not listed here is folded into "other".
var categoryTable = map[Category]CategoryInfo{
	CategoryFeat:     {Label: "✨ Features", Title: "Features", Rank: 1},
	CategoryFix:      {Label: "🐛 Bug Fixes", Title: "Bug Fixes", Rank: 2},
	CategoryPerf:     {Label: "⚡ Performance", Title: "Performance", Rank: 3},
	CategoryChore:    {Label: "🔧 Chores", Title: "Chores", Rank: 4},
	CategoryDocs:     {Label: "📚 Documentation", Title: "Documentation", Rank: 5},
	CategoryRefactor: {Label: "♻️ Refactors", Title: "Refactors", Rank: 6},
	CategoryTest:     {Label: "🧪 Tests", Title: "Tests", Rank: 7},
	CategoryOther:    {Label: "📝 Other", Title: "Other", Rank: 99},
}

// Info returns the label and rank for the category. Unknown categories
// report the "other" entry.
func (c Category) Info() CategoryInfo {
	if info, ok := categoryTable[c]; ok {
		return info
	}
	return categoryTable[CategoryOther]
}

// Rank returns the category's fixed sort rank.
func (c Category) Rank() int {
	return c.Info().Rank
}

// IsKnown reports whether c is one of the fixed categories.
func (c Category) IsKnown() bool {
	_, ok := categoryTable[c]
	return ok
}

// ValidCategories returns all categories in rank order.
func ValidCategories() []Category {
	return []Category{
		CategoryFeat,
		CategoryFix,
		CategoryPerf,
		CategoryChore,
		CategoryDocs,
		CategoryRefactor,
		CategoryTest,
		CategoryOther,
	}
}

// CommitRecord is the structured form of one commit subject.
// An empty Scope means the subject carried no scope.
type CommitRecord struct {
	Type        string
	Scope       string
	Description string
}

// HasScope reports whether the record carries a scope.
func (r CommitRecord) HasScope() bool {
	return r.Scope != ""
}

// HashSubject is one "hash subject" line from the commit stream.
type HashSubject struct {
	Hash    string
	Subject string
}

// Section is one category block of a report. Records keep input order.
type Section struct {
	Category Category
	Records  []CommitRecord
}

// Report is a categorized changelog between two versions.
// Sections are sorted by category rank and never empty.
type Report struct {
	From     string
	To       string
	Sections []Section
}

// IsEmpty returns true if the report has no sections.
func (r *Report) IsEmpty() bool {
	return len(r.Sections) == 0
}

// Source supplies the text streams the classifier works on.
// Subjects and HashSubjects cover every commit reachable from any ref,
// newest first. SubjectsBetween returns the subjects of commits reachable
// from toID but not from fromID.
type Source interface {
	Subjects(ctx context.Context) ([]string, error)
	HashSubjects(ctx context.Context) ([]HashSubject, error)
	SubjectsBetween(ctx context.Context, fromID, toID string) ([]string, error)
}
