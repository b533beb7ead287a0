// Package changelog turns commit subjects into a categorized changelog.
//
// This package implements:
//   - version tag detection on commit subjects
//   - commit range lookup from hash/subject pairs
//   - conventional-commit parsing into CommitRecord values
//   - grouping into a fixed, ranked category taxonomy
//   - deterministic text, markdown and HTML rendering
//
// Nothing here touches git directly. Callers supply the subject streams through
// a Source (see internal/git) or as plain slices.
package changelog
