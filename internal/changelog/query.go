package changelog

import (
	"context"
	"fmt"
	"strings"
)

// DefaultListLimit is the number of versions --list prints by default.
const DefaultListLimit = 20

// LookupError is returned when a requested version tag has no matching
// commit in the hash/subject stream.
type LookupError struct {
	Tag string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("could not find a commit for version %q", e.Tag)
}

// InsufficientHistoryError is returned when the latest two versions are
// requested but fewer than two version tags exist.
type InsufficientHistoryError struct {
	Found int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("need at least 2 versions, found %d", e.Found)
}

// Versions returns the subjects that are version tags, in stream order
// (newest first). A limit of zero or less returns all of them.
func Versions(subjects []string, limit int) []string {
	var versions []string
	for _, s := range subjects {
		s = strings.TrimSpace(s)
		if !IsVersionTag(s) {
			continue
		}
		versions = append(versions, s)
		if limit > 0 && len(versions) == limit {
			break
		}
	}
	return versions
}

// LatestPair returns the second-newest and newest version tags as
// (from, to). It fails with InsufficientHistoryError when fewer than two
// tags are present.
func LatestPair(subjects []string) (from, to string, err error) {
	versions := Versions(subjects, 2)
	if len(versions) < 2 {
		return "", "", &InsufficientHistoryError{Found: len(versions)}
	}
	return versions[1], versions[0], nil
}

// FindCommit returns the hash of the first pair whose subject contains tag.
//
// Matching is by substring, so tag "1.2.3" also finds a subject like
// "chore: release v1.2.3 (build 42)". When several subjects contain the tag
// the first one in stream order wins.
func FindCommit(pairs []HashSubject, tag string) (string, bool) {
	for _, p := range pairs {
		if strings.Contains(p.Subject, tag) {
			return p.Hash, true
		}
	}
	return "", false
}

// ExtractRange resolves both tags to commit identifiers.
// Returns LookupError naming the first tag that could not be found.
func ExtractRange(pairs []HashSubject, fromTag, toTag string) (fromID, toID string, err error) {
	fromID, ok := FindCommit(pairs, fromTag)
	if !ok {
		return "", "", &LookupError{Tag: fromTag}
	}
	toID, ok = FindCommit(pairs, toTag)
	if !ok {
		return "", "", &LookupError{Tag: toTag}
	}
	return fromID, toID, nil
}

// CommitsBetween resolves the two tags against src and returns the parsed
// records between them in source order.
func CommitsBetween(ctx context.Context, src Source, fromTag, toTag string) ([]CommitRecord, error) {
	subjects, err := SubjectsBetween(ctx, src, fromTag, toTag)
	if err != nil {
		return nil, err
	}
	return ParseCommits(subjects), nil
}

// SubjectsBetween resolves the two tags against src and returns the raw
// subjects between them. The AI path consumes these unparsed.
func SubjectsBetween(ctx context.Context, src Source, fromTag, toTag string) ([]string, error) {
	fromID, toID, err := ResolveRange(ctx, src, fromTag, toTag)
	if err != nil {
		return nil, err
	}

	subjects, err := src.SubjectsBetween(ctx, fromID, toID)
	if err != nil {
		return nil, fmt.Errorf("reading commits %s..%s: %w", fromID, toID, err)
	}
	return subjects, nil
}

// ResolveRange looks up the commit identifiers for both tags using the
// hash/subject stream from src.
func ResolveRange(ctx context.Context, src Source, fromTag, toTag string) (fromID, toID string, err error) {
	pairs, err := src.HashSubjects(ctx)
	if err != nil {
		return "", "", fmt.Errorf("reading commit log: %w", err)
	}
	return ExtractRange(pairs, fromTag, toTag)
}

// ListVersions returns up to limit version tags from src, newest first.
func ListVersions(ctx context.Context, src Source, limit int) ([]string, error) {
	subjects, err := src.Subjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading commit log: %w", err)
	}
	return Versions(subjects, limit), nil
}

// Latest returns the (from, to) pair for the two newest version tags in src.
func Latest(ctx context.Context, src Source) (from, to string, err error) {
	subjects, err := src.Subjects(ctx)
	if err != nil {
		return "", "", fmt.Errorf("reading commit log: %w", err)
	}
	return LatestPair(subjects)
}
