package changelog

import (
	"regexp"
	"strings"
)

var (
	// versionPattern matches release markers such as 1.2.3, v1.2, 3.0.6+71
	// and 2.0.0-beta.1. It is anchored on both ends so prose subjects that
	// merely contain numbers do not match.
	versionPattern = regexp.MustCompile(`^v?\d+\.\d+(\.\d+)?([+\-].+)?$`)

	// conventionalPattern matches "type(scope): description". The type
	// accepts any Unicode letters, digits and underscores.
	conventionalPattern = regexp.MustCompile(`^(?P<type>[\p{L}\p{N}_]+)(?:\((?P<scope>[^)]+)\))?: (?P<desc>.+)$`)
)

var (
	typeGroup  = conventionalPattern.SubexpIndex("type")
	scopeGroup = conventionalPattern.SubexpIndex("scope")
	descGroup  = conventionalPattern.SubexpIndex("desc")
)

// Kind tags the outcome of parsing a subject line.
type Kind int

const (
	// KindVersionTag marks a release subject; it never becomes a record.
	KindVersionTag Kind = iota
	// KindConventional marks a subject in type(scope): description form.
	KindConventional
	// KindFreeform marks any other subject.
	KindFreeform
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindVersionTag:
		return "version"
	case KindConventional:
		return "conventional"
	case KindFreeform:
		return "freeform"
	default:
		return "unknown"
	}
}

// Parsed is the tagged result of Parse. Record is the zero value when
// Kind is KindVersionTag.
type Parsed struct {
	Kind   Kind
	Record CommitRecord
}

// IsVersionTag reports whether line is a version identifier.
// Surrounding whitespace is ignored.
func IsVersionTag(line string) bool {
	return versionPattern.MatchString(strings.TrimSpace(line))
}

// Parse classifies a single subject line. It never fails: every subject is
// either a version tag, a conventional commit or a freeform commit.
func Parse(subject string) Parsed {
	if IsVersionTag(subject) {
		return Parsed{Kind: KindVersionTag}
	}

	m := conventionalPattern.FindStringSubmatch(subject)
	if m == nil {
		return Parsed{
			Kind: KindFreeform,
			Record: CommitRecord{
				Type:        string(CategoryOther),
				Description: subject,
			},
		}
	}

	return Parsed{
		Kind: KindConventional,
		Record: CommitRecord{
			Type:        strings.ToLower(m[typeGroup]),
			Scope:       m[scopeGroup],
			Description: m[descGroup],
		},
	}
}

// ParseCommit returns the record for subject, or false if the subject is a
// version tag and should be discarded.
func ParseCommit(subject string) (CommitRecord, bool) {
	p := Parse(subject)
	if p.Kind == KindVersionTag {
		return CommitRecord{}, false
	}
	return p.Record, true
}

// ParseCommits parses subjects in order, dropping version tags.
func ParseCommits(subjects []string) []CommitRecord {
	records := make([]CommitRecord, 0, len(subjects))
	for _, s := range subjects {
		if rec, ok := ParseCommit(s); ok {
			records = append(records, rec)
		}
	}
	return records
}
