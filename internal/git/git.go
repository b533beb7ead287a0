// Package git reads commit history and diffs for vchangelog. It uses the
// go-git library for history (subjects, hash/subject pairs, commit ranges)
// and falls back to the git CLI only for diffs, which go-git cannot render
// with terminal colours.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/Attiv/vchangelog/internal/changelog"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNotRepository is returned by Open when no repository encloses the path.
var ErrNotRepository = errors.New("not a git repository")

// Repo is an opened repository. It implements changelog.Source.
type Repo struct {
	repo *git.Repository
	root string
}

var _ changelog.Source = (*Repo)(nil)

// Open opens the repository containing path, searching parent directories
// for the .git directory. An empty path means the current working directory.
func Open(path string) (*Repo, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}

	root := path
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}

	logDebug("[git] repository root: %s", root)
	return &Repo{repo: repo, root: root}, nil
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// Subjects returns the subject line of every commit reachable from any
// reference, newest first by committer time.
func (r *Repo) Subjects(ctx context.Context) ([]string, error) {
	var subjects []string
	err := r.walkAll(ctx, func(c *object.Commit) {
		subjects = append(subjects, Subject(c.Message))
	})
	if err != nil {
		return nil, err
	}
	logDebug("[git] Subjects: %d commits", len(subjects))
	return subjects, nil
}

// HashSubjects returns (hash, subject) pairs in the same order as Subjects.
func (r *Repo) HashSubjects(ctx context.Context) ([]changelog.HashSubject, error) {
	var pairs []changelog.HashSubject
	err := r.walkAll(ctx, func(c *object.Commit) {
		pairs = append(pairs, changelog.HashSubject{
			Hash:    c.Hash.String(),
			Subject: Subject(c.Message),
		})
	})
	if err != nil {
		return nil, err
	}
	logDebug("[git] HashSubjects: %d commits", len(pairs))
	return pairs, nil
}

// SubjectsBetween returns the subjects of commits reachable from toID but
// not from fromID, newest first. Empty subjects are skipped.
func (r *Repo) SubjectsBetween(ctx context.Context, fromID, toID string) ([]string, error) {
	from, err := r.resolve(fromID)
	if err != nil {
		return nil, err
	}
	to, err := r.resolve(toID)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]struct{})
	if err := r.walk(ctx, &git.LogOptions{From: from, Order: git.LogOrderCommitterTime}, func(c *object.Commit) {
		excluded[c.Hash] = struct{}{}
	}); err != nil {
		return nil, fmt.Errorf("walking ancestors of %s: %w", fromID, err)
	}

	var subjects []string
	err = r.walk(ctx, &git.LogOptions{From: to, Order: git.LogOrderCommitterTime}, func(c *object.Commit) {
		if _, skip := excluded[c.Hash]; skip {
			return
		}
		if s := Subject(c.Message); s != "" {
			subjects = append(subjects, s)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", toID, err)
	}

	logDebug("[git] SubjectsBetween %s..%s: %d commits", short(fromID), short(toID), len(subjects))
	return subjects, nil
}

func (r *Repo) walkAll(ctx context.Context, fn func(*object.Commit)) error {
	err := r.walk(ctx, &git.LogOptions{All: true, Order: git.LogOrderCommitterTime}, fn)
	if err != nil {
		return fmt.Errorf("reading log: %w", err)
	}
	return nil
}

// walk iterates the log, checking ctx between commits.
// A repository without commits yields nothing.
func (r *Repo) walk(ctx context.Context, opts *git.LogOptions, fn func(*object.Commit)) error {
	if opts.All {
		if _, err := r.repo.Head(); errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil
		}
	}

	iter, err := r.repo.Log(opts)
	if err != nil {
		return err
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(c)
		return nil
	})
}

// resolve turns a full or abbreviated hash (or any revision) into a hash.
func (r *Repo) resolve(id string) (plumbing.Hash, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(id))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving %s: %w", id, err)
	}
	return *h, nil
}

// Diff returns the raw unified diff between two commits using the git CLI.
// When color is true git is asked to embed terminal colour codes.
func (r *Repo) Diff(ctx context.Context, fromID, toID string, color bool) (string, error) {
	return r.gitOutput(ctx, "diff", colorFlag(color), fromID, toID)
}

// StagedDiff returns the diff of changes staged for commit.
func (r *Repo) StagedDiff(ctx context.Context) (string, error) {
	return r.gitOutput(ctx, "diff", "--cached", "--color=never")
}

// StagedFiles returns the paths of files staged for commit.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := r.gitOutput(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func colorFlag(color bool) string {
	if color {
		return "--color=always"
	}
	return "--color=never"
}

// gitOutput runs git in the repository root and returns its stdout.
// Stderr is folded into the error on failure.
func (r *Repo) gitOutput(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", r.root}, args...)
	logDebug("[git] exec: git %s", strings.Join(full, " "))

	cmd := exec.CommandContext(ctx, "git", full...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

// Subject returns the first line of a commit message, trimmed.
func Subject(message string) string {
	subject, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(subject)
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
