// Package cli implements the vchangelog command line: the root changelog
// command with its mode flags, plus the version and config subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Attiv/vchangelog/internal/ai"
	"github.com/Attiv/vchangelog/internal/changelog"
	"github.com/Attiv/vchangelog/internal/config"
	clierrors "github.com/Attiv/vchangelog/internal/errors"
	"github.com/Attiv/vchangelog/internal/git"
)

// rootOptions holds the parsed root flags for one invocation.
type rootOptions struct {
	latest    bool
	list      bool
	limit     int
	format    string
	copy      bool
	ai        bool
	configure bool
	commitMsg bool
	diff      bool
	emoji     bool
	noEmoji   bool
	lang      string
	repo      string
	debug     bool
}

// NewRootCmd builds the vchangelog command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "vchangelog [from-version] [to-version]",
		Short: "Generate a changelog from version-tagged git history",
		Long: `vchangelog reads the commit history of a git repository, finds the commits
whose subject is a version number (e.g. "1.2.0"), and reports what changed
between two versions.

Conventional commit subjects ("feat(api): add export") are grouped into
categories: Features, Bug Fixes, Performance, Chores, Documentation,
Refactors, Tests, and Other. With --ai the raw commit list is summarized
by an OpenAI-compatible chat model instead.`,
		Example: `  # Changelog between two versions
  vchangelog 1.0.0 1.1.0

  # Changelog between the two newest versions, as markdown with emoji
  vchangelog --latest -f md -e

  # List version tags found in history
  vchangelog --list

  # AI summary in English, copied to the clipboard
  vchangelog -l --ai --lang en -c

  # Commit message for the staged changes
  vchangelog --commit-msg

  # Reformatted diff between two versions
  vchangelog -d 1.0.0 1.1.0`,
		Args:          versionArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.debug || os.Getenv("VCHANGELOG_DEBUG") == "1" {
				enableDebugLogging(cmd.ErrOrStderr())
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.latest, "latest", "l", false, "Compare the two newest versions")
	f.BoolVar(&opts.list, "list", false, "List version tags, newest first")
	f.IntVar(&opts.limit, "limit", changelog.DefaultListLimit, "Maximum number of versions shown by --list")
	f.StringVarP(&opts.format, "format", "f", string(changelog.FormatText), "Output format: text, md, markdown, html")
	f.BoolVarP(&opts.copy, "copy", "c", false, "Copy the output to the clipboard")
	f.BoolVarP(&opts.ai, "ai", "a", false, "Summarize the commits with AI")
	f.BoolVar(&opts.configure, "config", false, "Configure the AI endpoint interactively")
	f.BoolVarP(&opts.commitMsg, "commit-msg", "m", false, "Generate a commit message for the staged changes with AI")
	f.BoolVarP(&opts.diff, "diff", "d", false, "Show the diff between the two versions")
	f.BoolVarP(&opts.emoji, "emoji", "e", false, "Prefix category headings with emoji")
	f.BoolVarP(&opts.noEmoji, "no-emoji", "E", false, "Never prefix category headings with emoji")
	f.StringVar(&opts.lang, "lang", "", "AI output language: zh or en (default from config)")
	f.StringVarP(&opts.repo, "repo", "C", ".", "Path to the git repository")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Print debug logging to stderr")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierrors.NewArgumentError(err.Error(), "Run 'vchangelog --help' for usage")
	})

	cmd.AddCommand(newVersionCmd(), newConfigCmd())
	return cmd
}

// versionArgs accepts zero to two positional versions.
func versionArgs(_ *cobra.Command, args []string) error {
	if len(args) > 2 {
		return clierrors.NewArgumentErrorWithUsage(
			fmt.Sprintf("too many arguments: expected at most 2 versions, got %d", len(args)),
			"vchangelog <from-version> <to-version>",
		)
	}
	return nil
}

// Execute runs the command tree against os.Args and returns the process
// exit code. Errors are printed to stderr.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		clierrors.FprintAny(cmd.ErrOrStderr(), err)
	}
	return ExitCode(err)
}

// enableDebugLogging routes the package debug hooks to w.
func enableDebugLogging(w io.Writer) {
	logger := log.New(w, "[debug] ", log.Ltime|log.Lmicroseconds)
	git.SetDebugLogger(logger.Printf)
	ai.SetDebugLogger(logger.Printf)
	config.SetDebugLogger(logger.Printf)
}
