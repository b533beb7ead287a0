package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Attiv/vchangelog/internal/ai"
	"github.com/Attiv/vchangelog/internal/changelog"
	"github.com/Attiv/vchangelog/internal/config"
	"github.com/Attiv/vchangelog/internal/diffreport"
	clierrors "github.com/Attiv/vchangelog/internal/errors"
	"github.com/Attiv/vchangelog/internal/git"
	"github.com/Attiv/vchangelog/internal/output"
	"github.com/Attiv/vchangelog/internal/progress"
)

// invocation is the resolved state shared by every root mode.
type invocation struct {
	cmd    *cobra.Command
	opts   *rootOptions
	cfg    config.Configuration
	repo   *git.Repo
	format changelog.Format
	lang   ai.Language
	emoji  bool
}

// Hooks replaced in tests.
var (
	detectCaps    = func() progress.TerminalCapabilities { return progress.DetectFor(os.Stderr) }
	stdoutCaps    = func() progress.TerminalCapabilities { return progress.DetectFor(os.Stdout) }
	stdoutIsColor = func() bool { return output.ColorEnabled(os.Stdout) }
	loadConfig    = config.Load
)

func runRoot(cmd *cobra.Command, opts *rootOptions, args []string) error {
	if err := opts.validate(); err != nil {
		return err
	}

	if opts.configure {
		return runConfigure(cmd)
	}

	inv, err := resolve(cmd, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.commitMsg:
		return inv.commitMessage(ctx)
	case opts.list:
		return inv.listVersions(ctx)
	}

	from, to, err := inv.versionRange(ctx, args)
	if err != nil {
		return err
	}

	switch {
	case opts.diff:
		return inv.showDiff(ctx, from, to)
	case opts.ai:
		return inv.summarize(ctx, from, to)
	default:
		return inv.changelog(ctx, from, to)
	}
}

// validate rejects flag combinations that select more than one mode.
func (o *rootOptions) validate() error {
	if o.emoji && o.noEmoji {
		return clierrors.NewArgumentError("--emoji and --no-emoji cannot be used together")
	}
	if o.list && o.latest {
		return clierrors.NewArgumentError("--list and --latest cannot be used together")
	}
	if o.list && (o.ai || o.diff || o.commitMsg) {
		return clierrors.NewArgumentError("--list cannot be combined with --ai, --diff or --commit-msg")
	}
	modes := 0
	for _, set := range []bool{o.ai, o.diff, o.commitMsg} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return clierrors.NewArgumentError(
			"--ai, --diff and --commit-msg are mutually exclusive",
			"Pick one output mode per run",
		)
	}
	if o.limit < 1 {
		return clierrors.NewArgumentError(fmt.Sprintf("--limit must be at least 1, got %d", o.limit))
	}
	return nil
}

// resolve loads configuration, merges it with the flags and opens the
// repository.
func resolve(cmd *cobra.Command, opts *rootOptions) (*invocation, error) {
	format, err := changelog.ParseFormat(opts.format)
	if err != nil {
		return nil, clierrors.InvalidFormat(opts.format, changelog.ValidFormats())
	}

	cfg, err := loadConfig()
	if err != nil {
		if opts.ai || opts.commitMsg {
			return nil, clierrors.Wrap(err, clierrors.Configuration,
				"Fix the value in the config file or run 'vchangelog --config'")
		}
		output.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("ignoring config (%v)", err))
		cfg = config.Default()
	}

	lang := cfg.Lang
	if cmd.Flags().Changed("lang") {
		lang = strings.ToLower(strings.TrimSpace(opts.lang))
		if lang != string(ai.LangZH) && lang != string(ai.LangEN) {
			return nil, clierrors.InvalidLanguage(opts.lang)
		}
	}

	emoji := cfg.Emoji
	switch {
	case opts.emoji:
		emoji = true
	case opts.noEmoji:
		emoji = false
	}

	repo, err := git.Open(opts.repo)
	if err != nil {
		return nil, clierrors.NotARepository(opts.repo, err)
	}

	return &invocation{
		cmd:    cmd,
		opts:   opts,
		cfg:    cfg,
		repo:   repo,
		format: format,
		lang:   ai.ParseLanguage(lang),
		emoji:  emoji,
	}, nil
}

// versionRange returns the (from, to) pair from --latest or the arguments.
func (inv *invocation) versionRange(ctx context.Context, args []string) (string, string, error) {
	if inv.opts.latest {
		from, to, err := changelog.Latest(ctx, inv.repo)
		if err != nil {
			return "", "", historyError(err)
		}
		return from, to, nil
	}

	if len(args) < 2 {
		_ = inv.cmd.Help()
		return "", "", clierrors.MissingVersions()
	}
	return strings.TrimSpace(args[0]), strings.TrimSpace(args[1]), nil
}

func (inv *invocation) listVersions(ctx context.Context) error {
	versions, err := changelog.ListVersions(ctx, inv.repo, inv.opts.limit)
	if err != nil {
		return historyError(err)
	}
	if len(versions) == 0 {
		output.PrintNotice(inv.cmd.ErrOrStderr(), "No versions found")
		return nil
	}
	return inv.emit(strings.Join(versions, "\n") + "\n")
}

func (inv *invocation) changelog(ctx context.Context, from, to string) error {
	records, err := changelog.CommitsBetween(ctx, inv.repo, from, to)
	if err != nil {
		return historyError(err)
	}

	text, err := changelog.RenderString(
		changelog.Categorize(from, to, records),
		changelog.RenderOptions{Format: inv.format, Emoji: inv.emoji},
	)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return inv.emit(text)
}

func (inv *invocation) summarize(ctx context.Context, from, to string) error {
	client, err := inv.aiClient()
	if err != nil {
		return err
	}

	subjects, err := changelog.SubjectsBetween(ctx, inv.repo, from, to)
	if err != nil {
		return historyError(err)
	}

	label := "🤖 AI 总结中..."
	if inv.lang == ai.LangEN {
		label = "🤖 AI summarizing..."
	}
	summary, err := progress.Run(ctx, inv.spinnerOptions(label), func(ctx context.Context) (string, error) {
		return client.Summarize(ctx, subjects, from, to, inv.lang)
	})
	if err != nil {
		return clierrors.ExternalFailure("AI summary", err)
	}

	if inv.format == changelog.FormatHTML {
		var b bytes.Buffer
		if err := changelog.MarkdownToHTML(&b, summary); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		return inv.emit(b.String())
	}
	return inv.emit(summary + "\n")
}

func (inv *invocation) commitMessage(ctx context.Context) error {
	client, err := inv.aiClient()
	if err != nil {
		return err
	}

	diff, err := inv.repo.StagedDiff(ctx)
	if err != nil {
		return clierrors.ExternalFailure("reading staged changes", err)
	}
	if strings.TrimSpace(diff) == "" {
		return clierrors.NoStagedChanges()
	}
	files, err := inv.repo.StagedFiles(ctx)
	if err != nil {
		return clierrors.ExternalFailure("listing staged files", err)
	}

	label := "🤖 AI 生成提交信息中..."
	if inv.lang == ai.LangEN {
		label = "🤖 AI writing commit message..."
	}
	msg, err := progress.Run(ctx, inv.spinnerOptions(label), func(ctx context.Context) (string, error) {
		return client.CommitMessage(ctx, diff, files, inv.lang)
	})
	if err != nil {
		return clierrors.ExternalFailure("AI commit message", err)
	}
	return inv.emit(msg + "\n")
}

func (inv *invocation) showDiff(ctx context.Context, from, to string) error {
	fromID, toID, err := changelog.ResolveRange(ctx, inv.repo, from, to)
	if err != nil {
		return historyError(err)
	}

	colored := stdoutIsColor()
	raw, err := inv.repo.Diff(ctx, fromID, toID, colored)
	if err != nil {
		return clierrors.ExternalFailure("git diff", err)
	}

	report := diffreport.ReformatWithOptions(raw, diffreport.Options{Color: colored})
	if report != "" && !strings.HasSuffix(report, "\n") {
		report += "\n"
	}
	return inv.emit(report)
}

// aiClient builds the chat client or reports missing configuration.
func (inv *invocation) aiClient() (*ai.Client, error) {
	if !inv.cfg.HasAI() {
		return nil, clierrors.AIConfigMissing()
	}
	if err := inv.cfg.Validate(); err != nil {
		return nil, clierrors.Wrap(err, clierrors.Configuration,
			"Fix the value in the config file or run 'vchangelog --config'")
	}
	client, err := ai.New(ai.Settings{
		URL:     inv.cfg.URL,
		Key:     inv.cfg.Key,
		Model:   inv.cfg.Model,
		Timeout: inv.cfg.Timeout,
	})
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return nil, clierrors.AIConfigMissing()
		}
		return nil, clierrors.Wrap(err, clierrors.Configuration)
	}
	return client, nil
}

func (inv *invocation) spinnerOptions(label string) progress.Options {
	return progress.Options{
		Label:  label,
		Writer: inv.cmd.ErrOrStderr(),
		Caps:   detectCaps(),
	}
}

// emit prints text to stdout and copies it when --copy is set.
// Diff output is copied without colour escapes.
func (inv *invocation) emit(text string) error {
	if _, err := io.WriteString(inv.cmd.OutOrStdout(), text); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	if inv.opts.copy {
		output.CopyToClipboard(strings.TrimRight(diffreport.StripANSI(text), "\n"), inv.cmd.ErrOrStderr())
	}
	return nil
}

// historyError maps domain lookup errors to CLI errors; anything else is a
// failure reading the repository.
func historyError(err error) error {
	var lookupErr *changelog.LookupError
	if errors.As(err, &lookupErr) {
		return clierrors.VersionNotFound(lookupErr.Tag)
	}
	var histErr *changelog.InsufficientHistoryError
	if errors.As(err, &histErr) {
		return clierrors.NotEnoughVersions(histErr.Found)
	}
	return clierrors.ExternalFailure("reading git history", err)
}
