package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Attiv/vchangelog/internal/version"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/Attiv/vchangelog"

func newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for vchangelog",
		Example: `  # Show version info
  vchangelog version

  # Plain output (for scripts)
  vchangelog version --plain`,
		Args: exactArgs(0, ""),
		Run: func(cmd *cobra.Command, _ []string) {
			if plain {
				printPlainVersion(cmd.OutOrStdout())
				return
			}
			printPrettyVersion(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}

type versionField struct {
	label string
	value string
}

func versionFields() []versionField {
	return []versionField{
		{"Version", version.Version},
		{"Commit", version.ShortCommit()},
		{"Built", version.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(out io.Writer) {
	fmt.Fprintf(out, "vchangelog %s\n", version.Version)
	fmt.Fprintf(out, "commit: %s\n", version.Commit)
	fmt.Fprintf(out, "built: %s\n", version.BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints the version fields in a box
func printPrettyVersion(out io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	const boxWidth = 44
	inner := boxWidth - 2

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  "+cyan("vchangelog")+" "+dim("changelogs from version-tagged history"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ╭"+strings.Repeat("─", inner)+"╮")
	for _, f := range versionFields() {
		text := fmt.Sprintf(" %10s    %s", f.label, f.value)
		pad := inner - len([]rune(text))
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(out, "  │ %s    %s%s│\n", yellow(fmt.Sprintf("%9s", f.label)), white(f.value), strings.Repeat(" ", pad))
	}
	fmt.Fprintln(out, "  ╰"+strings.Repeat("─", inner)+"╯")
	fmt.Fprintln(out, "  "+dim(SourceURL))
	fmt.Fprintln(out)
}
