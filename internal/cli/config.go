package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Attiv/vchangelog/internal/ai"
	"github.com/Attiv/vchangelog/internal/config"
	clierrors "github.com/Attiv/vchangelog/internal/errors"
	"github.com/Attiv/vchangelog/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vchangelog configuration",
		Long: `Manage vchangelog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (VCHANGELOG_URL, VCHANGELOG_KEY, ...)
  2. User config (~/.config/vchangelog/config.yml)
  3. Legacy config (~/.vchangelog.json)
  4. Built-in defaults`,
		Example: `  # Show the effective configuration
  vchangelog config show

  # Set a value
  vchangelog config set lang en

  # Configure the AI endpoint interactively
  vchangelog --config`,
	}

	cmd.AddCommand(newConfigShowCmd(), newConfigPathCmd(), newConfigSetCmd(), newConfigMigrateCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and where each value came from",
		Args:  exactArgs(0, ""),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return clierrors.Wrap(err, clierrors.Configuration)
			}
			if err := cfg.Validate(); err != nil {
				output.PrintWarning(cmd.ErrOrStderr(), err.Error())
			}

			dim := color.New(color.Faint).SprintFunc()
			values := cfg.ToMap()
			out := cmd.OutOrStdout()
			for _, key := range config.Keys() {
				value := fmt.Sprint(values[key])
				if key == "key" {
					value = cfg.MaskedKey()
				}
				if value == "" {
					value = "(unset)"
				}
				fmt.Fprintf(out, "%-8s %s %s\n", key+":", value, dim("("+string(cfg.Source(key))+")"))
			}
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file locations",
		Args:  exactArgs(0, ""),
		RunE: func(cmd *cobra.Command, _ []string) error {
			userPath, err := config.UserConfigPath()
			if err != nil {
				return clierrors.Wrap(err, clierrors.Runtime)
			}
			legacyPath, err := config.LegacyConfigPath()
			if err != nil {
				return clierrors.Wrap(err, clierrors.Runtime)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user:   %s%s\n", userPath, existsMarker(userPath))
			fmt.Fprintf(out, "legacy: %s%s\n", legacyPath, existsMarker(legacyPath))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value in the user config file",
		Long: `Set a value in the user config file.

Keys: url, key, model, lang, emoji, timeout`,
		Example: `  vchangelog config set url https://api.openai.com/v1/chat/completions
  vchangelog config set lang en
  vchangelog config set emoji true`,
		Args: exactArgs(2, "vchangelog config set <key> <value>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.UserConfigPath()
			if err != nil {
				return clierrors.Wrap(err, clierrors.Runtime)
			}

			key, value := args[0], args[1]
			if _, err := config.SetValue(path, key, value); err != nil {
				var unknown config.ErrUnknownKey
				if errors.As(err, &unknown) {
					return clierrors.NewArgumentError(err.Error(),
						fmt.Sprintf("Valid keys: %v", config.Keys()))
				}
				return clierrors.Wrap(err, clierrors.Configuration)
			}

			if key == "key" {
				value = config.Configuration{Key: value}.MaskedKey()
			}
			output.PrintSuccess(cmd.OutOrStdout(), stdoutCaps(), fmt.Sprintf("Set %s = %s in %s", key, value, path))
			return nil
		},
	}
}

func newConfigMigrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move ~/.vchangelog.json to the YAML user config",
		Long: `Convert the legacy JSON config written by earlier releases to YAML.
The JSON file is kept as a .bak backup after a successful migration.`,
		Args: exactArgs(0, ""),
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := config.MigrateUserConfig(dryRun)
			if err != nil {
				return clierrors.Wrap(err, clierrors.Configuration)
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			if result.Success && !dryRun {
				if err := config.RemoveLegacyConfig(result.SourcePath, false); err != nil {
					return clierrors.Wrap(err, clierrors.Runtime)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up %s to %s.bak\n", result.SourcePath, result.SourcePath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be migrated without writing")
	return cmd
}

// runConfigure runs the interactive setup behind --config and saves it.
func runConfigure(cmd *cobra.Command) error {
	current, err := loadConfig()
	if err != nil {
		output.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("current config could not be loaded (%v); starting from defaults", err))
		current = config.Default()
	}
	current = promptable(cmd.ErrOrStderr(), current)

	next, err := config.Configure(cmd.InOrStdin(), cmd.OutOrStdout(), current)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	path, err := config.UserConfigPath()
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	if err := config.Save(next, path); err != nil {
		return clierrors.Wrap(err, clierrors.Configuration)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	output.PrintSuccess(cmd.OutOrStdout(), stdoutCaps(), "配置已保存 (Configuration saved): "+path)
	return nil
}

// promptable replaces stored values the prompts would refuse, so pressing
// enter at every prompt still yields a config Save accepts.
func promptable(warn io.Writer, cfg config.Configuration) config.Configuration {
	if cfg.URL != "" {
		if _, err := config.ValidateValue("url", cfg.URL); err != nil {
			output.PrintWarning(warn, fmt.Sprintf("dropping invalid url %q", cfg.URL))
			cfg.URL = ""
		}
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = config.DefaultModel
	}
	cfg.Lang = string(ai.ParseLanguage(cfg.Lang))
	return cfg
}

func existsMarker(path string) string {
	if fileExists(path) {
		return " (exists)"
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// exactArgs is cobra.ExactArgs reporting an argument error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		msg := fmt.Sprintf("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))
		if usage == "" {
			return clierrors.NewArgumentError(msg)
		}
		return clierrors.NewArgumentErrorWithUsage(msg, usage)
	}
}
