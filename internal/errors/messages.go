package errors

import "fmt"

// Common error messages for the vchangelog CLI.
// These templates ensure consistent, actionable error messages.

// MissingVersions creates an error for a changelog request without a range.
func MissingVersions() *CLIError {
	return NewArgumentErrorWithUsage(
		"both from-version and to-version are required",
		"vchangelog <from-version> <to-version>",
		"Pass two versions, e.g. vchangelog 1.0.0 1.1.0",
		"Or use --latest to compare the two newest versions",
		"Run 'vchangelog --list' to see available versions",
	)
}

// VersionNotFound creates an error for a version tag with no matching commit.
func VersionNotFound(tag string) *CLIError {
	return &CLIError{
		Category: Lookup,
		Message:  fmt.Sprintf("could not find a commit for version %q", tag),
		Remediation: []string{
			"Run 'vchangelog --list' to see the versions found in history",
			"Version commits must have the version as their subject, e.g. '1.2.0'",
		},
	}
}

// NotEnoughVersions creates an error for --latest with fewer than two tags.
func NotEnoughVersions(found int) *CLIError {
	return &CLIError{
		Category: InsufficientHistory,
		Message:  fmt.Sprintf("need at least 2 versions, found %d", found),
		Remediation: []string{
			"Commit a version marker (e.g. 'git commit --allow-empty -m 1.0.0')",
			"Or pass the two versions explicitly",
		},
	}
}

// AIConfigMissing creates an error for --ai or --commit-msg without
// an endpoint and key.
func AIConfigMissing() *CLIError {
	return &CLIError{
		Category: ConfigurationMissing,
		Message:  "AI is not configured: url and key are required",
		Remediation: []string{
			"Run 'vchangelog --config' to set the API URL and key",
			"Or set VCHANGELOG_URL and VCHANGELOG_KEY",
		},
	}
}

// ExternalFailure creates an error for a failed call to git, the AI
// endpoint or another external collaborator.
func ExternalFailure(what string, err error) *CLIError {
	return WrapWithMessage(err, ExternalService, what+" failed")
}

// NoStagedChanges creates an error for --commit-msg with an empty index.
func NoStagedChanges() *CLIError {
	return NewArgumentError(
		"no staged changes",
		"Stage files with 'git add' before generating a commit message",
	)
}

// NotARepository creates an error when the working directory is not inside
// a git repository.
func NotARepository(path string, err error) *CLIError {
	return &CLIError{
		Category: Argument,
		Message:  fmt.Sprintf("not a git repository: %s", path),
		Remediation: []string{
			"Run vchangelog inside a git repository",
			"Or point at one with --repo <path>",
		},
		Err: err,
	}
}

// InvalidFormat creates an error for an unknown --format value.
func InvalidFormat(provided string, valid []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid format: %s", provided),
		fmt.Sprintf("Valid formats: %v", valid),
	)
}

// InvalidLanguage creates an error for an unsupported --lang value.
func InvalidLanguage(provided string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid language: %s", provided),
		"Supported languages: zh, en",
	)
}

// ConfigParseError creates an error for a config file that cannot be read.
func ConfigParseError(path string, err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  fmt.Sprintf("failed to parse config file %s: %v", path, err),
		Remediation: []string{
			"Check the file for YAML syntax errors",
			"Run 'vchangelog config show' to inspect the effective configuration",
		},
		Err: err,
	}
}
