package ai

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Language selects the prompt wording and the language the model answers in.
type Language string

const (
	LangZH Language = "zh"
	LangEN Language = "en"
)

// ParseLanguage maps a config or flag value to a Language.
// Only "zh" selects Chinese; any other value, including free text such as
// "english", selects English.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(LangZH)) {
		return LangZH
	}
	return LangEN
}

// MaxDiffBytes caps the diff sent for commit-message generation.
const MaxDiffBytes = 16000

// SummaryPrompt builds the user prompt asking for a changelog summary of
// commits between two versions.
func SummaryPrompt(commits []string, from, to string, lang Language) string {
	text := strings.Join(commits, "\n")
	if lang == LangEN {
		return fmt.Sprintf("Summarize the following git commits into a changelog, from version %s to %s.\n"+
			"Requirements: 1. Group by type (Features/Bug Fixes/Performance/Chores etc.) 2. Merge similar commits 3. Use concise English 4. Use emoji prefixes\n"+
			"Commits:\n%s", from, to, text)
	}
	return fmt.Sprintf("请总结以下 git commits 生成 changelog，版本从 %s 到 %s。\n"+
		"要求：1. 按类型分组（Features/Bug Fixes/Performance/Chores 等）2. 合并相似的提交 3. 用简洁的中文描述 4. 使用 emoji 前缀\n"+
		"Commits:\n%s", from, to, text)
}

// CommitMessagePrompt builds the user prompt asking for a conventional
// commit message describing a staged diff. Long diffs are truncated.
func CommitMessagePrompt(diff string, files []string, lang Language) string {
	diff, truncated := truncate(diff, MaxDiffBytes)

	var sb strings.Builder
	if lang == LangEN {
		sb.WriteString("Write a git commit message for the following staged changes.\n")
		sb.WriteString("Requirements: 1. Use Conventional Commits format: type(scope): description ")
		sb.WriteString("(types: feat, fix, perf, chore, docs, refactor, test) 2. Subject line under 72 characters ")
		sb.WriteString("3. Add a short body only if the change needs explanation 4. Use concise English ")
		sb.WriteString("5. Output only the commit message\n")
	} else {
		sb.WriteString("请为以下暂存的改动生成 git 提交信息。\n")
		sb.WriteString("要求：1. 使用 Conventional Commits 格式：type(scope): description")
		sb.WriteString("（type 取 feat、fix、perf、chore、docs、refactor、test）2. 标题不超过 72 个字符 ")
		sb.WriteString("3. 仅在需要解释时添加简短正文 4. 用简洁的中文描述 5. 只输出提交信息本身\n")
	}

	if len(files) > 0 {
		sb.WriteString("Files:\n")
		for _, f := range files {
			sb.WriteString("- ")
			sb.WriteString(f)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("Diff:\n")
	sb.WriteString(diff)
	if truncated {
		sb.WriteString("\n[diff truncated]")
	}
	return sb.String()
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
