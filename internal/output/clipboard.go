package output

import (
	"io"

	"github.com/atotto/clipboard"
)

const (
	copiedNotice    = "(Copied to clipboard)"
	notCopiedNotice = "(Could not copy to clipboard)"
)

// writeClipboard is the system clipboard; replaced in tests.
var writeClipboard = clipboard.WriteAll

// CopyToClipboard puts text on the system clipboard and reports the outcome
// on notices. A clipboard failure is not an error for the caller: the text
// was already printed, so it returns whether the copy succeeded.
func CopyToClipboard(text string, notices io.Writer) bool {
	if err := writeClipboard(text); err != nil {
		PrintNotice(notices, notCopiedNotice)
		return false
	}
	PrintNotice(notices, copiedNotice)
	return true
}
