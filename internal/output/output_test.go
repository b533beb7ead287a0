// Package output tests clipboard notices and status line helpers.
// Related: internal/output/clipboard.go, internal/output/format.go
// Tags: output, clipboard, terminal
package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/Attiv/vchangelog/internal/progress"
)

func stubClipboard(t *testing.T, err error) *string {
	t.Helper()
	var got string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		got = text
		return err
	}
	t.Cleanup(func() { writeClipboard = orig })
	return &got
}

func TestCopyToClipboard(t *testing.T) {
	color.NoColor = true

	tests := map[string]struct {
		err        error
		wantOK     bool
		wantNotice string
	}{
		"copy succeeds": {
			wantOK:     true,
			wantNotice: "(Copied to clipboard)\n",
		},
		"copy fails": {
			err:        errors.New("no clipboard utilities available"),
			wantOK:     false,
			wantNotice: "(Could not copy to clipboard)\n",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			got := stubClipboard(t, tt.err)

			var notices bytes.Buffer
			ok := CopyToClipboard("## Changelog", &notices)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, "## Changelog", *got)
			assert.Equal(t, tt.wantNotice, notices.String())
		})
	}
}

func TestPrintHelpers(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	PrintWarning(&buf, "legacy config in use")
	PrintSuccess(&buf, progress.TerminalCapabilities{SupportsUnicode: true}, "saved")
	PrintSuccess(&buf, progress.TerminalCapabilities{}, "saved")

	assert.Equal(t, "Warning: legacy config in use\n✓ saved\n[OK] saved\n", buf.String())
}
