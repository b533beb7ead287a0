// Package progress tests spinner lifecycle and terminal symbol selection.
// Related: internal/progress/spinner.go, internal/progress/terminal.go
// Tags: progress, spinner, terminal, errgroup
package progress

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpinner struct {
	started atomic.Int32
	stopped atomic.Int32
}

func (f *fakeSpinner) Start() { f.started.Add(1) }
func (f *fakeSpinner) Stop()  { f.stopped.Add(1) }

// useFakeSpinner swaps the spinner factory; tests using it cannot run in parallel.
func useFakeSpinner(t *testing.T) *fakeSpinner {
	t.Helper()
	fake := &fakeSpinner{}
	orig := newSpinner
	newSpinner = func(Options) Spinner { return fake }
	t.Cleanup(func() { newSpinner = orig })
	return fake
}

func TestRun_ReturnsResultAndStopsSpinner(t *testing.T) {
	fake := useFakeSpinner(t)

	got, err := Run(context.Background(), Options{Caps: TerminalCapabilities{IsTTY: true}}, func(context.Context) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return "summary", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "summary", got)
	assert.Equal(t, int32(1), fake.started.Load())
	assert.Equal(t, int32(1), fake.stopped.Load())
}

func TestRun_PropagatesError(t *testing.T) {
	fake := useFakeSpinner(t)
	boom := errors.New("boom")

	_, err := Run(context.Background(), Options{Caps: TerminalCapabilities{IsTTY: true}}, func(context.Context) (int, error) {
		return 0, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), fake.stopped.Load())
}

func TestRun_ParentCancellation(t *testing.T) {
	fake := useFakeSpinner(t)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := Run(ctx, Options{Caps: TerminalCapabilities{IsTTY: true}}, func(ctx context.Context) (int, error) {
		cancel()
		<-ctx.Done()
		return 0, ctx.Err()
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), fake.stopped.Load())
}

func TestRun_NoTTYSkipsSpinner(t *testing.T) {
	fake := useFakeSpinner(t)

	got, err := Run(context.Background(), Options{}, func(context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Zero(t, fake.started.Load())
}

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	unicode := SelectSymbols(TerminalCapabilities{SupportsUnicode: true})
	assert.Equal(t, "✓", unicode.Checkmark)
	assert.Equal(t, 14, unicode.SpinnerSet)

	ascii := SelectSymbols(TerminalCapabilities{})
	assert.Equal(t, "[OK]", ascii.Checkmark)
	assert.Equal(t, 9, ascii.SpinnerSet)
}

func TestAsciiLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🤖 AI summarizing...", asciiLabel("🤖 AI summarizing...", TerminalCapabilities{SupportsUnicode: true}))
	assert.Equal(t, "AI summarizing...", asciiLabel("🤖 AI summarizing...", TerminalCapabilities{}))
}
