package progress

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/sync/errgroup"
)

// frameInterval matches a 10 fps braille animation.
const frameInterval = 100 * time.Millisecond

// Options configures Run.
type Options struct {
	// Label is shown before the spinner frame, e.g. "🤖 AI 总结中...".
	Label string
	// Writer receives the animation (default: os.Stderr).
	Writer io.Writer
	// Caps decides whether to animate and which frames to use.
	Caps TerminalCapabilities
}

// Spinner is the animation Run drives. It is satisfied by *spinner.Spinner.
type Spinner interface {
	Start()
	Stop()
}

// newSpinner builds the animation; replaced in tests.
var newSpinner = func(opts Options) Spinner {
	symbols := SelectSymbols(opts.Caps)
	var writer spinner.Option
	switch w := opts.Writer.(type) {
	case nil:
		writer = spinner.WithWriterFile(os.Stderr)
	case *os.File:
		writer = spinner.WithWriterFile(w)
	default:
		writer = spinner.WithWriter(w)
	}
	s := spinner.New(spinner.CharSets[symbols.SpinnerSet], frameInterval, writer)
	s.Prefix = asciiLabel(opts.Label, opts.Caps) + " "
	return s
}

// Run calls fn while a spinner animates, and returns fn's result. The
// spinner stops as soon as fn returns or ctx is cancelled, and is cleared
// before Run returns. No spinner is shown when the terminal is not a TTY.
func Run[T any](ctx context.Context, opts Options, fn func(context.Context) (T, error)) (T, error) {
	if !opts.Caps.IsTTY {
		return fn(ctx)
	}

	var result T
	done := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := newSpinner(opts)
		s.Start()
		defer s.Stop()

		select {
		case <-done:
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		defer close(done)
		var err error
		result, err = fn(gctx)
		return err
	})

	err := g.Wait()
	return result, err
}

// asciiLabel drops non-ASCII leading symbols when the terminal cannot
// render Unicode.
func asciiLabel(label string, caps TerminalCapabilities) string {
	if caps.SupportsUnicode {
		return label
	}
	return strings.TrimLeftFunc(label, func(r rune) bool {
		return r > 127 || r == ' '
	})
}
