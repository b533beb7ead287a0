// Package progress shows a spinner on the terminal while a slow call is in
// flight and picks Unicode or ASCII symbols for the terminal at hand.
package progress

// TerminalCapabilities describes what the output terminal can render.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
}

// ProgressSymbols is the symbol set used for status output.
type ProgressSymbols struct {
	Checkmark  string
	SpinnerSet int // Index into spinner.CharSets
}
