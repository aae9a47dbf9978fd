package output

import (
	"io"

	"github.com/muesli/termenv"
)

// Option configures a Printer.
type Option func(*Printer)

// WithWriter sends output to w instead of os.Stdout. A nil writer is ignored.
func WithWriter(w io.Writer) Option {
	return func(p *Printer) {
		if w != nil {
			p.writer = w
		}
	}
}

// WithStyles colors output with provider. Providers that cannot style are
// ignored and the printer stays plain.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styleProvider = provider
		}
	}
}

// WithTheme colors output with the unilang theme for a fixed color profile.
func WithTheme(profile termenv.Profile) Option {
	return WithStyles(NewTheme(profile))
}

// ForTerminal colors output when standard output is a color terminal and
// NO_COLOR is unset.
func ForTerminal() Option {
	return WithStyles(DetectTheme())
}

// WithMode sets the output mode.
func WithMode(mode Mode) Option {
	return func(p *Printer) {
		p.mode = mode
	}
}

// JSON prints verified commands and errors as one JSON object per line.
func JSON() Option {
	return WithMode(ModeJSON)
}

// TestMode prints deterministic plain text whatever the style provider.
func TestMode() Option {
	return func(p *Printer) {
		p.testMode = true
		p.mode = ModePlain
		p.forcePlain = true
	}
}

// Silent drops everything the printer is asked to print.
func Silent() Option {
	return func(p *Printer) {
		p.silent = true
	}
}
