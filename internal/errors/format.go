package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/routetable/pkg/router"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

// paint wraps text in the given codes if colors are enabled.
func paint(text string, codes ...string) string {
	if !colorEnabled || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + colorReset
}

// Format returns the error formatted for terminal display.
func (e *Error) Format() string {
	var b strings.Builder
	b.WriteString("\n")
	e.writeHeadline(&b)
	e.writeSource(&b)
	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	e.writeCause(&b)
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint("Hint: ", colorCyan), e.Suggestion)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "  %s%s\n", paint("Learn more: ", colorGray), paint(e.DocURL, colorBlue))
	}
	return b.String()
}

func (e *Error) writeHeadline(b *strings.Builder) {
	if e.Code != "" {
		b.WriteString(paint("ERROR ", colorRed, colorBold))
		b.WriteString(paint(e.Code+": ", colorWhite, colorBold))
	} else {
		b.WriteString(paint("ERROR: ", colorRed, colorBold))
	}
	b.WriteString(paint(e.Message, colorWhite))
	b.WriteString("\n\n")
}

// writeSource prints the location and the manifest lines around it, with
// an arrow on the offending line and a caret under its column.
func (e *Error) writeSource(b *strings.Builder) {
	if e.Location == nil {
		return
	}
	fmt.Fprintf(b, "  %s\n\n", paint(e.Location.String(), colorCyan))
	if len(e.Context) == 0 {
		return
	}

	first := max(e.Location.Line-len(e.Context)/2, 1)
	bar := paint(" │ ", colorGray)
	for i, line := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", n, bar, line)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", paint("→ ", colorRed), n, bar, line)
		if e.Location.Column > 0 {
			fmt.Fprintf(b, "       %s%s%s\n", paint("│ ", colorGray),
				strings.Repeat(" ", e.Location.Column-1), paint("^", colorRed))
		}
	}
	b.WriteString("\n")
}

// writeCause prints the wrapped error. Route table problems are listed one
// per line with their kind highlighted.
func (e *Error) writeCause(b *strings.Builder) {
	if e.Wrapped == nil {
		return
	}

	var cfgErr *router.ConfigurationError
	if stderrors.As(e.Wrapped, &cfgErr) && len(cfgErr.Problems) > 0 {
		for _, p := range cfgErr.Problems {
			fmt.Fprintf(b, "  • %s %s", paint(string(p.Kind), colorYellow), p.Message)
			if p.Path != "" {
				b.WriteString(paint(" ("+p.Path+")", colorGray))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		return
	}

	for _, line := range strings.Split(e.Wrapped.Error(), "\n") {
		fmt.Fprintf(b, "  %s\n", paint(line, colorGray))
	}
	b.WriteString("\n")
}

// FormatCompact returns a single-line form: "file:line:col: CODE: message".
func (e *Error) FormatCompact() string {
	parts := make([]string, 0, 3)
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// wrapText wraps text on word boundaries to at most width columns.
// Words longer than width get a line of their own.
func wrapText(text string, width int) []string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// PrintError writes a formatted error to w.
func PrintError(w io.Writer, err error) {
	var e *Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint("ERROR:", colorRed, colorBold), err)
}
