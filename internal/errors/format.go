package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI styles used by Format.
const (
	styleReset = "\033[0m"
	styleBold  = "\033[1m"
	styleRed   = "\033[31m"
	styleAmber = "\033[33m"
	styleCyan  = "\033[36m"
	styleDim   = "\033[90m"
)

// colors is off when NO_COLOR is set.
var colors = os.Getenv("NO_COLOR") == ""

// SetColor turns ANSI styling of Format output on or off.
func SetColor(on bool) { colors = on }

func paint(style, s string) string {
	if !colors || s == "" {
		return s
	}
	return style + s + styleReset
}

// Format renders the error for a terminal: a header, the location with the
// surrounding source lines, the detail wrapped to 72 columns and the hint.
// Identity errors are rendered as warnings.
func (e *Error) Format() string {
	var b strings.Builder

	label, style := "ERROR", styleRed
	if e.Category == CategoryIdentity {
		label, style = "WARN", styleAmber
	}
	header := label
	if e.Code != "" {
		header += " " + e.Code
	}
	fmt.Fprintf(&b, "\n%s %s\n\n", paint(styleBold+style, header+":"), paint(styleBold, e.Message))

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(styleCyan, e.Location.String()))
		if len(e.Context) > 0 {
			e.writeContext(&b)
			b.WriteByte('\n')
		}
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 72) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteByte('\n')
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", paint(styleCyan, "Hint:"), e.Suggestion)
	}
	return b.String()
}

// writeContext prints the source lines around the location, marking the
// failing line and column.
func (e *Error) writeContext(b *strings.Builder) {
	first := contextStart(e.Location.Line)
	gutter := paint(styleDim, " | ")
	for i, src := range e.Context {
		n := first + i
		marker := "  "
		if n == e.Location.Line {
			marker = paint(styleRed, "> ")
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", marker, n, gutter, src)
		if n == e.Location.Line && e.Location.Column > 0 {
			fmt.Fprintf(b, "        %s%s%s\n", gutter, strings.Repeat(" ", e.Location.Column-1), paint(styleRed, "^"))
		}
	}
}

// FormatCompact returns a single line: location, code and message.
func (e *Error) FormatCompact() string {
	parts := make([]string, 0, 3)
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	return strings.Join(append(parts, e.Message), ": ")
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
}

// FormatJSON returns the error as a JSON object.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Location != nil {
		out.Location = &jsonLocation{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// Fprint writes err to w. Coded errors use Format; joined errors are printed
// one after another.
func Fprint(w io.Writer, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			Fprint(w, inner)
		}
		return
	}
	var coded *Error
	if stderrors.As(err, &coded) {
		fmt.Fprint(w, coded.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint(styleBold+styleRed, "ERROR:"), err)
}

// wrapText splits text into lines of at most width bytes, breaking on spaces.
// Words longer than width get a line of their own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
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
