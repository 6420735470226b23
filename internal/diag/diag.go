// Package diag collects the analyzer and emitter's diagnostics in source
// order. Diagnostics are never fatal by themselves: a constraint violation
// is recorded and the offending subtree is typed as an error so that
// analysis can keep going (spec §7, "Error handling design").
package diag

import (
	"fmt"
	"os"
	"strings"
)

// Severity distinguishes a constraint violation from an implementation
// warning. Both are diagnostics; only errors halt the pipeline (spec §7).
type Severity uint8

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Loc is a 1-based line, 0-based byte column, matching spec §6's
// "[row:col] message" diagnostic format.
type Loc struct {
	Line   int
	Column int
}

// Msg is one diagnostic: its location, severity, and formatted text.
type Msg struct {
	Loc      Loc
	Severity Severity
	Text     string
}

func (m Msg) String() string {
	return fmt.Sprintf("[%d:%d] %s", m.Loc.Line, m.Loc.Column, m.Text)
}

// Log is an ordered collector of diagnostics for a single translation unit.
// It preserves AST traversal order (spec §5, "Ordering"), which is source
// order modulo post-order arithmetic within a single expression.
type Log struct {
	msgs []Msg
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) AddError(loc Loc, text string) {
	l.msgs = append(l.msgs, Msg{Loc: loc, Severity: Error, Text: text})
}

func (l *Log) AddErrorf(loc Loc, format string, args ...interface{}) {
	l.AddError(loc, fmt.Sprintf(format, args...))
}

func (l *Log) AddWarning(loc Loc, text string) {
	l.msgs = append(l.msgs, Msg{Loc: loc, Severity: Warning, Text: text})
}

func (l *Log) AddWarningf(loc Loc, format string, args ...interface{}) {
	l.AddWarning(loc, fmt.Sprintf(format, args...))
}

// AddInternalError reports an internal-assertion-class failure (spec §7:
// "a fatal structural inconsistency ... is reported through an internal
// diagnostic"). It is still a recorded Msg, never a Go panic, because the
// input is source-derived and must not be able to crash the process.
func (l *Log) AddInternalError(loc Loc, text string) {
	l.AddError(loc, "internal: "+text)
}

// HasErrors reports whether any non-warning diagnostic was recorded. The
// driver halts the pipeline when this is true (spec §7).
func (l *Log) HasErrors() bool {
	for _, m := range l.msgs {
		if m.Severity == Error {
			return true
		}
	}
	return false
}

// Done returns the diagnostics in emission order, i.e. the order the
// analyzer's traversal recorded them in. That order is not guaranteed to be
// monotonic in source position: post-order evaluation within an expression
// can record a diagnostic for an inner subexpression after one for an
// enclosing construct that appears later on the same line. Callers that want
// diagnostics in source position order must sort Done's result themselves.
func (l *Log) Done() []Msg {
	out := make([]Msg, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Format renders messages one per line as "[row:col] message", per spec §6.
// When the output terminal reports a width, long messages are wrapped to it;
// a width of zero (the common case: piped output, or a platform where the
// terminal size can't be queried) disables wrapping.
func Format(msgs []Msg) string {
	width := TerminalWidth(os.Stderr)
	var b strings.Builder
	for _, m := range msgs {
		line := m.String()
		if width > 0 {
			line = wrap(line, width)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func wrap(line string, width int) string {
	if width <= 0 || len(line) <= width {
		return line
	}
	var b strings.Builder
	for len(line) > width {
		cut := strings.LastIndexByte(line[:width], ' ')
		if cut <= 0 {
			cut = width
		}
		b.WriteString(line[:cut])
		b.WriteByte('\n')
		line = strings.TrimPrefix(line[cut:], " ")
	}
	b.WriteString(line)
	return b.String()
}
