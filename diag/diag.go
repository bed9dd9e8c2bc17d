// Package diag renders the compiler's uniform diagnostic format: the
// source line containing the offending token, a caret beneath it, and a
// message, preceded by file name, line number, and column. Every error
// kind in the compiler (tokenizer, preprocessor, parser, type annotator,
// codegen) formats through this one function so a user sees the same
// shape of error regardless of which pass caught it.
package diag

import (
	"fmt"
	"strings"
)

// Format builds the multi-line diagnostic text for one error.
//
// sourceLine is the full text of the line containing the error (no
// trailing newline). column is 1-based; a column of 0 or less omits the
// caret line entirely (used when no precise column is known).
func Format(file string, line, column int, sourceLine, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s\n", file, line, column, message)
	if sourceLine != "" {
		b.WriteString(sourceLine)
		b.WriteByte('\n')
		if column > 0 {
			pad := column - 1
			if pad < 0 {
				pad = 0
			}
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString("^")
		}
	}
	return b.String()
}

// Line extracts the 1-based nth line from src for use as Format's
// sourceLine argument. Returns "" if line is out of range.
func Line(src []byte, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(string(src), "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
