// Package debug holds helpers for producing readable dumps of internal
// structures. Used only from debug reports and tests.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates an indented textual tree.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

// Line writes a formatted line at the given depth.
func (tw TreeWriter) Line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes a labeled, quoted text value at the given depth. Quoting
// keeps control characters and surrounding whitespace visible.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	for range depth {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	if value != "" {
		tw.w.WriteString(": ")
		tw.w.WriteString(strconv.Quote(value))
	}
	tw.w.WriteByte('\n')
}
