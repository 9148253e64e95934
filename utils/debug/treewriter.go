// Package debug renders internal structures as indented text trees for
// inspection in debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) labeled(depth int, label string) {
	tw.w.WriteString(strings.Repeat(indent, depth))
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
}

// Line writes formatted line at depth.
func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.w.WriteString(strings.Repeat(indent, depth))
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes label and quoted text, so separators and line breaks
// inside document text stay visible.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.labeled(depth, label)
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// List writes label followed by items separated by spaces, items are written
// as they are.
func (tw TreeWriter) List(depth int, label string, items []string) {
	tw.labeled(depth, label)
	tw.w.WriteByte('[')
	tw.w.WriteString(strings.Join(items, " "))
	tw.w.WriteString("]\n")
}

// Listf is List for values which know how to present themselves.
func Listf[T fmt.Stringer](tw *TreeWriter, depth int, label string, values []T) {
	items := make([]string, 0, len(values))
	for _, v := range values {
		items = append(items, v.String())
	}
	tw.List(depth, label, items)
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
