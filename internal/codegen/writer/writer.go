package writer

import (
	"bytes"
	"fmt"
	"strings"
)

// Writer accumulates generated source with indentation tracking
type Writer struct {
	buf          bytes.Buffer
	indentLevel  int
	indentString string
	linePrefix   string
	needsIndent  bool
}

// NewWriter creates a new code writer with specified indentation string
func NewWriter(indentString string) *Writer {
	return &Writer{
		indentString: indentString,
		needsIndent:  true,
	}
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel == 0 {
		return
	}
	w.indentLevel--
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}

// Write writes a string without adding a newline
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.buf.WriteString(w.linePrefix)
		w.needsIndent = false
	}
	w.buf.WriteString(s)
}

// Writef writes a formatted string without adding a newline
func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteLine writes a string and adds a newline
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef writes a formatted string and adds a newline
func (w *Writer) WriteLinef(format string, args ...any) {
	w.Writef(format, args...)
	w.Newline()
}

// Newline ends the current line
func (w *Writer) Newline() {
	w.buf.WriteByte('\n')
	w.needsIndent = true
}

// BlankLine emits an empty line unless the output already ends with one
func (w *Writer) BlankLine() {
	if w.buf.Len() > 0 && !bytes.HasSuffix(w.buf.Bytes(), []byte("\n\n")) {
		w.Newline()
	}
}

// WriteBlock writes content between an opener and a closer line, one level deeper
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// WriteComment writes a single-line comment
func (w *Writer) WriteComment(comment string) {
	if comment == "" {
		w.WriteLine("//")
		return
	}
	w.WriteLinef("// %s", comment)
}

// WriteBanner writes a comment box made of slashes around the given lines
func (w *Writer) WriteBanner(width int, lines ...string) {
	rule := strings.Repeat("/", width)
	w.WriteLine(rule)
	for _, line := range lines {
		w.WriteComment(line)
	}
	w.WriteLine(rule)
}

// Len returns the number of bytes written so far
func (w *Writer) Len() int {
	return w.buf.Len()
}

// String returns the generated code as a string
func (w *Writer) String() string {
	return w.buf.String()
}

// Bytes returns a copy of the generated code
func (w *Writer) Bytes() []byte {
	return bytes.Clone(w.buf.Bytes())
}
