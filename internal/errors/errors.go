// internal/errors/errors.go
package errors

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	SyntaxError ErrorType = "SyntaxError"
)

// SourceLocation is a span of source text. Start and End are byte
// offsets, Line and Column are 1-based.
type SourceLocation struct {
	Start  int
	End    int
	Line   int
	Column int
}

// LexError is the diagnostic raised when source text cannot be tokenized.
type LexError struct {
	Type     ErrorType
	Location SourceLocation
	Brief    string
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(brief string, loc SourceLocation) *LexError {
	return &LexError{
		Type:     SyntaxError,
		Location: loc,
		Brief:    brief,
	}
}

// Error implements the error interface
func (e *LexError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Location.Line, e.Location.Column, e.Brief)
}

func (e *LexError) String() string {
	return e.Error()
}

// Traceback renders the offending source line of text with the error
// underlined, prefixed with uri and followed by the brief.
func (e *LexError) Traceback(text, uri string) string {
	return Traceback(e.Location, text, uri, e.Brief)
}

// Fprint writes the traceback and a trailing newline to w.
func (e *LexError) Fprint(w io.Writer, text, uri string) error {
	_, err := io.WriteString(w, e.Traceback(text, uri)+"\n")
	return err
}

// Traceback renders loc against text as
//
//	Exception in <uri>:
//	<line> | <source>
//	         ~~~^^^
//	<brief>
//
// The source is sliced from the start of the line for loc.End bytes and
// the underline counts are taken relative to the line start exactly as
// computed from loc; counts that come out negative are treated as zero.
func Traceback(loc SourceLocation, text, uri, brief string) string {
	lineStart := loc.Start - (loc.Column - 1)
	errStart := loc.Start - lineStart

	gutter := strconv.Itoa(loc.Line) + " | "

	var sb strings.Builder
	sb.WriteString("Exception in " + uri + ":\n")
	sb.WriteString(gutter)
	sb.WriteString(substr(text, lineStart, loc.End))
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", len(gutter)))
	sb.WriteString(repeat('~', errStart-lineStart))
	sb.WriteString(repeat('^', loc.End-errStart))
	sb.WriteByte('\n')
	sb.WriteString(brief)
	return sb.String()
}

// substr returns up to count bytes of s starting at start.
func substr(s string, start, count int) string {
	if start < 0 {
		start = 0
	}
	if start > len(s) || count <= 0 {
		return ""
	}
	end := start + count
	if end > len(s) {
		end = len(s)
	}
	return s[start:end]
}

func repeat(c byte, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(c), n)
}
