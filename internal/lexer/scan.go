package lexer

import "strings"

// ScanNumeric consumes a run of digits with at most one decimal point.
// A second decimal point ends the run and is left under the cursor.
// The returned token is invalid when nothing was consumed.
func ScanNumeric(c *Cursor) Token {
	var sb strings.Builder
	pos := c.Capture()
	dots := 0

	for !c.atBoundary() {
		ch := c.Char()
		if ch == '.' {
			if dots > 0 {
				break
			}
			dots++
		} else if !isDigit(ch) {
			break
		}
		sb.WriteByte(ch)
		c.Advance()
	}

	if sb.Len() == 0 {
		return Token{Position: pos}
	}
	pos.End = c.Offset()
	return NewToken(Lexeme{Characters: sb.String(), Kind: Numeric}, pos)
}

// ScanNamespace appends every character up to the next delimiter or the
// end of input to prefix. pos is where prefix started.
func ScanNamespace(c *Cursor, prefix string, pos Position) Token {
	var sb strings.Builder
	sb.WriteString(prefix)

	for !c.atBoundary() {
		sb.WriteByte(c.Char())
		c.Advance()
	}

	if sb.Len() == 0 {
		return Token{Position: pos}
	}
	pos.End = c.Offset()
	return NewToken(Lexeme{Characters: sb.String(), Kind: Namespace}, pos)
}

// Resolve grows a candidate one character at a time from the cursor until
// it spells a lexicon entry or a delimiter is reached. An interfix entry
// that runs straight into more text is rejected. Anything unmatched is
// scanned as a namespace.
func Resolve(c *Cursor) Token {
	pos := c.Capture()
	candidate := []byte{c.Char()}
	c.Advance()

	entry, found := Lookup(string(candidate))
	for !found && !c.atBoundary() {
		candidate = append(candidate, c.Char())
		entry, found = Lookup(string(candidate))
		c.Advance()
	}

	if !found || (entry.Interfix && !c.atBoundary()) {
		return ScanNamespace(c, string(candidate), pos)
	}
	pos.End = c.Offset()
	return NewToken(entry.Lexeme(), pos)
}
