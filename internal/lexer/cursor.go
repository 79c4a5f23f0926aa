package lexer

// sentinel is read as the current character once the cursor has run past
// the end of the text.
const sentinel = '!'

// Cursor is the scanning state of a single tokenization pass. It must not
// be shared between passes.
type Cursor struct {
	text string
	pos  int
	// 1-based column and line of the character under the cursor
	column int
	line   int
	chr    byte
	eof    bool

	// set after stepping onto a newline; the line is only bumped on the
	// following advance so the newline itself stays on its own line
	pendingNewline bool
	// column of every newline passed, so retreat can restore it
	lineWidths []int
}

// NewCursor returns a cursor placed before the first character of text.
// Call Advance once to land on it.
func NewCursor(text string) *Cursor {
	return &Cursor{
		text:   text,
		pos:    -1,
		column: 0,
		line:   1,
	}
}

// Char is the character under the cursor.
func (c *Cursor) Char() byte { return c.chr }

// Offset is the byte offset of the cursor.
func (c *Cursor) Offset() int { return c.pos }

// Line is the 1-based line of the cursor.
func (c *Cursor) Line() int { return c.line }

// Column is the 1-based column of the cursor.
func (c *Cursor) Column() int { return c.column }

// EOF reports whether the cursor has run past the end of the text.
func (c *Cursor) EOF() bool { return c.eof }

// Text returns the text being scanned.
func (c *Cursor) Text() string { return c.text }

// Advance moves one byte forward.
func (c *Cursor) Advance() {
	c.pos++
	c.column++

	if c.pendingNewline {
		c.lineWidths = append(c.lineWidths, c.column-1)
		c.line++
		c.column = 1
		c.pendingNewline = false
	}
	c.update()
	if !c.eof && c.chr == '\n' {
		c.pendingNewline = true
	}
}

// Retreat moves one byte backward. Stepping back onto a newline restores
// the line and column it was found at.
func (c *Cursor) Retreat() {
	if c.pos <= 0 {
		return
	}
	c.pos--
	c.column--

	c.update()
	c.pendingNewline = false
	if c.chr == '\n' {
		if n := len(c.lineWidths); n > 0 {
			c.column = c.lineWidths[n-1]
			c.lineWidths = c.lineWidths[:n-1]
			c.line--
		}
		c.pendingNewline = true
	}
}

// Capture returns a zero-width position at the cursor.
func (c *Cursor) Capture() Position {
	return Position{Start: c.pos, End: c.pos, Line: c.line, Column: c.column}
}

// IsDelimiter reports whether the current character separates tokens.
func (c *Cursor) IsDelimiter() bool {
	return isDelimiter(c.chr)
}

// atBoundary is true at a delimiter or past the end of the text.
func (c *Cursor) atBoundary() bool {
	return c.eof || c.IsDelimiter()
}

func (c *Cursor) update() {
	if c.pos >= 0 && c.pos < len(c.text) {
		c.chr = c.text[c.pos]
		c.eof = false
		return
	}
	c.chr = sentinel
	c.eof = true
}
