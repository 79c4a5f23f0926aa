package lexer

import (
	"fmt"
	"strconv"
)

// Kind classifies a lexeme.
type Kind int

const (
	// Numeric is every run of digits with at most one decimal point
	Numeric Kind = iota
	// Namespace is any literal run of characters until it is resolved
	// into its real type by a later stage
	Namespace
	// Affix is a standalone lexicon unit
	Affix
	// Prefix is an affix found before a statement
	Prefix
	// Infix is an affix found between the operands of a statement
	Infix
	// Circumfix is an affix found surrounding a statement
	Circumfix
	// EndOfStream marks the end of a token stream
	EndOfStream
)

var kindNames = [...]string{
	Numeric:     "mlnum",
	Namespace:   "mlnamespace",
	Affix:       "mlaffix",
	Prefix:      "mlprefix",
	Infix:       "mlinfix",
	Circumfix:   "mlcircumfix",
	EndOfStream: "mleof",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Precedence is the binding tier of a lexeme.
type Precedence int

const (
	Lowest Precedence = iota
	Low
	High
	Highest
)

func (p Precedence) String() string {
	switch p {
	case Lowest:
		return "lowest"
	case Low:
		return "low"
	case High:
		return "high"
	case Highest:
		return "highest"
	default:
		return "Precedence(" + strconv.Itoa(int(p)) + ")"
	}
}

// Position is a span of source text. Start and End are byte offsets,
// Line and Column are 1-based and describe the character at Start.
type Position struct {
	Start  int
	End    int
	Line   int
	Column int
}

// Len returns the number of bytes covered by the span.
func (p Position) Len() int {
	return p.End - p.Start
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d~%d", p.Line, p.Column, p.End)
}

// Lexeme is a classified unit of meaning, independent of its location.
type Lexeme struct {
	Characters string
	Kind       Kind
	Precedence Precedence
	Hyphenated bool
	Isolated   bool
	Unary      bool
	Binary     bool
}

// Equal compares kind and characters only.
func (l Lexeme) Equal(other Lexeme) bool {
	return l.Kind == other.Kind && l.Characters == other.Characters
}

func (l Lexeme) String() string {
	return l.Kind.String() + ":" + l.Characters
}

// Token pairs a lexeme with its position in the source.
// A zero Token is invalid.
type Token struct {
	Lexeme   Lexeme
	Position Position
	Valid    bool
}

// NewToken returns a valid token.
func NewToken(lexeme Lexeme, pos Position) Token {
	return Token{Lexeme: lexeme, Position: pos, Valid: true}
}

// endOfStream is the sentinel appended once the input has been exhausted.
func endOfStream(pos Position) Token {
	return Token{Lexeme: Lexeme{Kind: EndOfStream}, Position: pos}
}

// IsEOF reports whether t is the end-of-stream sentinel.
func (t Token) IsEOF() bool {
	return !t.Valid && t.Lexeme.Kind == EndOfStream
}

// Kind is shorthand for t.Lexeme.Kind.
func (t Token) Kind() Kind {
	return t.Lexeme.Kind
}

// Text is shorthand for t.Lexeme.Characters.
func (t Token) Text() string {
	return t.Lexeme.Characters
}

// Equal reports whether both tokens are valid and carry equal lexemes.
// Positions are ignored.
func (t Token) Equal(other Token) bool {
	return t.Valid && other.Valid && t.Lexeme.Equal(other.Lexeme)
}

func (t Token) String() string {
	return "Tk<" + t.Lexeme.String() + " @ " + t.Position.String() + ">"
}
