package lexer

// LexiconEntry is a known operator or affix.
type LexiconEntry struct {
	Characters string
	Kind       Kind
	Precedence Precedence
	// Interfix entries are only accepted when followed by a delimiter or
	// the end of input.
	Interfix bool
	Isolated bool
	Unary    bool
	Binary   bool
}

// Lexeme returns the lexeme emitted when the entry is matched.
func (e LexiconEntry) Lexeme() Lexeme {
	return Lexeme{
		Characters: e.Characters,
		Kind:       e.Kind,
		Precedence: e.Precedence,
		Isolated:   e.Isolated,
		Unary:      e.Unary,
		Binary:     e.Binary,
	}
}

// Delimiters separate tokens and are never emitted.
var delimiters = [...]byte{' ', ';'}

// lexicon is read-only after package initialisation and shared by every
// tokenization pass.
var lexicon = [...]LexiconEntry{
	{Characters: "~", Kind: Infix, Precedence: Lowest, Unary: true, Binary: true},
	{Characters: "=", Kind: Infix, Precedence: Lowest, Binary: true},
	{Characters: "+", Kind: Infix, Precedence: Lowest, Unary: true, Binary: true},
	{Characters: "-", Kind: Infix, Precedence: Lowest, Unary: true, Binary: true},
	{Characters: "*", Kind: Infix, Precedence: Low, Binary: true},
	{Characters: "/", Kind: Infix, Precedence: Low, Binary: true},
	{Characters: "...", Kind: Affix, Precedence: Low},
	{Characters: "return", Kind: Prefix, Precedence: Low, Interfix: true, Isolated: true, Unary: true},
	{Characters: "{", Kind: Circumfix, Precedence: Lowest},
	{Characters: "}", Kind: Circumfix, Precedence: Lowest},
	{Characters: "(", Kind: Circumfix, Precedence: Lowest},
	{Characters: ")", Kind: Circumfix, Precedence: Lowest},
}

var lexiconIndex = func() map[string]int {
	idx := make(map[string]int, len(lexicon))
	for i, e := range lexicon {
		idx[e.Characters] = i
	}
	return idx
}()

// Lookup finds the lexicon entry spelled exactly as characters.
func Lookup(characters string) (LexiconEntry, bool) {
	i, ok := lexiconIndex[characters]
	if !ok {
		return LexiconEntry{}, false
	}
	return lexicon[i], true
}

// Entries returns a copy of the lexicon in table order.
func Entries() []LexiconEntry {
	out := make([]LexiconEntry, len(lexicon))
	copy(out, lexicon[:])
	return out
}

func isDelimiter(c byte) bool {
	for _, d := range delimiters {
		if c == d {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
