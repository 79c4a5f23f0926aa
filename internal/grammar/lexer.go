// Package grammar exposes the mlang tokenizer as a participle lexer so
// grammars can be written against its token kinds.
package grammar

import (
	"io"

	plexer "github.com/alecthomas/participle/v2/lexer"

	"mlang/internal/lexer"
)

var kinds = []lexer.Kind{
	lexer.Numeric,
	lexer.Namespace,
	lexer.Affix,
	lexer.Prefix,
	lexer.Infix,
	lexer.Circumfix,
}

var symbolNames = map[lexer.Kind]string{
	lexer.Numeric:   "Numeric",
	lexer.Namespace: "Namespace",
	lexer.Affix:     "Affix",
	lexer.Prefix:    "Prefix",
	lexer.Infix:     "Infix",
	lexer.Circumfix: "Circumfix",
}

// TokenType maps a lexeme kind onto its participle token type.
func TokenType(k lexer.Kind) plexer.TokenType {
	if k == lexer.EndOfStream {
		return plexer.EOF
	}
	return plexer.EOF - 1 - plexer.TokenType(k)
}

// Definition is a participle lexer.Definition backed by lexer.Tokenize.
type Definition struct {
	opts []lexer.Option
}

var (
	_ plexer.Definition       = (*Definition)(nil)
	_ plexer.StringDefinition = (*Definition)(nil)
)

// New returns a definition tokenizing with opts. Pass lexer.WithStrict to
// turn early termination into a lex error.
func New(opts ...lexer.Option) *Definition {
	return &Definition{opts: opts}
}

// Symbols implements lexer.Definition.
func (d *Definition) Symbols() map[string]plexer.TokenType {
	syms := map[string]plexer.TokenType{"EOF": plexer.EOF}
	for _, k := range kinds {
		syms[symbolNames[k]] = TokenType(k)
	}
	return syms
}

// Lex implements lexer.Definition.
func (d *Definition) Lex(filename string, r io.Reader) (plexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.LexString(filename, string(data))
}

// LexString implements lexer.StringDefinition.
func (d *Definition) LexString(filename string, input string) (plexer.Lexer, error) {
	res := lexer.Tokenize(input, d.opts...)
	if res.Failed() {
		loc := res.Err.Location
		return nil, &plexer.Error{
			Msg: res.Err.Brief,
			Pos: plexer.Position{
				Filename: filename,
				Offset:   loc.Start,
				Line:     loc.Line,
				Column:   loc.Column,
			},
		}
	}

	tokens := make([]plexer.Token, 0, len(res.Tokens)+1)
	for _, tk := range res.Tokens {
		tokens = append(tokens, convert(filename, tk))
	}
	if !res.ReachedEOF {
		// participle needs an EOF token to stop reading
		tokens = append(tokens, convert(filename, lexer.Token{Lexeme: lexer.Lexeme{Kind: lexer.EndOfStream}, Position: res.Stopped}))
	}
	return &tokenStream{tokens: tokens}, nil
}

func convert(filename string, tk lexer.Token) plexer.Token {
	return plexer.Token{
		Type:  TokenType(tk.Kind()),
		Value: tk.Text(),
		Pos: plexer.Position{
			Filename: filename,
			Offset:   tk.Position.Start,
			Line:     tk.Position.Line,
			Column:   tk.Position.Column,
		},
	}
}

type tokenStream struct {
	tokens []plexer.Token
	next   int
}

// Next implements lexer.Lexer. It keeps returning EOF once drained.
func (s *tokenStream) Next() (plexer.Token, error) {
	if s.next >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1], nil
	}
	tk := s.tokens[s.next]
	s.next++
	return tk, nil
}
