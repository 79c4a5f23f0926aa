package lexer

import (
	"log/slog"

	"mlang/internal/errors"
)

// Result is the outcome of a tokenization pass.
type Result struct {
	// Tokens ends with the end-of-stream sentinel only when ReachedEOF.
	Tokens []Token
	// ReachedEOF is false when a scanner failed to produce a token and the
	// pass stopped early.
	ReachedEOF bool
	// Stopped is the zero-width position where the pass ended: the end of
	// the text, or the start of the token that could not be scanned.
	Stopped Position
	Err     *errors.LexError
}

// Failed reports whether the pass raised a diagnostic.
func (r Result) Failed() bool {
	return r.Err != nil
}

// FailureHook builds the diagnostic raised when no token can be produced
// at pos. Returning nil keeps the silent truncation.
type FailureHook func(pos Position) *errors.LexError

// Option configures Tokenize.
type Option func(*tokenizer)

// WithStrict raises a diagnostic instead of silently truncating the token
// stream when a scanner cannot make progress.
func WithStrict() Option {
	return WithFailureHook(func(pos Position) *errors.LexError {
		return errors.NewSyntaxError("unable to resolve token", pos.Location())
	})
}

// WithFailureHook installs hook for early termination.
func WithFailureHook(hook FailureHook) Option {
	return func(t *tokenizer) {
		t.onFailure = hook
	}
}

// WithNumericScanner replaces the scanner used for tokens starting with a
// digit. A scanner returning an invalid token stops the pass.
func WithNumericScanner(scan func(*Cursor) Token) Option {
	return func(t *tokenizer) {
		if scan != nil {
			t.numeric = scan
		}
	}
}

// WithLogger traces emitted tokens at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(t *tokenizer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

type tokenizer struct {
	numeric   func(*Cursor) Token
	resolve   func(*Cursor) Token
	onFailure FailureHook
	logger    *slog.Logger
}

func newTokenizer(opts ...Option) *tokenizer {
	t := &tokenizer{
		numeric: ScanNumeric,
		resolve: Resolve,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize splits text into tokens. Delimiters are stepped over and never
// emitted.
func Tokenize(text string, opts ...Option) Result {
	return newTokenizer(opts...).run(text)
}

func (t *tokenizer) run(text string) Result {
	var tokens []Token
	c := NewCursor(text)

	c.Advance()
	for !c.EOF() {
		if c.IsDelimiter() {
			c.Advance()
			continue
		}

		at := c.Capture()
		var tk Token
		if isDigit(c.Char()) {
			tk = t.numeric(c)
		} else {
			tk = t.resolve(c)
			if !tk.Valid {
				tk = ScanNamespace(c, "", c.Capture())
			}
		}

		if !tk.Valid {
			// scanners leave the cursor past their last character, so a
			// failed scan is the only way to stop before the end
			t.logger.Debug("tokenize stopped early", "position", at.String(), "tokens", len(tokens))
			res := Result{Tokens: tokens, Stopped: at}
			if t.onFailure != nil {
				res.Err = t.onFailure(at)
			}
			return res
		}
		t.logger.Debug("token", "token", tk.String())
		tokens = append(tokens, tk)
	}

	end := c.Capture()
	tokens = append(tokens, endOfStream(end))
	return Result{Tokens: tokens, ReachedEOF: true, Stopped: end}
}

// Location converts p for diagnostics.
func (p Position) Location() errors.SourceLocation {
	return errors.SourceLocation{
		Start:  p.Start,
		End:    p.End,
		Line:   p.Line,
		Column: p.Column,
	}
}
