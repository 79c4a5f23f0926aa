package lexer

import "testing"

func cursorAt(text string) *Cursor {
	c := NewCursor(text)
	c.Advance()
	return c
}

func TestScanNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		rest  byte
	}{
		{"integer", "12345", "12345", sentinel},
		{"single digit", "7", "7", sentinel},
		{"decimal", "1.25 ", "1.25", ' '},
		{"trailing point", "4. ", "4.", ' '},
		{"second point left behind", "1.2.3", "1.2", '.'},
		{"stops at semicolon", "42;", "42", ';'},
		{"stops at letter", "9x", "9", 'x'},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := cursorAt(test.input)
			tk := ScanNumeric(c)
			if !tk.Valid {
				t.Fatalf("ScanNumeric(%q) returned an invalid token", test.input)
			}
			if tk.Kind() != Numeric || tk.Text() != test.want {
				t.Errorf("ScanNumeric(%q) = %s, want mlnum:%s", test.input, tk.Lexeme, test.want)
			}
			if tk.Position.Start != 0 || tk.Position.End != len(test.want) {
				t.Errorf("span = %+v, want 0..%d", tk.Position, len(test.want))
			}
			if c.Char() != test.rest {
				t.Errorf("cursor left on %q, want %q", c.Char(), test.rest)
			}
		})
	}
}

func TestScanNumeric_Digits(t *testing.T) {
	for _, input := range []string{"0", "00", "0123456789", "99999999999999999999"} {
		tk := ScanNumeric(cursorAt(input))
		if tk.Kind() != Numeric || tk.Text() != input {
			t.Errorf("ScanNumeric(%q) = %s, want mlnum:%s", input, tk.Lexeme, input)
		}
	}
}

func TestScanNumeric_NothingConsumed(t *testing.T) {
	c := cursorAt("x1")
	tk := ScanNumeric(c)
	if tk.Valid {
		t.Errorf("ScanNumeric on a letter = %s, want an invalid token", tk)
	}
	if c.Offset() != 0 {
		t.Errorf("cursor moved to %d", c.Offset())
	}
}

func TestScanNamespace(t *testing.T) {
	c := cursorAt("abc def")
	c.Advance()
	pos := Position{Start: 0, End: 0, Line: 1, Column: 1}

	tk := ScanNamespace(c, "a", pos)
	if tk.Kind() != Namespace || tk.Text() != "abc" {
		t.Errorf("ScanNamespace = %s, want mlnamespace:abc", tk.Lexeme)
	}
	if tk.Position.End != 3 || tk.Position.Column != 1 {
		t.Errorf("span = %+v, want end 3 from column 1", tk.Position)
	}
	if c.Char() != ' ' {
		t.Errorf("cursor left on %q, want the delimiter", c.Char())
	}
}

func TestScanNamespace_Empty(t *testing.T) {
	c := cursorAt(" ")
	if tk := ScanNamespace(c, "", c.Capture()); tk.Valid {
		t.Errorf("ScanNamespace on a delimiter = %s, want an invalid token", tk)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		text  string
		end   int
	}{
		{"single character", "= 1", Infix, "=", 1},
		{"multi character affix", "... ", Affix, "...", 3},
		{"prefix", "return;", Prefix, "return", 6},
		{"prefix vetoed", "returned ", Namespace, "returned", 8},
		{"prefix prefixing text", "return1", Namespace, "return1", 7},
		{"unknown", "foo bar", Namespace, "foo", 3},
		{"partial affix", "..a", Namespace, "..a", 3},
		{"circumfix", "(a", Circumfix, "(", 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tk := Resolve(cursorAt(test.input))
			if !tk.Valid {
				t.Fatalf("Resolve(%q) returned an invalid token", test.input)
			}
			if tk.Kind() != test.kind || tk.Text() != test.text {
				t.Errorf("Resolve(%q) = %s, want %s:%s", test.input, tk.Lexeme, test.kind, test.text)
			}
			if tk.Position.Start != 0 || tk.Position.End != test.end {
				t.Errorf("span = %+v, want 0..%d", tk.Position, test.end)
			}
		})
	}
}

func TestResolve_CarriesLexiconAttributes(t *testing.T) {
	tk := Resolve(cursorAt("return "))
	lx := tk.Lexeme
	if lx.Precedence != Low || !lx.Isolated || !lx.Unary || lx.Binary {
		t.Errorf("return lexeme = %+v", lx)
	}

	tk = Resolve(cursorAt("*"))
	if tk.Lexeme.Precedence != Low || !tk.Lexeme.Binary || tk.Lexeme.Unary {
		t.Errorf("* lexeme = %+v", tk.Lexeme)
	}
}
