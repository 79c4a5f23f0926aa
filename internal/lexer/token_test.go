package lexer

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		characters string
		found      bool
		kind       Kind
		precedence Precedence
		interfix   bool
	}{
		{"~", true, Infix, Lowest, false},
		{"=", true, Infix, Lowest, false},
		{"+", true, Infix, Lowest, false},
		{"-", true, Infix, Lowest, false},
		{"*", true, Infix, Low, false},
		{"/", true, Infix, Low, false},
		{"...", true, Affix, Low, false},
		{"return", true, Prefix, Low, true},
		{"{", true, Circumfix, Lowest, false},
		{"}", true, Circumfix, Lowest, false},
		{"(", true, Circumfix, Lowest, false},
		{")", true, Circumfix, Lowest, false},
		{"..", false, 0, 0, false},
		{"ret", false, 0, 0, false},
		{"", false, 0, 0, false},
	}

	for _, test := range tests {
		entry, ok := Lookup(test.characters)
		if ok != test.found {
			t.Errorf("Lookup(%q) found = %v, want %v", test.characters, ok, test.found)
			continue
		}
		if !ok {
			continue
		}
		if entry.Kind != test.kind || entry.Precedence != test.precedence || entry.Interfix != test.interfix {
			t.Errorf("Lookup(%q) = %+v", test.characters, entry)
		}
	}
}

func TestEntries_IsACopy(t *testing.T) {
	entries := Entries()
	if len(entries) != 12 {
		t.Fatalf("len(Entries()) = %d, want 12", len(entries))
	}
	entries[0].Characters = "?"
	if _, ok := Lookup("~"); !ok {
		t.Error("mutating Entries() changed the lexicon")
	}
	if Entries()[0].Characters != "~" {
		t.Error("Entries() returned the shared table")
	}
}

func TestToken_Equal(t *testing.T) {
	a := NewToken(Lexeme{Characters: "x", Kind: Namespace}, Position{Start: 0, End: 1, Line: 1, Column: 1})
	b := NewToken(Lexeme{Characters: "x", Kind: Namespace}, Position{Start: 9, End: 10, Line: 3, Column: 4})
	c := NewToken(Lexeme{Characters: "x", Kind: Numeric}, a.Position)
	d := NewToken(Lexeme{Characters: "y", Kind: Namespace}, a.Position)
	invalid := Token{Lexeme: a.Lexeme}

	if !a.Equal(b) {
		t.Error("tokens differing only in position should be equal")
	}
	if a.Equal(c) {
		t.Error("tokens of different kinds should differ")
	}
	if a.Equal(d) {
		t.Error("tokens with different characters should differ")
	}
	if a.Equal(invalid) || invalid.Equal(a) {
		t.Error("an invalid token is never equal to another")
	}
}

func TestToken_String(t *testing.T) {
	tk := NewToken(Lexeme{Characters: "+", Kind: Infix}, Position{Start: 6, End: 7, Line: 2, Column: 3})
	if got, want := tk.String(), "Tk<mlinfix:+ @ 2:3~7>"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		Numeric:     "mlnum",
		Namespace:   "mlnamespace",
		Affix:       "mlaffix",
		Prefix:      "mlprefix",
		Infix:       "mlinfix",
		Circumfix:   "mlcircumfix",
		EndOfStream: "mleof",
		Kind(42):    "Kind(42)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
