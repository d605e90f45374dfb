package token

import "testing"

func TestLookupKw(t *testing.T) {
	cases := []struct {
		lit  string
		want Token
	}{
		{"let", LET},
		{"while", WHILE},
		{"nil", NIL},
		{"notakeyword", IDENT},
		{"x", IDENT},
	}
	for _, c := range cases {
		if got := LookupKw(c.lit); got != c.want {
			t.Errorf("LookupKw(%q) = %s, want %s", c.lit, got, c.want)
		}
	}
}

func TestLookupPunct(t *testing.T) {
	cases := []struct {
		lit  string
		want Token
	}{
		{"+", PLUS},
		{"==", EQEQ},
		{"<=", LE},
		{"//", IDIV},
		{"**", POW},
		{"?", QUEST},
	}
	for _, c := range cases {
		if got := LookupPunct(c.lit); got != c.want {
			t.Errorf("LookupPunct(%q) = %s, want %s", c.lit, got, c.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	if !IsKeyword(WHILE) {
		t.Error("WHILE should be a keyword")
	}
	if IsKeyword(PLUS) {
		t.Error("PLUS should not be a keyword")
	}
}
