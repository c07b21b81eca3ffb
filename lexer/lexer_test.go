package lexer_test

import (
	"errors"
	"testing"

	"github.com/oarkflow/sqlfront/lexer"
)

func types(toks []lexer.Token) []lexer.TokenType {
	out := make([]lexer.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenizeSelect(t *testing.T) {
	toks, err := lexer.Tokenize("SELECT DISTINCT t.a AS x, b FROM t1 u WHERE a = 1;")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := []lexer.TokenType{
		lexer.SELECT, lexer.DISTINCT, lexer.IDENT, lexer.DOT, lexer.IDENT, lexer.AS, lexer.IDENT,
		lexer.COMMA, lexer.IDENT, lexer.FROM, lexer.IDENT, lexer.IDENT, lexer.WHERE, lexer.IDENT,
		lexer.EQ, lexer.INT, lexer.SEMICOLON, lexer.EOF,
	}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	for _, src := range []string{"select", "SELECT", "SeLeCt"} {
		toks, err := lexer.Tokenize(src)
		if err != nil {
			t.Fatalf("tokenize %q: %v", src, err)
		}
		if toks[0].Type != lexer.SELECT {
			t.Fatalf("%q: expected SELECT, got %s", src, toks[0].Type)
		}
		if toks[0].Value != src {
			t.Fatalf("%q: value should be verbatim, got %q", src, toks[0].Value)
		}
	}
}

func TestIdentifierValueVerbatim(t *testing.T) {
	toks, err := lexer.Tokenize("CustomerName")
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Type != lexer.IDENT || toks[0].Value != "CustomerName" {
		t.Fatalf("unexpected token %+v", toks[0])
	}
}

func TestQuotedIdentifiers(t *testing.T) {
	cases := []struct {
		src   string
		typ   lexer.TokenType
		value string
	}{
		{`"order"`, lexer.DQUOTE, "order"},
		{`"a""b"`, lexer.DQUOTE, `a"b`},
		{"`my table`", lexer.BACKTICK, "my table"},
		{`'it''s'`, lexer.STRING, "it's"},
		{`"ünïcode"`, lexer.DQUOTE, "ünïcode"},
	}
	for _, c := range cases {
		toks, err := lexer.Tokenize(c.src)
		if err != nil {
			t.Fatalf("%s: %v", c.src, err)
		}
		if toks[0].Type != c.typ {
			t.Fatalf("%s: expected %s, got %s", c.src, c.typ, toks[0].Type)
		}
		if toks[0].Value != c.value {
			t.Fatalf("%s: expected value %q, got %q", c.src, c.value, toks[0].Value)
		}
		if toks[0].Raw != c.src {
			t.Fatalf("%s: raw should keep quotes, got %q", c.src, toks[0].Raw)
		}
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	toks, err := lexer.Tokenize("SELECT größe FROM maße")
	if err != nil {
		t.Fatal(err)
	}
	if toks[1].Type != lexer.IDENT || toks[1].Value != "größe" {
		t.Fatalf("unexpected token %+v", toks[1])
	}
	if toks[3].Value != "maße" {
		t.Fatalf("unexpected token %+v", toks[3])
	}
}

func TestNumbers(t *testing.T) {
	toks, err := lexer.Tokenize("1 2.5 .5 1e10 3E-2")
	if err != nil {
		t.Fatal(err)
	}
	want := []lexer.TokenType{lexer.INT, lexer.FLOAT, lexer.FLOAT, lexer.FLOAT, lexer.FLOAT, lexer.EOF}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d (%q): expected %s, got %s", i, toks[i].Raw, want[i], got[i])
		}
	}
}

func TestOperators(t *testing.T) {
	toks, err := lexer.Tokenize("<= >= <> != || < > = ?")
	if err != nil {
		t.Fatal(err)
	}
	want := []lexer.TokenType{lexer.LTE, lexer.GTE, lexer.NEQ, lexer.NEQ, lexer.DBAR, lexer.LT, lexer.GT, lexer.EQ, lexer.QUESTION, lexer.EOF}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCommentsSkipped(t *testing.T) {
	src := "-- leading\nSELECT /* inline\n comment */ a # trailing\nFROM t"
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []lexer.TokenType{lexer.SELECT, lexer.IDENT, lexer.FROM, lexer.IDENT, lexer.EOF}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if toks[2].Line != 4 || toks[2].Col != 1 {
		t.Fatalf("FROM expected at 4:1, got %d:%d", toks[2].Line, toks[2].Col)
	}
}

func TestPositions(t *testing.T) {
	toks, err := lexer.Tokenize("SELECT a\n  FROM t")
	if err != nil {
		t.Fatal(err)
	}
	from := toks[2]
	if from.Line != 2 || from.Col != 3 || from.Pos != 11 {
		t.Fatalf("unexpected FROM position: line %d col %d pos %d", from.Line, from.Col, from.Pos)
	}
	if from.End() != 15 {
		t.Fatalf("expected end 15, got %d", from.End())
	}
}

func TestHasNext(t *testing.T) {
	l := lexer.New("  a  /* c */ ")
	if !l.HasNext() {
		t.Fatal("expected a token")
	}
	tok, err := l.Next()
	if err != nil || tok.Value != "a" {
		t.Fatalf("unexpected %v %v", tok, err)
	}
	if l.HasNext() {
		t.Fatal("only trivia remains")
	}
	tok, err = l.Next()
	if err != nil || tok.Type != lexer.EOF {
		t.Fatalf("expected EOF, got %v %v", tok, err)
	}
}

func TestLexicalErrors(t *testing.T) {
	for _, src := range []string{`SELECT "abc`, "SELECT 'x", "SELECT \\", "SELECT €"} {
		_, err := lexer.Tokenize(src)
		var lexErr *lexer.Error
		if !errors.As(err, &lexErr) {
			t.Fatalf("%q: expected *lexer.Error, got %v", src, err)
		}
		if lexErr.Line != 1 || lexErr.Col != 8 {
			t.Fatalf("%q: expected error at 1:8, got %d:%d", src, lexErr.Line, lexErr.Col)
		}
	}
}

func TestIsReserved(t *testing.T) {
	if !lexer.IsReserved("Where") || !lexer.IsReserved("from") {
		t.Fatal("expected keywords to be reserved")
	}
	if lexer.IsReserved("users") || lexer.IsReserved("") {
		t.Fatal("plain words are not reserved")
	}
}
