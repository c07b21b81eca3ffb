package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Error reports malformed lexical input.
type Error struct {
	Msg  string
	Pos  int32
	Line uint32
	Col  uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexical error at line %d col %d: %s", e.Line, e.Col, e.Msg)
}

// Lexer tokenizes SQL input. A Lexer is not safe for concurrent use.
type Lexer struct {
	src  string
	pos  int
	line uint32
	col  uint32

	// scratch is reused to build lowercased keyword candidates.
	scratch [16]byte
}

// New creates a Lexer for the given SQL source.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// HasNext reports whether at least one more non-EOF token can be produced.
// It skips whitespace and comments but never consumes a token.
func (l *Lexer) HasNext() bool {
	l.skipTrivia()
	return l.pos < len(l.src)
}

// Next returns the next token from the input. It returns an EOF token
// once the input is exhausted, and an *Error for malformed input.
func (l *Lexer) Next() (Token, error) {
	l.skipTrivia()
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Pos: int32(l.pos), Line: l.line, Col: l.col}, nil
	}

	start := l.pos
	line, col := l.line, l.col
	b := l.src[l.pos]

	switch {
	case isDigit(b) || (b == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		return l.lexNumber(start, line, col), nil
	case b == '\'':
		return l.lexQuoted(start, line, col, '\'', STRING)
	case b == '"':
		return l.lexQuoted(start, line, col, '"', DQUOTE)
	case b == '`':
		return l.lexQuoted(start, line, col, '`', BACKTICK)
	case isAlpha(b):
		return l.lexIdent(start, line, col), nil
	case b >= utf8.RuneSelf:
		r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
		if unicode.IsLetter(r) {
			return l.lexIdent(start, line, col), nil
		}
		return Token{}, l.errorf(line, col, start, "unexpected character %q", r)
	default:
		return l.lexPunct(start, line, col)
	}
}

// skipTrivia advances past whitespace and comments.
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		b := l.src[l.pos]
		switch {
		case b == '\n':
			l.pos++
			l.line++
			l.col = 1

		case b == '\r':
			l.pos++
			if l.pos < len(l.src) && l.src[l.pos] == '\n' {
				l.pos++
			}
			l.line++
			l.col = 1

		case isSpace(b):
			l.pos++
			l.col++

		case b == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '-':
			// Single-line comment --
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
				l.col++
			}

		case b == '#':
			// MySQL hash comment
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
				l.col++
			}

		case b == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			// Block comment /* ... */; an unterminated one runs to the end.
			l.pos += 2
			l.col += 2
			for l.pos < len(l.src) {
				if l.src[l.pos] == '\n' {
					l.line++
					l.col = 1
					l.pos++
				} else if l.src[l.pos] == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
					l.pos += 2
					l.col += 2
					break
				} else {
					l.pos++
					l.col++
				}
			}

		default:
			return
		}
	}
}

// lexIdent scans an identifier or keyword.
func (l *Lexer) lexIdent(start int, line, col uint32) Token {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c < utf8.RuneSelf {
			if !isIdentCont(c) {
				break
			}
			l.pos++
			l.col++
			continue
		}
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += size
		l.col++
	}
	raw := l.src[start:l.pos]
	tok := Token{Type: IDENT, Raw: raw, Value: raw, Pos: int32(start), Line: line, Col: col}

	// Lowercase into scratch for keyword lookup; anything longer than
	// scratch cannot be a keyword.
	n := len(raw)
	if n > len(l.scratch) {
		return tok
	}
	for i := 0; i < n; i++ {
		c := raw[i]
		if c >= 'A' && c <= 'Z' {
			c += 32
		}
		l.scratch[i] = c
	}
	tok.Type = lookupKeyword(l.scratch[:n])
	return tok
}

// lexNumber scans integer or float literals.
func (l *Lexer) lexNumber(start int, line, col uint32) Token {
	typ := INT
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
		l.col++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		typ = FLOAT
		l.pos++
		l.col++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
			l.col++
		}
	}
	// optional exponent
	if l.pos+1 < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') &&
		(isDigit(l.src[l.pos+1]) || l.src[l.pos+1] == '+' || l.src[l.pos+1] == '-') {
		typ = FLOAT
		l.pos++
		l.col++
		if l.src[l.pos] == '+' || l.src[l.pos] == '-' {
			l.pos++
			l.col++
		}
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
			l.col++
		}
	}
	raw := l.src[start:l.pos]
	return Token{Type: typ, Raw: raw, Value: raw, Pos: int32(start), Line: line, Col: col}
}

// lexQuoted scans a single, double, or backtick quoted token. A doubled
// delimiter inside the quotes stands for one delimiter character.
func (l *Lexer) lexQuoted(start int, line, col uint32, delim byte, typ TokenType) (Token, error) {
	l.pos++ // skip opening delimiter
	l.col++
	escaped := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == delim {
			l.pos++
			l.col++
			if l.pos < len(l.src) && l.src[l.pos] == delim {
				escaped = true
				l.pos++
				l.col++
				continue
			}
			raw := l.src[start:l.pos]
			value := raw[1 : len(raw)-1]
			if escaped {
				d := string(delim)
				value = strings.ReplaceAll(value, d+d, d)
			}
			return Token{Type: typ, Raw: raw, Value: value, Pos: int32(start), Line: line, Col: col}, nil
		}
		if c == '\n' {
			l.line++
			l.col = 1
			l.pos++
			continue
		}
		if c >= utf8.RuneSelf {
			_, size := utf8.DecodeRuneInString(l.src[l.pos:])
			l.pos += size
			l.col++
			continue
		}
		l.pos++
		l.col++
	}
	return Token{}, l.errorf(line, col, start, "unterminated %s", typ)
}

// lexPunct handles single and multi-character punctuation/operators.
func (l *Lexer) lexPunct(start int, line, col uint32) (Token, error) {
	b := l.src[l.pos]
	l.pos++
	l.col++

	peek := func() byte {
		if l.pos < len(l.src) {
			return l.src[l.pos]
		}
		return 0
	}
	advance := func() {
		l.pos++
		l.col++
	}

	var typ TokenType
	switch b {
	case '(':
		typ = LPAREN
	case ')':
		typ = RPAREN
	case '[':
		typ = LBRACKET
	case ']':
		typ = RBRACKET
	case '{':
		typ = LBRACE
	case '}':
		typ = RBRACE
	case ',':
		typ = COMMA
	case ';':
		typ = SEMICOLON
	case ':':
		typ = COLON
	case '.':
		typ = DOT
	case '*':
		typ = STAR
	case '+':
		typ = PLUS
	case '-':
		typ = MINUS
	case '/':
		typ = SLASH
	case '%':
		typ = PERCENT
	case '&':
		typ = AMPERSAND
	case '^':
		typ = CARET
	case '~':
		typ = TILDE
	case '?':
		typ = QUESTION
	case '@':
		typ = AT
	case '$':
		typ = DOLLAR
	case '=':
		typ = EQ
	case '|':
		if peek() == '|' {
			advance()
			typ = DBAR
		} else {
			typ = PIPE
		}
	case '!':
		if peek() == '=' {
			advance()
			typ = NEQ
		} else {
			typ = BANG
		}
	case '<':
		switch peek() {
		case '=':
			advance()
			typ = LTE
		case '>':
			advance()
			typ = NEQ
		default:
			typ = LT
		}
	case '>':
		if peek() == '=' {
			advance()
			typ = GTE
		} else {
			typ = GT
		}
	default:
		return Token{}, l.errorf(line, col, start, "unexpected character %q", b)
	}
	raw := l.src[start:l.pos]
	return Token{Type: typ, Raw: raw, Value: raw, Pos: int32(start), Line: line, Col: col}, nil
}

func (l *Lexer) errorf(line, col uint32, pos int, format string, args ...any) *Error {
	return &Error{
		Msg:  fmt.Sprintf(format, args...),
		Pos:  int32(pos),
		Line: line,
		Col:  col,
	}
}

// ---- character classification tables ----

var isSpaceTab = [256]bool{' ': true, '\t': true, '\v': true, '\f': true}

func isSpace(c byte) bool { return isSpaceTab[c] }

var identContTable [256]bool

func init() {
	for c := 'a'; c <= 'z'; c++ {
		identContTable[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		identContTable[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		identContTable[c] = true
	}
	identContTable['_'] = true
	identContTable['$'] = true
}

func isIdentCont(c byte) bool { return identContTable[c] }
func isAlpha(c byte) bool     { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' }
func isDigit(c byte) bool     { return c >= '0' && c <= '9' }

// Tokenize lexes all tokens from src, including the trailing EOF token.
func Tokenize(src string) ([]Token, error) {
	var out []Token
	l := New(src)
	for {
		t, err := l.Next()
		if err != nil {
			return out, err
		}
		out = append(out, t)
		if t.Type == EOF {
			return out, nil
		}
	}
}
