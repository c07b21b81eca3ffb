// Package lexer turns SQL text into a forward-only stream of classified
// tokens. It uses a hand-rolled byte state machine and a length-bucketed
// keyword table, so keyword recognition needs no allocation.
package lexer

import "fmt"

// TokenType identifies the type of a SQL token.
type TokenType uint16

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals and identifiers
	IDENT
	INT
	FLOAT
	STRING   // 'single quoted'
	BACKTICK // `backtick quoted`
	DQUOTE   // "double quoted"

	// Operators & punctuation
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	DOT       // .
	STAR      // *
	PLUS      // +
	MINUS     // -
	SLASH     // /
	PERCENT   // %
	AMPERSAND // &
	PIPE      // |
	CARET     // ^
	TILDE     // ~
	BANG      // !
	QUESTION  // ?
	AT        // @
	DOLLAR    // $
	EQ        // =
	NEQ       // != or <>
	LT        // <
	GT        // >
	LTE       // <=
	GTE       // >=
	DBAR      // ||

	// Keywords
	kwSTART // marker
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CREATE
	DELETE
	DESC
	DISTINCT
	DROP
	EXISTS
	FROM
	GROUP
	HAVING
	IN
	INNER
	INSERT
	INTO
	IS
	JOIN
	LEFT
	LIKE
	LIMIT
	NOT
	NULL_KW
	OFFSET
	ON
	OR
	ORDER
	OUTER
	RIGHT
	SELECT
	SET
	UNION
	UPDATE
	VALUES
	WHERE
	kwEND // marker
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// IsKeyword reports whether t is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t > kwSTART && t < kwEND
}

// IsIdentifier reports whether t can name a column, table or alias:
// a bare word or a quoted identifier.
func (t TokenType) IsIdentifier() bool {
	return t == IDENT || t == DQUOTE || t == BACKTICK
}

// IsLiteral reports whether t is a numeric or string literal.
func (t TokenType) IsLiteral() bool {
	return t == INT || t == FLOAT || t == STRING
}

var tokenNames = [...]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "IDENT",
	INT:       "INT",
	FLOAT:     "FLOAT",
	STRING:    "STRING",
	BACKTICK:  "BACKTICK",
	DQUOTE:    "DQUOTE",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	DOT:       ".",
	STAR:      "*",
	PLUS:      "+",
	MINUS:     "-",
	SLASH:     "/",
	PERCENT:   "%",
	AMPERSAND: "&",
	PIPE:      "|",
	CARET:     "^",
	TILDE:     "~",
	BANG:      "!",
	QUESTION:  "?",
	AT:        "@",
	DOLLAR:    "$",
	EQ:        "=",
	NEQ:       "!=",
	LT:        "<",
	GT:        ">",
	LTE:       "<=",
	GTE:       ">=",
	DBAR:      "||",
	ALL:       "ALL",
	AND:       "AND",
	AS:        "AS",
	ASC:       "ASC",
	BETWEEN:   "BETWEEN",
	BY:        "BY",
	CREATE:    "CREATE",
	DELETE:    "DELETE",
	DESC:      "DESC",
	DISTINCT:  "DISTINCT",
	DROP:      "DROP",
	EXISTS:    "EXISTS",
	FROM:      "FROM",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	IN:        "IN",
	INNER:     "INNER",
	INSERT:    "INSERT",
	INTO:      "INTO",
	IS:        "IS",
	JOIN:      "JOIN",
	LEFT:      "LEFT",
	LIKE:      "LIKE",
	LIMIT:     "LIMIT",
	NOT:       "NOT",
	NULL_KW:   "NULL",
	OFFSET:    "OFFSET",
	ON:        "ON",
	OR:        "OR",
	ORDER:     "ORDER",
	OUTER:     "OUTER",
	RIGHT:     "RIGHT",
	SELECT:    "SELECT",
	SET:       "SET",
	UNION:     "UNION",
	UPDATE:    "UPDATE",
	VALUES:    "VALUES",
	WHERE:     "WHERE",
}

// Token is a single classified lexical unit. Tokens are values and are
// never modified after the lexer returns them.
type Token struct {
	Type TokenType
	// Raw is the exact source text, quotes included.
	Raw string
	// Value is the text a name or alias takes: Raw for bare words, the
	// unescaped content for quoted identifiers and strings.
	Value string
	// Pos is the byte offset of the first character.
	Pos int32
	// Line and Col are 1-based source positions.
	Line uint32
	Col  uint32
}

// End returns the byte offset just past the token.
func (t Token) End() int32 {
	return t.Pos + int32(len(t.Raw))
}

func (t Token) String() string {
	switch {
	case t.Type == EOF:
		return "end of input"
	case t.Raw == "":
		return t.Type.String()
	default:
		return fmt.Sprintf("%s %q", t.Type, t.Raw)
	}
}
