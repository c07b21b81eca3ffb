// Package sqlfront is a single-pass SQL front end for a restricted SELECT
// dialect.
//
// It scans SQL text, parses SELECT statements into an AST and rejects
// INSERT, UPDATE and DELETE as unsupported. The WHERE condition is kept as
// raw text and never interpreted.
//
// Usage:
//
//	stmt, err := sqlfront.ParseStatement("SELECT u.id, u.name n FROM users u WHERE id = 1")
//	stmts, err := sqlfront.ParseStatements("SELECT a FROM t; SELECT b FROM u")
//	out, err := sqlfront.ConvertDialect(sql, sqlfront.DialectMySQL)
package sqlfront

import (
	"errors"

	"github.com/oarkflow/sqlfront/ast"
	"github.com/oarkflow/sqlfront/lexer"
	"github.com/oarkflow/sqlfront/parser"
)

// Re-export core types so callers only import this package.
type (
	Statement        = ast.Statement
	StatementKind    = ast.StatementKind
	SelectStmt       = ast.SelectStmt
	Field            = ast.Field
	Table            = ast.Table
	WhereClause      = ast.WhereClause
	Options          = parser.Options
	SyntaxError      = parser.SyntaxError
	SyntaxErrorKind  = parser.SyntaxErrorKind
	UnsupportedError = parser.UnsupportedError
	LexError         = lexer.Error
	Token            = lexer.Token
	TokenType        = lexer.TokenType
)

var (
	ErrSyntax      = parser.ErrSyntax
	ErrUnsupported = parser.ErrUnsupported
)

// Parse parses the first statement of sql and ignores anything after it.
func Parse(sql string) ([]Statement, error) {
	return parser.Parse(sql)
}

// ParseWithOptions parses sql with explicit parser options.
func ParseWithOptions(sql string, opts Options) ([]Statement, error) {
	return parser.ParseWithOptions(sql, opts)
}

// ParseStatement parses a single SQL statement from a string.
func ParseStatement(sql string) (Statement, error) {
	stmts, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	return stmts[0], nil
}

// ParseStatements parses every semicolon-separated statement in sql.
func ParseStatements(sql string) ([]Statement, error) {
	return parser.ParseWithOptions(sql, Options{MultiStatement: true})
}

// Parser is a one-shot SQL parser over a single input.
type Parser struct {
	p *parser.Parser
}

// New creates a Parser for sql.
func New(sql string, opts Options) *Parser {
	return &Parser{p: parser.New(sql, opts)}
}

// All parses the input according to the parser options.
func (p *Parser) All() ([]Statement, error) {
	return p.p.ParseAll()
}

// Tokenize breaks a SQL string into tokens, ending with EOF.
func Tokenize(sql string) ([]Token, error) {
	return lexer.Tokenize(sql)
}

// SQLState returns the SQLSTATE class of a parse error, or "" for errors
// that did not come from parsing. Lexical errors count as invalid SQL.
func SQLState(err error) string {
	var stater interface{ SQLState() string }
	if errors.As(err, &stater) {
		return stater.SQLState()
	}
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return parser.SQLStateInvalidSQL
	}
	return ""
}
