package parser

import (
	"errors"
	"fmt"

	"github.com/oarkflow/sqlfront/ast"
	"github.com/oarkflow/sqlfront/lexer"
)

// SQLSTATE codes attached to parse failures.
const (
	SQLStateInvalidSQL          = "42000"
	SQLStateFeatureNotSupported = "0A000"
)

var (
	// ErrSyntax matches every *SyntaxError with errors.Is.
	ErrSyntax = errors.New("sql syntax error")
	// ErrUnsupported matches every *UnsupportedError with errors.Is.
	ErrUnsupported = errors.New("sql feature not supported")
)

// SyntaxErrorKind classifies a structural violation.
type SyntaxErrorKind uint8

const (
	EmptyStatement SyntaxErrorKind = iota + 1
	UnexpectedSemicolon
	InvalidStatement
	MisplacedDistinct
	MissingComma
	UnexpectedEnd
	FromExpected
	InvalidFieldReference
	InvalidTableReference
	InvalidAlias
	EmptySelectList
	TableExpected
	InputTooLong
)

var syntaxErrorKindNames = [...]string{
	EmptyStatement:        "EmptyStatement",
	UnexpectedSemicolon:   "UnexpectedSemicolon",
	InvalidStatement:      "InvalidStatement",
	MisplacedDistinct:     "MisplacedDistinct",
	MissingComma:          "MissingComma",
	UnexpectedEnd:         "UnexpectedEnd",
	FromExpected:          "FromExpected",
	InvalidFieldReference: "InvalidFieldReference",
	InvalidTableReference: "InvalidTableReference",
	InvalidAlias:          "InvalidAlias",
	EmptySelectList:       "EmptySelectList",
	TableExpected:         "TableExpected",
	InputTooLong:          "InputTooLong",
}

func (k SyntaxErrorKind) String() string {
	if int(k) < len(syntaxErrorKindNames) && syntaxErrorKindNames[k] != "" {
		return syntaxErrorKindNames[k]
	}
	return "Unknown"
}

// SyntaxError records a malformed token sequence.
type SyntaxError struct {
	Kind SyntaxErrorKind
	Msg  string
	// SQL is the complete input of the failed parse.
	SQL string
	// Token is the offending token; EOF when the input ended early.
	Token lexer.Token
	Pos   int32
	Line  uint32
	Col   uint32
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d col %d: %s", e.Line, e.Col, e.Msg)
}

// Is makes errors.Is(err, ErrSyntax) true for every syntax error.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// SQLState returns the SQLSTATE class for invalid SQL.
func (e *SyntaxError) SQLState() string { return SQLStateInvalidSQL }

// UnsupportedError reports a statement kind the grammar recognises but does
// not implement.
type UnsupportedError struct {
	Kind  ast.StatementKind
	SQL   string
	Token lexer.Token
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s statements are not supported yet", e.Kind)
}

// Is makes errors.Is(err, ErrUnsupported) true for every unsupported error.
func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

// SQLState returns the SQLSTATE class for unsupported features.
func (e *UnsupportedError) SQLState() string { return SQLStateFeatureNotSupported }

func (p *Parser) errorf(kind SyntaxErrorKind, tok lexer.Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		SQL:   p.sql,
		Token: tok,
		Pos:   tok.Pos,
		Line:  tok.Line,
		Col:   tok.Col,
	}
}

func (p *Parser) unsupported(kind ast.StatementKind, tok lexer.Token) *UnsupportedError {
	return &UnsupportedError{Kind: kind, SQL: p.sql, Token: tok}
}
