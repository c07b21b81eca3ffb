// Package parser turns a token stream into SELECT statement ASTs. It is a
// hand-written single-pass parser with one token of lookahead: a peek is
// enough to tell a qualified column from an alias, and an implicit alias
// from the start of the next clause.
package parser

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/oarkflow/sqlfront/ast"
	"github.com/oarkflow/sqlfront/internal/logging"
	"github.com/oarkflow/sqlfront/lexer"
)

// Options configures parser behaviour. The zero value parses exactly one
// statement, like Parse.
type Options struct {
	// Logger receives debug records for every parse. Defaults to the
	// process logger.
	Logger *slog.Logger
	// MaxInputLength rejects longer inputs before scanning. Zero means no
	// limit.
	MaxInputLength int
	// MultiStatement parses every semicolon-separated statement instead of
	// returning after the first one.
	MultiStatement bool
	// AllowEmptySelectList accepts SELECT FROM t with no columns.
	AllowEmptySelectList bool
	// AllowEmptyTableList accepts SELECT a FROM and SELECT a FROM WHERE ...
	// with no tables.
	AllowEmptyTableList bool
}

// Parser converts the tokens of one SQL input into statements. A Parser
// owns its cursor and must not be shared between goroutines.
type Parser struct {
	sql  string
	cur  cursor
	opts Options
	log  *slog.Logger
}

// New creates a Parser that scans sql with the package lexer.
func New(sql string, opts Options) *Parser {
	return NewFromSource(sql, lexer.New(sql), opts)
}

// NewFromSource creates a Parser reading tokens from src. sql is the text
// the tokens were scanned from; it is used for diagnostics and to slice
// raw WHERE conditions.
func NewFromSource(sql string, src TokenSource, opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{
		sql:  sql,
		cur:  cursor{src: src},
		opts: opts,
		log:  logger.With("component", "sql-parser"),
	}
}

// Parse parses sql with default options: exactly one statement.
func Parse(sql string) ([]ast.Statement, error) {
	return New(sql, Options{}).ParseAll()
}

// ParseWithOptions parses sql with the given options.
func ParseWithOptions(sql string, opts Options) ([]ast.Statement, error) {
	return New(sql, opts).ParseAll()
}

// ParseAll runs the statement dispatcher. Without MultiStatement it
// returns as soon as the first statement is parsed and leaves any trailing
// tokens unread. The first violation aborts the parse; no partial result is
// returned.
func (p *Parser) ParseAll() ([]ast.Statement, error) {
	log := p.log
	if log.Enabled(context.Background(), slog.LevelDebug) {
		log = log.With("parse_id", uuid.NewString())
		log.Debug("starting SQL parse", "length", len(p.sql), "multi_statement", p.opts.MultiStatement)
	}

	stmts, err := p.parseStatements()
	if err != nil {
		log.Debug("SQL parse failed", "error", err.Error())
		return nil, err
	}
	log.Debug("SQL parse completed", "statements", len(stmts))
	return stmts, nil
}

func (p *Parser) parseStatements() ([]ast.Statement, error) {
	if p.opts.MaxInputLength > 0 && len(p.sql) > p.opts.MaxInputLength {
		return nil, p.errorf(InputTooLong, lexer.Token{Line: 1, Col: 1},
			"input exceeds maximum length: %d > %d", len(p.sql), p.opts.MaxInputLength)
	}
	more, err := p.cur.more()
	if err != nil {
		return nil, err
	}
	if !more {
		tok, _ := p.cur.peek()
		return nil, p.errorf(EmptyStatement, tok, "empty statement")
	}

	var stmts []ast.Statement
	for {
		tok, err := p.cur.next()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case lexer.EOF:
			return stmts, nil
		case lexer.SEMICOLON:
			if len(stmts) == 0 {
				return nil, p.errorf(UnexpectedSemicolon, tok, "unexpected semicolon")
			}
			continue
		case lexer.SELECT:
			sel, err := p.parseSelect(tok)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, sel)
		case lexer.INSERT:
			return nil, p.unsupported(ast.InsertKind, tok)
		case lexer.UPDATE:
			return nil, p.unsupported(ast.UpdateKind, tok)
		case lexer.DELETE:
			return nil, p.unsupported(ast.DeleteKind, tok)
		default:
			return nil, p.errorf(InvalidStatement, tok, "invalid SQL: %s", p.sql)
		}

		if !p.opts.MultiStatement {
			return stmts, nil
		}
		// A statement ends at ';' or the end of input.
		end, err := p.cur.peek()
		if err != nil {
			return nil, err
		}
		if end.Type != lexer.SEMICOLON && end.Type != lexer.EOF {
			return nil, p.errorf(InvalidStatement, end, "unexpected %s after statement", end)
		}
	}
}
