package parser

import (
	"errors"
	"strings"
	"unicode"

	"github.com/oarkflow/sqlfront/ast"
	"github.com/oarkflow/sqlfront/lexer"
)

// selectBuilder accumulates a SELECT while its clauses are parsed.
type selectBuilder struct {
	distinct bool
	fields   []ast.Field
	tables   []ast.Table
	where    *ast.WhereClause
}

func (b *selectBuilder) build(pos int32) *ast.SelectStmt {
	return &ast.SelectStmt{
		Distinct: b.distinct,
		Fields:   b.fields,
		Tables:   b.tables,
		Where:    b.where,
		TokPos:   pos,
	}
}

// parseSelect parses the clauses following an already consumed SELECT.
func (p *Parser) parseSelect(selectTok lexer.Token) (*ast.SelectStmt, error) {
	var b selectBuilder

	// DISTINCT is allowed only directly after SELECT.
	tok, err := p.cur.peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == lexer.DISTINCT {
		p.cur.next()
		b.distinct = true
	}

	from, err := p.parseFieldList(&b)
	if err != nil {
		return nil, err
	}
	if from.Type != lexer.FROM {
		return nil, p.errorf(FromExpected, from, "FROM expected, got %s", from)
	}
	if len(b.fields) == 0 && !p.opts.AllowEmptySelectList {
		return nil, p.errorf(EmptySelectList, from, "column list expected before FROM")
	}

	if err := p.parseTableList(&b, from); err != nil {
		return nil, err
	}
	return b.build(selectTok.Pos), nil
}

// parseFieldList reads columns until FROM. It returns the token that ended
// the list: FROM when it was found, otherwise the unconsumed ';' or EOF.
func (p *Parser) parseFieldList(b *selectBuilder) (lexer.Token, error) {
	first := true
	for {
		tok, err := p.cur.peek()
		if err != nil {
			return tok, err
		}
		switch tok.Type {
		case lexer.EOF, lexer.SEMICOLON:
			return tok, nil
		case lexer.DISTINCT:
			return tok, p.errorf(MisplacedDistinct, tok, "DISTINCT is only allowed directly after SELECT")
		case lexer.FROM:
			p.cur.next()
			return tok, nil
		}
		p.cur.next()

		if !first {
			if tok.Type != lexer.COMMA {
				return tok, p.errorf(MissingComma, tok, "missing comma before %s", tok)
			}
			if tok, err = p.cur.next(); err != nil {
				return tok, err
			}
		}

		field, err := p.parseField(tok)
		if err != nil {
			return tok, err
		}
		b.fields = append(b.fields, field)
		first = false
	}
}

// parseField parses one column reference starting at tok:
//
//	name [[AS] alias]
//	table.name [[AS] alias]
//	table.* [[AS] alias]
func (p *Parser) parseField(tok lexer.Token) (ast.Field, error) {
	switch {
	case tok.Type == lexer.EOF:
		return ast.Field{}, p.errorf(UnexpectedEnd, tok, "unexpected end of SELECT statement, column expected")
	case !isFieldStart(tok.Type):
		return ast.Field{}, p.errorf(InvalidFieldReference, tok, "column expected, got %s", tok)
	}
	field := ast.Field{Name: tok.Value, Alias: tok.Value, TokPos: tok.Pos}
	switch tok.Type {
	case lexer.INT, lexer.FLOAT:
		field.Kind = ast.NumberField
	case lexer.STRING:
		field.Kind = ast.StringField
	}

	next, err := p.cur.peek()
	if err != nil {
		return field, err
	}
	if next.Type == lexer.DOT {
		if !tok.Type.IsIdentifier() {
			return field, p.errorf(InvalidFieldReference, tok, "table name expected before '.', got %s", tok)
		}
		p.cur.next()
		name, err := p.cur.next()
		if err != nil {
			return field, err
		}
		switch {
		case name.Type == lexer.EOF:
			return field, p.errorf(UnexpectedEnd, name, "unexpected end of SELECT statement, column expected after '.'")
		case !name.Type.IsIdentifier() && name.Type != lexer.STAR:
			return field, p.errorf(InvalidFieldReference, name, "column expected after '.', got %s", name)
		}
		field.Table = tok.Value
		field.Name = name.Value
		field.Alias = name.Value

		more, err := p.cur.more()
		if err != nil {
			return field, err
		}
		if !more {
			end, _ := p.cur.peek()
			return field, p.errorf(UnexpectedEnd, end, "unexpected end of SELECT statement")
		}
	}

	alias, ok, err := p.parseOptionalAlias()
	if err != nil {
		return field, err
	}
	if ok {
		field.Alias = alias
	}
	return field, nil
}

// parseTableList reads table references after FROM until WHERE, ';' or the
// end of input. A WHERE clause is captured raw.
func (p *Parser) parseTableList(b *selectBuilder, from lexer.Token) error {
	for {
		tok, err := p.cur.peek()
		if err != nil {
			return err
		}
		if tok.Type == lexer.EOF || tok.Type == lexer.SEMICOLON {
			break
		}
		p.cur.next()

		if tok.Type == lexer.WHERE {
			if len(b.tables) == 0 && !p.opts.AllowEmptyTableList {
				return p.errorf(TableExpected, tok, "table expected after %s, got %s", from, tok)
			}
			where, err := p.parseWhere(tok)
			if err != nil {
				return err
			}
			b.where = where
			return nil
		}

		if len(b.tables) > 0 {
			if tok.Type != lexer.COMMA {
				return p.errorf(MissingComma, tok, "missing comma before %s", tok)
			}
			if tok, err = p.cur.next(); err != nil {
				return err
			}
			if tok.Type == lexer.EOF {
				return p.errorf(UnexpectedEnd, tok, "unexpected end of SQL statement, table expected")
			}
		}

		if !tok.Type.IsIdentifier() {
			return p.errorf(InvalidTableReference, tok, "table name expected, got %s", tok)
		}
		table := ast.Table{Name: tok.Value, Alias: tok.Value, TokPos: tok.Pos}
		alias, ok, err := p.parseOptionalAlias()
		if err != nil {
			return err
		}
		if ok {
			table.Alias = alias
		}
		b.tables = append(b.tables, table)
	}

	if len(b.tables) == 0 && !p.opts.AllowEmptyTableList {
		tok, _ := p.cur.peek()
		return p.errorf(TableExpected, tok, "table expected after %s, got %s", from, tok)
	}
	return nil
}

// parseOptionalAlias consumes "AS alias" or a bare identifier alias. It
// leaves any other token in place.
func (p *Parser) parseOptionalAlias() (string, bool, error) {
	tok, err := p.cur.peek()
	if err != nil {
		return "", false, err
	}
	switch {
	case tok.Type == lexer.AS:
		p.cur.next()
		alias, err := p.cur.next()
		if err != nil {
			return "", false, err
		}
		if alias.Type == lexer.EOF {
			return "", false, p.errorf(UnexpectedEnd, alias, "unexpected end of SQL statement, alias expected after AS")
		}
		if !alias.Type.IsIdentifier() {
			return "", false, p.errorf(InvalidAlias, alias, "alias expected after AS, got %s", alias)
		}
		return alias.Value, true, nil
	case tok.Type.IsIdentifier():
		p.cur.next()
		return tok.Value, true, nil
	}
	return "", false, nil
}

// parseWhere captures the condition after an already consumed WHERE. The
// condition is never interpreted. In single-statement mode nothing after
// WHERE is scanned: the rest of the input is the condition. In
// multi-statement mode the condition ends at the next ';', and input that
// does not scan is taken whole as the condition of the last statement.
func (p *Parser) parseWhere(where lexer.Token) (*ast.WhereClause, error) {
	end := int(where.End())
	if !p.inSource(where) {
		return p.scanWhere(where)
	}
	if !p.opts.MultiStatement {
		p.cur.stop(int32(len(p.sql)))
		return p.whereText(end, len(p.sql), true), nil
	}
	for {
		tok, err := p.cur.peek()
		if err != nil {
			var lexErr *lexer.Error
			if !errors.As(err, &lexErr) {
				return nil, err
			}
			p.cur.stop(int32(len(p.sql)))
			return p.whereText(end, len(p.sql), true), nil
		}
		if tok.Type == lexer.EOF || tok.Type == lexer.SEMICOLON {
			return p.whereText(end, int(tok.Pos), false), nil
		}
		p.cur.next()
	}
}

// whereText slices p.sql[start:stop] into a WhereClause. trimSemi drops a
// trailing ';' left in text that was not scanned.
func (p *Parser) whereText(start, stop int, trimSemi bool) *ast.WhereClause {
	text := p.sql[start:stop]
	lead := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	raw := strings.TrimSpace(text)
	if trimSemi {
		raw = strings.TrimSpace(strings.TrimSuffix(raw, ";"))
	}
	return &ast.WhereClause{Raw: raw, TokPos: int32(start + lead)}
}

// inSource reports whether tok was scanned from p.sql.
func (p *Parser) inSource(tok lexer.Token) bool {
	start, end := int(tok.Pos), int(tok.End())
	return start >= 0 && start <= end && end <= len(p.sql) && p.sql[start:end] == tok.Raw
}

// scanWhere rebuilds the condition from tokens when there is no source text
// to slice. The raw texts of the tokens up to ';' or EOF are joined.
func (p *Parser) scanWhere(where lexer.Token) (*ast.WhereClause, error) {
	var parts []string
	pos := where.End()
	for {
		tok, err := p.cur.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == lexer.EOF || tok.Type == lexer.SEMICOLON {
			break
		}
		p.cur.next()
		if len(parts) == 0 {
			pos = tok.Pos
		}
		parts = append(parts, tok.Raw)
	}
	return &ast.WhereClause{Raw: strings.Join(parts, " "), TokPos: pos}, nil
}

func isFieldStart(t lexer.TokenType) bool {
	return t.IsIdentifier() || t.IsLiteral() || t == lexer.STAR
}
