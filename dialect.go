package sqlfront

import (
	"fmt"
	"strings"

	"github.com/oarkflow/sqlfront/ast"
)

// Dialect names a SQL dialect that statements can be rendered for.
type Dialect string

const (
	DialectStandard Dialect = "standard"
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect accepts a dialect name in any letter case. "" is standard.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(name))); d {
	case "":
		return DialectStandard, nil
	case DialectStandard, DialectMySQL, DialectPostgres, DialectSQLite:
		return d, nil
	case "postgresql", "pg":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unknown dialect %q", name)
	}
}

// ConvertOptions controls how statements are rendered.
type ConvertOptions struct {
	Target Dialect
	// QuoteAll quotes every identifier, not only those that need it.
	QuoteAll bool
}

// ConvertDialect parses every statement in sql and renders it for target.
// WHERE conditions are copied verbatim.
func ConvertDialect(sql string, target Dialect) (string, error) {
	return ConvertDialectWithOptions(sql, ConvertOptions{Target: target})
}

// ConvertDialectWithOptions is ConvertDialect with identifier quoting
// controlled by opts.
func ConvertDialectWithOptions(sql string, opts ConvertOptions) (string, error) {
	stmts, err := ParseStatements(sql)
	if err != nil {
		return "", err
	}
	r := &dialectRenderer{target: opts.Target, quoteAll: opts.QuoteAll}
	return r.renderStatements(stmts)
}

// RenderStatement renders one parsed statement.
func RenderStatement(stmt Statement, opts ConvertOptions) (string, error) {
	r := &dialectRenderer{target: opts.Target, quoteAll: opts.QuoteAll}
	return r.renderStatement(stmt)
}

type dialectRenderer struct {
	target   Dialect
	quoteAll bool
}

func (r *dialectRenderer) renderStatements(stmts []Statement) (string, error) {
	var b strings.Builder
	for i, stmt := range stmts {
		if i > 0 {
			b.WriteString("; ")
		}
		s, err := r.renderStatement(stmt)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (r *dialectRenderer) renderStatement(stmt Statement) (string, error) {
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		return r.renderSelect(s), nil
	default:
		return "", fmt.Errorf("unsupported statement type %T", s)
	}
}

func (r *dialectRenderer) renderSelect(s *ast.SelectStmt) string {
	var b strings.Builder
	b.WriteString("SELECT")
	if s.Distinct {
		b.WriteString(" DISTINCT")
	}
	for i := range s.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(r.renderField(&s.Fields[i]))
	}
	b.WriteString(" FROM")
	for i := range s.Tables {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		t := &s.Tables[i]
		b.WriteString(r.renderIdent(t.Name))
		if t.HasAlias() {
			b.WriteString(" AS ")
			b.WriteString(r.renderIdent(t.Alias))
		}
	}
	if s.Where != nil {
		b.WriteString(" WHERE")
		if s.Where.Raw != "" {
			b.WriteByte(' ')
			b.WriteString(s.Where.Raw)
		}
	}
	return b.String()
}

func (r *dialectRenderer) renderField(f *ast.Field) string {
	var b strings.Builder
	if f.Qualified() {
		b.WriteString(r.renderIdent(f.Table))
		b.WriteByte('.')
	}
	switch f.Kind {
	case ast.NumberField:
		b.WriteString(f.Name)
	case ast.StringField:
		b.WriteString(ast.QuoteString(f.Name))
	default:
		b.WriteString(r.renderIdent(f.Name))
	}
	if f.HasAlias() {
		b.WriteString(" AS ")
		b.WriteString(r.renderIdent(f.Alias))
	}
	return b.String()
}

func (r *dialectRenderer) renderIdent(name string) string {
	q := byte('"')
	if r.target == DialectMySQL {
		q = '`'
	}
	return ast.QuoteIdent(name, q, r.quoteAll)
}
