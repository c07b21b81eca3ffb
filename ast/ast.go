// Package ast defines the SQL abstract syntax tree produced by the parser.
// Nodes are plain values owned by the statement list they were returned
// in; they carry no back-references and are not modified after parsing.
package ast

import (
	"strings"

	"github.com/oarkflow/sqlfront/lexer"
)

// Node is implemented by every AST node.
type Node interface {
	node()
	// Pos returns the byte offset of the first token.
	Pos() int32
}

// Statement is a top-level SQL statement. The set of implementations is
// closed: only this package can add statement variants.
type Statement interface {
	Node
	stmtNode()
	Kind() StatementKind
}

// StatementKind names a statement variant.
type StatementKind uint8

const (
	SelectKind StatementKind = iota
	// InsertKind, UpdateKind and DeleteKind are recognised by the
	// dispatcher but have no node type; parsing them is rejected.
	InsertKind
	UpdateKind
	DeleteKind
)

func (k StatementKind) String() string {
	switch k {
	case SelectKind:
		return "SELECT"
	case InsertKind:
		return "INSERT"
	case UpdateKind:
		return "UPDATE"
	case DeleteKind:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// ---- SELECT ----

// SelectStmt is a SELECT statement.
type SelectStmt struct {
	Distinct bool
	// Fields is the column list in source order.
	Fields []Field
	// Tables is the FROM list in source order.
	Tables []Table
	// Where is nil when the statement has no WHERE clause.
	Where  *WhereClause
	TokPos int32
}

func (n *SelectStmt) node()               {}
func (n *SelectStmt) stmtNode()           {}
func (n *SelectStmt) Pos() int32          { return n.TokPos }
func (n *SelectStmt) Kind() StatementKind { return SelectKind }

// FieldKind tells a column reference from a literal in the select list.
type FieldKind uint8

const (
	ColumnField FieldKind = iota
	NumberField
	StringField
)

func (k FieldKind) String() string {
	switch k {
	case ColumnField:
		return "column"
	case NumberField:
		return "number"
	case StringField:
		return "string"
	default:
		return "unknown"
	}
}

// Field is a column reference in the select list.
type Field struct {
	// Table is the qualifier from table.column syntax, empty otherwise.
	Table string
	// Name is the column identifier, "*", or the literal text (unquoted
	// for strings).
	Name string
	// Alias equals Name when no alias was written.
	Alias  string
	Kind   FieldKind
	TokPos int32
}

func (n *Field) node()      {}
func (n *Field) Pos() int32 { return n.TokPos }

// Qualified reports whether the field was written as table.column.
func (n *Field) Qualified() bool { return n.Table != "" }

// Star reports whether the field is * or table.*.
func (n *Field) Star() bool { return n.Name == "*" }

// HasAlias reports whether an alias different from the name was written.
func (n *Field) HasAlias() bool { return n.Alias != n.Name }

// Literal reports whether the field is a number or string literal.
func (n *Field) Literal() bool { return n.Kind != ColumnField }

// Table is a table reference in the FROM list.
type Table struct {
	Name string
	// Alias equals Name when no alias was written.
	Alias  string
	TokPos int32
}

func (n *Table) node()      {}
func (n *Table) Pos() int32 { return n.TokPos }

// HasAlias reports whether an alias different from the name was written.
func (n *Table) HasAlias() bool { return n.Alias != n.Name }

// WhereClause holds the source text following WHERE up to the end of the
// statement. The condition is kept verbatim and is not interpreted.
type WhereClause struct {
	Raw    string
	TokPos int32
}

func (n *WhereClause) node()      {}
func (n *WhereClause) Pos() int32 { return n.TokPos }

// String renders the statement as canonical SQL. Identifiers that are not
// plain words, or are reserved, are double-quoted.
func (n *SelectStmt) String() string {
	var b strings.Builder
	b.WriteString("SELECT")
	if n.Distinct {
		b.WriteString(" DISTINCT")
	}
	for i := range n.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		f := &n.Fields[i]
		if f.Qualified() {
			b.WriteString(QuoteIdent(f.Table, '"', false))
			b.WriteByte('.')
		}
		switch f.Kind {
		case StringField:
			b.WriteString(QuoteString(f.Name))
		case NumberField:
			b.WriteString(f.Name)
		default:
			b.WriteString(QuoteIdent(f.Name, '"', false))
		}
		if f.HasAlias() {
			b.WriteString(" AS ")
			b.WriteString(QuoteIdent(f.Alias, '"', false))
		}
	}
	b.WriteString(" FROM")
	for i := range n.Tables {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		t := &n.Tables[i]
		b.WriteString(QuoteIdent(t.Name, '"', false))
		if t.HasAlias() {
			b.WriteString(" AS ")
			b.WriteString(QuoteIdent(t.Alias, '"', false))
		}
	}
	if n.Where != nil {
		b.WriteString(" WHERE")
		if n.Where.Raw != "" {
			b.WriteByte(' ')
			b.WriteString(n.Where.Raw)
		}
	}
	return b.String()
}

// QuoteString renders s as a single-quoted SQL string literal.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdent renders an identifier, wrapping it in q (with q doubled
// inside) when it is not a plain word, is reserved, or always is set.
// "*" is never quoted.
func QuoteIdent(name string, q byte, always bool) string {
	if name == "*" {
		return name
	}
	if !always && IsPlainIdent(name) && !lexer.IsReserved(name) {
		return name
	}
	qs := string(q)
	return qs + strings.ReplaceAll(name, qs, qs+qs) + qs
}

// IsPlainIdent reports whether name scans as a single bare identifier.
func IsPlainIdent(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '$'):
		default:
			return false
		}
	}
	return true
}
