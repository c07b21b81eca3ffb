package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"gopkg.in/yaml.v3"

	"github.com/oarkflow/sqlfront"
	"github.com/oarkflow/sqlfront/ast"
)

var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")

	rootStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	branchStyle   = lipgloss.NewStyle().Foreground(colorSecondary)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	enumStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginRight(1)
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	warningStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	infoStyle     = lipgloss.NewStyle().Foreground(colorSecondary)
)

// statementView is the serialised form of a statement.
type statementView struct {
	Kind     string      `json:"kind" yaml:"kind"`
	Distinct bool        `json:"distinct" yaml:"distinct"`
	Fields   []fieldView `json:"fields" yaml:"fields"`
	Tables   []tableView `json:"tables" yaml:"tables"`
	Where    *whereView  `json:"where,omitempty" yaml:"where,omitempty"`
	Pos      int32       `json:"pos" yaml:"pos"`
}

type fieldView struct {
	Table string `json:"table,omitempty" yaml:"table,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Alias string `json:"alias" yaml:"alias"`
	Kind  string `json:"kind" yaml:"kind"`
	Pos   int32  `json:"pos" yaml:"pos"`
}

type tableView struct {
	Name  string `json:"name" yaml:"name"`
	Alias string `json:"alias" yaml:"alias"`
	Pos   int32  `json:"pos" yaml:"pos"`
}

type whereView struct {
	Raw string `json:"raw" yaml:"raw"`
	Pos int32  `json:"pos" yaml:"pos"`
}

type tokenView struct {
	Type  string `json:"type" yaml:"type"`
	Raw   string `json:"raw" yaml:"raw"`
	Value string `json:"value" yaml:"value"`
	Pos   int32  `json:"pos" yaml:"pos"`
	Line  uint32 `json:"line" yaml:"line"`
	Col   uint32 `json:"col" yaml:"col"`
}

func newStatementView(stmt sqlfront.Statement) statementView {
	v := statementView{Kind: stmt.Kind().String(), Pos: stmt.Pos()}
	sel, ok := stmt.(*ast.SelectStmt)
	if !ok {
		return v
	}
	v.Distinct = sel.Distinct
	v.Fields = make([]fieldView, len(sel.Fields))
	for i, f := range sel.Fields {
		v.Fields[i] = fieldView{Table: f.Table, Name: f.Name, Alias: f.Alias, Kind: f.Kind.String(), Pos: f.TokPos}
	}
	v.Tables = make([]tableView, len(sel.Tables))
	for i, t := range sel.Tables {
		v.Tables[i] = tableView{Name: t.Name, Alias: t.Alias, Pos: t.TokPos}
	}
	if sel.Where != nil {
		v.Where = &whereView{Raw: sel.Where.Raw, Pos: sel.Where.TokPos}
	}
	return v
}

// renderer writes command results in the configured output format.
type renderer struct {
	format string
}

func newRenderer(format string) *renderer {
	return &renderer{format: strings.ToLower(format)}
}

// structured reports whether the format serialises values (json, yaml).
func (r *renderer) structured() bool {
	return r.format == "json" || r.format == "yaml"
}

func (r *renderer) encode(w io.Writer, v any) error {
	switch r.format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func (r *renderer) statements(w io.Writer, stmts []sqlfront.Statement, dialect sqlfront.Dialect) error {
	switch r.format {
	case "sql":
		for _, stmt := range stmts {
			out, err := sqlfront.RenderStatement(stmt, sqlfront.ConvertOptions{Target: dialect})
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s;\n", out)
		}
		return nil
	case "tree":
		for _, stmt := range stmts {
			fmt.Fprintln(w, statementTree(stmt).String())
		}
		return nil
	default:
		views := make([]statementView, len(stmts))
		for i, stmt := range stmts {
			views[i] = newStatementView(stmt)
		}
		return r.encode(w, views)
	}
}

func (r *renderer) tokens(w io.Writer, toks []sqlfront.Token) error {
	if r.structured() {
		views := make([]tokenView, len(toks))
		for i, t := range toks {
			views[i] = tokenView{Type: t.Type.String(), Raw: t.Raw, Value: t.Value, Pos: t.Pos, Line: t.Line, Col: t.Col}
		}
		return r.encode(w, views)
	}
	for _, t := range toks {
		pos := mutedStyle.Render(fmt.Sprintf("%4d:%-3d", t.Line, t.Col))
		typ := branchStyle.Render(fmt.Sprintf("%-10s", t.Type.String()))
		fmt.Fprintf(w, "%s %s %s\n", pos, typ, t.Raw)
	}
	return nil
}

func (r *renderer) report(w io.Writer, report sqlfront.AnalysisReport) error {
	if r.structured() {
		return r.encode(w, report)
	}
	fmt.Fprintln(w, rootStyle.Render(report.String()))
	for _, f := range report.Findings {
		where := "input"
		if f.StatementIndex >= 0 {
			where = fmt.Sprintf("stmt %d", f.StatementIndex)
		}
		fmt.Fprintf(w, "  - [%s] %s: %s (%s)\n", severityStyle(f.Severity).Render(string(f.Severity)), f.Code, f.Problem, where)
		if f.Recommendation != "" {
			fmt.Fprintf(w, "      %s\n", mutedStyle.Render(f.Recommendation))
		}
	}
	return nil
}

func severityStyle(s sqlfront.FindingSeverity) lipgloss.Style {
	switch s {
	case sqlfront.SeverityCritical:
		return criticalStyle
	case sqlfront.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// statementTree lays a statement out as a lipgloss tree:
//
//	SELECT DISTINCT
//	├── fields
//	│   ╰── u.id AS user_id (column)
//	├── from
//	│   ╰── users AS u
//	╰── where
//	    ╰── u.id > 10
func statementTree(stmt sqlfront.Statement) *tree.Tree {
	label := stmt.Kind().String()
	sel, ok := stmt.(*ast.SelectStmt)
	if ok && sel.Distinct {
		label += " DISTINCT"
	}
	t := tree.Root(label).
		RootStyle(rootStyle).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle)
	if !ok {
		return t
	}

	fields := tree.Root(branchStyle.Render("fields"))
	for _, f := range sel.Fields {
		name := f.Name
		if f.Qualified() {
			name = f.Table + "." + name
		}
		if f.HasAlias() {
			name += " AS " + f.Alias
		}
		fields.Child(name + " " + mutedStyle.Render("("+f.Kind.String()+")"))
	}
	t.Child(fields)

	tables := tree.Root(branchStyle.Render("from"))
	for _, tb := range sel.Tables {
		name := tb.Name
		if tb.HasAlias() {
			name += " AS " + tb.Alias
		}
		tables.Child(name)
	}
	t.Child(tables)

	if sel.Where != nil {
		t.Child(tree.Root(branchStyle.Render("where")).Child(sel.Where.Raw))
	}
	return t
}
