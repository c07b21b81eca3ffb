package sqlfront

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oarkflow/sqlfront/ast"
	"github.com/oarkflow/sqlfront/lexer"
)

type FindingSeverity string

const (
	SeverityInfo     FindingSeverity = "info"
	SeverityWarning  FindingSeverity = "warning"
	SeverityCritical FindingSeverity = "critical"
)

type AnalysisFinding struct {
	Severity       FindingSeverity `json:"severity" yaml:"severity"`
	Code           string          `json:"code" yaml:"code"`
	Message        string          `json:"message" yaml:"message"`
	Problem        string          `json:"problem" yaml:"problem"`
	Recommendation string          `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	// StatementIndex is -1 for findings about the whole input.
	StatementIndex int `json:"statement_index" yaml:"statement_index"`
}

type AnalysisReport struct {
	Valid          bool              `json:"valid" yaml:"valid"`
	StatementCount int               `json:"statement_count" yaml:"statement_count"`
	Findings       []AnalysisFinding `json:"findings" yaml:"findings"`
}

type AnalysisOptions struct {
	// Dialect enables portability checks for a conversion target.
	Dialect Dialect
	// Parser options; MultiStatement is always on.
	Parser Options
}

type OptimizationReport struct {
	Dialect      Dialect
	OriginalSQL  string
	OptimizedSQL string
	Converted    bool
	Analysis     AnalysisReport
	Actions      []string
}

func AnalyzeSQL(sql string) AnalysisReport {
	return AnalyzeSQLWithOptions(sql, AnalysisOptions{})
}

func AnalyzeSQLWithOptions(sql string, opts AnalysisOptions) AnalysisReport {
	report := AnalysisReport{}
	popts := opts.Parser
	popts.MultiStatement = true
	stmts, err := ParseWithOptions(sql, popts)
	if err != nil {
		report.Valid = false
		if errors.Is(err, ErrUnsupported) {
			addFinding(&report, SeverityCritical, "UNSUPPORTED_STATEMENT", err.Error(), "Only SELECT statements can be parsed; run DML through another path.", -1)
		} else {
			addFinding(&report, SeverityCritical, "PARSE_ERROR", err.Error(), "Fix SQL syntax at the reported line/column and re-run parsing.", -1)
		}
		return report
	}
	report.Valid = true
	report.StatementCount = len(stmts)

	for i, stmt := range stmts {
		analyzeStatement(stmt, i, &report, opts)
	}
	return report
}

// OptimizeSQLForDialect analyzes sql, converts it to dialect and collects
// the recommendations as actions.
func OptimizeSQLForDialect(sql string, dialect Dialect) (OptimizationReport, error) {
	report := OptimizationReport{
		Dialect:     dialect,
		OriginalSQL: sql,
	}
	report.Analysis = AnalyzeSQLWithOptions(sql, AnalysisOptions{Dialect: dialect})
	if !report.Analysis.Valid {
		return report, fmt.Errorf("cannot optimize invalid SQL: %s", report.Analysis.Findings[0].Problem)
	}
	converted, err := ConvertDialect(sql, dialect)
	if err != nil {
		return report, err
	}
	report.OptimizedSQL = converted
	report.Converted = strings.TrimSpace(sql) != strings.TrimSpace(converted)
	if report.Converted {
		report.Actions = append(report.Actions, fmt.Sprintf("Converted SQL to %s-compatible syntax", dialect))
	}
	seen := map[string]bool{}
	for _, f := range report.Analysis.Findings {
		if f.Recommendation == "" || seen[f.Recommendation] {
			continue
		}
		seen[f.Recommendation] = true
		report.Actions = append(report.Actions, f.Recommendation)
	}
	return report, nil
}

func analyzeStatement(stmt Statement, idx int, report *AnalysisReport, opts AnalysisOptions) {
	s, ok := stmt.(*ast.SelectStmt)
	if !ok {
		return
	}

	if hasSelectStar(s.Fields) {
		addFinding(report, SeverityWarning, "SELECT_STAR", "Query uses SELECT *; this can read unnecessary columns and break clients if schema changes.", "Select explicit columns needed by the caller (e.g. SELECT id, name) to reduce IO and improve compatibility.", idx)
	}
	if s.Where != nil && s.Where.Raw == "" {
		addFinding(report, SeverityWarning, "EMPTY_WHERE", "WHERE is written without a condition.", "Add a condition after WHERE or remove the keyword.", idx)
	}
	if len(s.Tables) > 1 && (s.Where == nil || s.Where.Raw == "") {
		addFinding(report, SeverityWarning, "CROSS_PRODUCT", fmt.Sprintf("%d tables are listed without a WHERE clause, producing a cartesian product.", len(s.Tables)), "Add a WHERE predicate relating the tables, or confirm the cross product is intended.", idx)
	}

	tableAliases := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		key := strings.ToLower(t.Alias)
		if tableAliases[key] {
			addFinding(report, SeverityWarning, "DUPLICATE_TABLE_ALIAS", fmt.Sprintf("Table alias %q is used more than once.", t.Alias), "Give every table in the FROM list a distinct alias.", idx)
		}
		tableAliases[key] = true
	}

	columnAliases := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		switch {
		case f.Qualified():
			if !tableAliases[strings.ToLower(f.Table)] {
				addFinding(report, SeverityWarning, "UNKNOWN_QUALIFIER", fmt.Sprintf("Column %s.%s refers to %q, which is not a table or alias in the FROM list.", f.Table, f.Name, f.Table), "Qualify the column with a table name or alias from the FROM list.", idx)
			}
		case len(s.Tables) > 1 && f.Kind == ast.ColumnField && !f.Star():
			addFinding(report, SeverityWarning, "AMBIGUOUS_COLUMN", fmt.Sprintf("Column %s is not qualified while %d tables are listed.", f.Name, len(s.Tables)), "Qualify columns with a table alias (e.g. t.id) when selecting from several tables.", idx)
		}
		if f.Star() {
			continue
		}
		key := strings.ToLower(f.Alias)
		if columnAliases[key] {
			addFinding(report, SeverityInfo, "DUPLICATE_ALIAS", fmt.Sprintf("Output column name %q appears more than once.", f.Alias), "Alias repeated columns so clients can address each result column by name.", idx)
		}
		columnAliases[key] = true
	}

	if opts.Dialect != "" && s.Where != nil {
		analyzeWhereQuoting(s.Where, idx, report, opts.Dialect)
	}
}

// analyzeWhereQuoting flags identifier quotes the target dialect reads
// differently. The condition is copied verbatim on conversion, so these
// are not rewritten.
func analyzeWhereQuoting(w *ast.WhereClause, idx int, report *AnalysisReport, dialect Dialect) {
	toks, err := lexer.Tokenize(w.Raw)
	if err != nil {
		return
	}
	for _, tok := range toks {
		switch {
		case tok.Type == lexer.BACKTICK && dialect != DialectMySQL:
			addFinding(report, SeverityWarning, "WHERE_QUOTE_MISMATCH", fmt.Sprintf("WHERE condition quotes %s with backticks, which %s does not accept.", tok.Raw, dialect), "Use double-quoted identifiers in the WHERE condition.", idx)
			return
		case tok.Type == lexer.DQUOTE && dialect == DialectMySQL:
			addFinding(report, SeverityWarning, "WHERE_QUOTE_MISMATCH", fmt.Sprintf("WHERE condition uses %s, which MySQL reads as a string literal by default.", tok.Raw), "Use backtick-quoted identifiers in the WHERE condition.", idx)
			return
		}
	}
}

func hasSelectStar(fields []ast.Field) bool {
	for i := range fields {
		if fields[i].Star() {
			return true
		}
	}
	return false
}

func addFinding(report *AnalysisReport, sev FindingSeverity, code, problem, recommendation string, idx int) {
	msg := problem
	if recommendation != "" {
		msg += " Recommendation: " + recommendation
	}
	report.Findings = append(report.Findings, AnalysisFinding{
		Severity:       sev,
		Code:           code,
		Message:        msg,
		Problem:        problem,
		Recommendation: recommendation,
		StatementIndex: idx,
	})
}

func (r AnalysisReport) String() string {
	if !r.Valid {
		if len(r.Findings) == 0 {
			return "invalid SQL"
		}
		return fmt.Sprintf("invalid SQL: %s", r.Findings[0].Problem)
	}
	if len(r.Findings) == 0 {
		return fmt.Sprintf("valid SQL (%d statements), no findings", r.StatementCount)
	}
	return fmt.Sprintf("valid SQL (%d statements), %d finding(s)", r.StatementCount, len(r.Findings))
}
