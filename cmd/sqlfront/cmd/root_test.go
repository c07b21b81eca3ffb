package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/oarkflow/sqlfront"
	"github.com/oarkflow/sqlfront/internal/logging"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("SQLFRONT_CONFIG", "")
	t.Cleanup(func() { _ = logging.Close() })

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestParseJSON(t *testing.T) {
	out, _, err := runCLI(t, "", "parse", "SELECT u.id AS user_id, name FROM users u WHERE u.id > 10")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var views []statementView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(views))
	}
	v := views[0]
	if v.Kind != "SELECT" || len(v.Fields) != 2 || v.Fields[0].Table != "u" || v.Fields[0].Alias != "user_id" {
		t.Fatalf("unexpected view %+v", v)
	}
	if v.Tables[0].Name != "users" || v.Tables[0].Alias != "u" || v.Where == nil || v.Where.Raw != "u.id > 10" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestParseYAMLFromStdin(t *testing.T) {
	out, _, err := runCLI(t, "SELECT a FROM t; SELECT b FROM u", "parse", "--format", "yaml", "--multi", "-")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var views []statementView
	if err := yaml.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("invalid YAML %q: %v", out, err)
	}
	if len(views) != 2 || views[1].Fields[0].Name != "b" {
		t.Fatalf("unexpected views %+v", views)
	}
}

func TestParseSQLDialect(t *testing.T) {
	out, _, err := runCLI(t, "", "parse", "-o", "sql", "-d", "mysql", `SELECT "order" FROM t`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.TrimSpace(out) != "SELECT `order` FROM t;" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseTree(t *testing.T) {
	out, _, err := runCLI(t, "", "parse", "-o", "tree", "SELECT DISTINCT a x FROM t WHERE a = 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, want := range []string{"SELECT DISTINCT", "fields", "a AS x", "from", "where", "a = 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestParseFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.sql")
	if err := os.WriteFile(path, []byte("SELECT a FROM t"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, "", "parse", "-o", "sql", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.TrimSpace(out) != "SELECT a FROM t;" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestParseErrors(t *testing.T) {
	_, _, err := runCLI(t, "", "parse", "SELECT a")
	if !errors.Is(err, sqlfront.ErrSyntax) {
		t.Fatalf("expected syntax error, got %v", err)
	}
	_, _, err = runCLI(t, "", "parse", "INSERT INTO t VALUES (1)")
	if !errors.Is(err, sqlfront.ErrUnsupported) {
		t.Fatalf("expected unsupported error, got %v", err)
	}
	_, _, err = runCLI(t, "", "parse", "-o", "csv", "SELECT a FROM t")
	if err == nil || !strings.Contains(err.Error(), "output.format") {
		t.Fatalf("expected config validation error, got %v", err)
	}
}

func TestPrintErrorIncludesSQLState(t *testing.T) {
	_, err := sqlfront.Parse("DELETE FROM t")
	var buf bytes.Buffer
	printError(&buf, err)
	if !strings.Contains(buf.String(), "SQLSTATE 0A000") {
		t.Fatalf("unexpected message %q", buf.String())
	}
}

func TestTokens(t *testing.T) {
	out, _, err := runCLI(t, "", "tokens", "-o", "json", "SELECT a FROM t")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	var toks []tokenView
	if err := json.Unmarshal([]byte(out), &toks); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(toks) != 5 || toks[0].Type != "SELECT" || toks[1].Value != "a" || toks[4].Type != "EOF" {
		t.Fatalf("unexpected tokens %+v", toks)
	}

	out, _, err = runCLI(t, "", "tokens", "-o", "tree", "SELECT a")
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if !strings.Contains(out, "SELECT") || strings.Count(out, "\n") != 3 {
		t.Fatalf("unexpected text output %q", out)
	}
}

func TestAnalyze(t *testing.T) {
	out, _, err := runCLI(t, "", "analyze", "-o", "json", "SELECT * FROM a, b")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var report sqlfront.AnalysisReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !report.Valid || len(report.Findings) < 2 {
		t.Fatalf("unexpected report %+v", report)
	}

	out, _, err = runCLI(t, "", "analyze", "-o", "tree", "SELECT a")
	if !errors.Is(err, errInvalidSQL) {
		t.Fatalf("expected invalid SQL error, got %v", err)
	}
	if !strings.Contains(out, "PARSE_ERROR") {
		t.Fatalf("expected PARSE_ERROR in output %q", out)
	}
}

func TestConvert(t *testing.T) {
	out, _, err := runCLI(t, "", "convert", "-d", "postgres", "--quote-all", "SELECT a FROM t; SELECT b FROM u")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := "SELECT \"a\" FROM \"t\";\nSELECT \"b\" FROM \"u\";\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b_bad.sql":  "SELECT a FROM",
		"a_good.sql": "SELECT * FROM users;\nSELECT id FROM orders",
		"notes.txt":  "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	out, _, err := runCLI(t, "", "batch", "-o", "json", dir)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files") {
		t.Fatalf("expected one failure, got %v", err)
	}
	var results []batchResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(results) != 2 || results[0].File != "a_good.sql" || results[1].File != "b_bad.sql" {
		t.Fatalf("unexpected results %+v", results)
	}
	if !results[0].Valid || results[0].Statements != 2 || results[0].Converted == "" {
		t.Fatalf("unexpected good result %+v", results[0])
	}
	if results[1].Valid || results[1].SQLState != "42000" {
		t.Fatalf("unexpected bad result %+v", results[1])
	}

	out, _, _ = runCLI(t, "", "batch", "-o", "tree", dir)
	if !strings.Contains(out, "Sample: a_good.sql") || !strings.Contains(out, "Done.") {
		t.Fatalf("unexpected text output %q", out)
	}
}

func TestBatchUsesParserConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "empty_list.sql"), []byte("SELECT FROM t; SELECT \"a b\" FROM u"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SQLFRONT_PARSER_ALLOW_EMPTY_SELECT_LIST", "true")
	out, _, err := runCLI(t, "", "batch", "-o", "json", "-d", "mysql", dir)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	var results []batchResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(results) != 1 || !results[0].Valid {
		t.Fatalf("unexpected results %+v", results)
	}
	if want := "SELECT FROM t; SELECT `a b` FROM u"; results[0].Converted != want {
		t.Fatalf("expected %q, got %q", want, results[0].Converted)
	}
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqlfront.toml")
	cfg := "[parser]\nmulti_statement = true\n\n[output]\nformat = \"sql\"\ndialect = \"mysql\"\n"
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, "", "--config", path, "parse", `SELECT "x y" FROM t; SELECT b FROM u`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "SELECT `x y` FROM t;\nSELECT b FROM u;\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "sqlfront v"+Version) {
		t.Fatalf("unexpected output %q", out)
	}
}
