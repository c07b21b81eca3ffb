package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/oarkflow/sqlfront"
	"github.com/oarkflow/sqlfront/internal/logging"
)

type sample struct {
	name string
	sql  string
}

// batchResult is the per-file outcome of a batch run.
type batchResult struct {
	File       string                     `json:"file" yaml:"file"`
	Valid      bool                       `json:"valid" yaml:"valid"`
	Statements int                        `json:"statements" yaml:"statements"`
	Error      string                     `json:"error,omitempty" yaml:"error,omitempty"`
	SQLState   string                     `json:"sqlstate,omitempty" yaml:"sqlstate,omitempty"`
	Converted  string                     `json:"converted,omitempty" yaml:"converted,omitempty"`
	Findings   []sqlfront.AnalysisFinding `json:"findings,omitempty" yaml:"findings,omitempty"`
}

func newBatchCmd(a *app) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Parse and analyze every .sql file in a directory",
		Long: `Parses every *.sql file in DIR (sorted by name), analyzes it and renders
it for the configured dialect. Files are processed in parallel; results are
printed in file name order. Exits non-zero when any file fails to parse.

Examples:
  sqlfront batch ./queries
  sqlfront batch --dialect mysql -o yaml ./queries`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, err := loadSamples(args[0])
			if err != nil {
				return fmt.Errorf("load samples: %w", err)
			}
			results := make([]batchResult, len(samples))
			var g errgroup.Group
			g.SetLimit(max(jobs, 1))
			for i, s := range samples {
				i, s := i, s
				g.Go(func() error {
					results[i] = a.runSample(s)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := 0
			for _, res := range results {
				if !res.Valid {
					failed++
				}
			}

			if err := a.printBatch(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", failed, len(samples))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "files parsed concurrently")
	return cmd
}

func loadSamples(dir string) ([]sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []sample
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, sample{name: e.Name(), sql: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

func (a *app) runSample(s sample) batchResult {
	log := logging.WithFile(s.name)
	res := batchResult{File: s.name}

	popts := a.cfg.ParserOptions()
	popts.MultiStatement = true
	stmts, err := sqlfront.ParseWithOptions(s.sql, popts)
	if err != nil {
		logging.WithError(err).Debug("batch file failed", "file", s.name)
		res.Error = err.Error()
		res.SQLState = sqlfront.SQLState(err)
		return res
	}
	res.Valid = true
	res.Statements = len(stmts)

	target := a.targetDialect()
	report := sqlfront.AnalyzeSQLWithOptions(s.sql, sqlfront.AnalysisOptions{Dialect: target, Parser: popts})
	res.Findings = report.Findings

	rendered := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		out, err := sqlfront.RenderStatement(stmt, sqlfront.ConvertOptions{Target: target})
		if err != nil {
			log.Debug("batch render failed", "error", err.Error())
			break
		}
		rendered = append(rendered, out)
	}
	res.Converted = strings.Join(rendered, "; ")
	log.Debug("batch file parsed", "statements", res.Statements, "findings", len(res.Findings))
	return res
}

func (a *app) printBatch(w io.Writer, results []batchResult) error {
	if a.renderer.structured() {
		return a.renderer.encode(w, results)
	}
	fmt.Fprintf(w, "Loaded %d sample SQL files\n", len(results))
	fmt.Fprintln(w, strings.Repeat("=", 80))
	for _, r := range results {
		fmt.Fprintf(w, "Sample: %s\n", r.File)
		if !r.Valid {
			fmt.Fprintf(w, "Parse : %s %s\n", criticalStyle.Render("ERROR:"), r.Error)
			fmt.Fprintln(w, strings.Repeat("-", 80))
			continue
		}
		fmt.Fprintf(w, "Parse : OK (%d statement(s))\n", r.Statements)
		for _, f := range r.Findings {
			fmt.Fprintf(w, "  - [%s] %s: %s (stmt %d)\n", severityStyle(f.Severity).Render(string(f.Severity)), f.Code, f.Problem, f.StatementIndex)
		}
		fmt.Fprintf(w, "%-6s: %s\n", a.targetDialect(), compact(r.Converted))
		fmt.Fprintln(w, strings.Repeat("-", 80))
	}
	fmt.Fprintln(w, "Done.")
	return nil
}

func compact(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 220 {
		return s[:220] + " ..."
	}
	return s
}
