package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/oarkflow/sqlfront"
	"github.com/oarkflow/sqlfront/internal/logging"
)

var errInvalidSQL = errors.New("invalid SQL")

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [sql|file|-]",
		Short: "Report lint findings for SELECT statements",
		Long: `Parses every statement and reports findings such as SELECT *, cross
products, ambiguous or unknown column qualifiers and duplicate aliases.
With --dialect, WHERE conditions are also checked for identifier quotes the
target reads differently.

Examples:
  sqlfront analyze "SELECT * FROM users u, orders o"
  sqlfront analyze --dialect postgres -o json report.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			report := sqlfront.AnalyzeSQLWithOptions(sql, sqlfront.AnalysisOptions{
				Dialect: a.targetDialect(),
				Parser:  a.cfg.ParserOptions(),
			})
			logging.WithOp("analyze").Debug("analysis finished",
				"valid", report.Valid, "statements", report.StatementCount, "findings", len(report.Findings))
			if err := a.renderer.report(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.Valid {
				return errInvalidSQL
			}
			return nil
		},
	}
}
