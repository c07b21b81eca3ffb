package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oarkflow/sqlfront"
	"github.com/oarkflow/sqlfront/internal/logging"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [sql|file|-]",
		Short: "Parse SQL and print the statement tree",
		Long: `Parses SQL and prints the resulting statements.

Examples:
  sqlfront parse "SELECT u.id, u.name n FROM users u WHERE u.id > 10"
  sqlfront parse --format tree query.sql
  sqlfront parse --multi --format yaml - < queries.sql
  sqlfront parse --format sql --dialect mysql "SELECT \"order\" FROM t"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			log := logging.WithOp("parse")
			stmts, err := sqlfront.ParseWithOptions(sql, a.cfg.ParserOptions())
			if err != nil {
				log.Debug("parse failed", "error", err)
				return err
			}
			log.Debug("parse succeeded", "statements", len(stmts))
			return a.renderer.statements(cmd.OutOrStdout(), stmts, a.targetDialect())
		},
	}
}
