package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oarkflow/sqlfront"
	"github.com/oarkflow/sqlfront/internal/logging"
)

func newConvertCmd(a *app) *cobra.Command {
	var quoteAll bool
	cmd := &cobra.Command{
		Use:   "convert [sql|file|-]",
		Short: "Render SQL for another dialect",
		Long: `Parses every statement and renders it with the identifier quoting of
the target dialect. WHERE conditions are copied verbatim.

Examples:
  sqlfront convert --dialect mysql "SELECT \"order\".id FROM \"order\""
  sqlfront convert --dialect postgres --quote-all query.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			opts := a.cfg.ParserOptions()
			opts.MultiStatement = true
			stmts, err := sqlfront.ParseWithOptions(sql, opts)
			if err != nil {
				return err
			}
			target := a.targetDialect()
			w := cmd.OutOrStdout()
			for _, stmt := range stmts {
				out, err := sqlfront.RenderStatement(stmt, sqlfront.ConvertOptions{Target: target, QuoteAll: quoteAll})
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s;\n", out)
			}
			logging.WithOp("convert").Debug("converted statements", "dialect", target, "statements", len(stmts))
			return nil
		},
	}
	cmd.Flags().BoolVar(&quoteAll, "quote-all", false, "quote every identifier")
	return cmd
}
