package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oarkflow/sqlfront"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [sql|file|-]",
		Short: "Print the token stream",
		Long: `Scans SQL and prints one token per line with its line and column.
Structured formats (json, yaml) print the token list instead.

Examples:
  sqlfront tokens "SELECT a FROM t"
  echo "SELECT \"quoted\" FROM t" | sqlfront tokens -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			toks, err := sqlfront.Tokenize(sql)
			if err != nil {
				return err
			}
			return a.renderer.tokens(cmd.OutOrStdout(), toks)
		},
	}
}
