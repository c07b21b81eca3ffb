package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oarkflow/sqlfront"
	"github.com/oarkflow/sqlfront/config"
	"github.com/oarkflow/sqlfront/internal/logging"
)

// app carries state shared by all commands of one invocation.
type app struct {
	cfgFile  string
	verbose  bool
	format   string
	dialect  string
	multi    bool
	cfg      *config.Config
	renderer *renderer
}

// NewRootCommand builds the sqlfront command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "sqlfront",
		Short: "SQL front end for a restricted SELECT dialect",
		Long: `sqlfront scans and parses SELECT statements, reports lint findings and
renders statements for other SQL dialects.

INSERT, UPDATE and DELETE are recognised and rejected as unsupported.
SQL is read from the argument, from a file named by the argument, or from
stdin when the argument is "-" or missing.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (TOML or YAML, default: $"+config.EnvConfigPath+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.StringVarP(&a.format, "format", "o", "", "output format ("+strings.Join(config.OutputFormats, "|")+")")
	flags.StringVarP(&a.dialect, "dialect", "d", "", "target dialect ("+strings.Join(config.OutputDialects, "|")+")")
	flags.BoolVarP(&a.multi, "multi", "m", false, "parse every semicolon-separated statement")

	root.AddCommand(
		newParseCmd(a),
		newTokensCmd(a),
		newAnalyzeCmd(a),
		newConvertCmd(a),
		newBatchCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	root := NewRootCommand()
	defer logging.Close()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		return err
	}
	return nil
}

// setup loads configuration, applies flag overrides and installs the
// logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(a.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = strings.ToLower(a.format)
	}
	if flags.Changed("dialect") {
		cfg.Output.Dialect = strings.ToLower(a.dialect)
	}
	if flags.Changed("multi") {
		cfg.Parser.MultiStatement = a.multi
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lc := cfg.LoggingConfig()
	if lc.OutputPath == "" {
		lc.Output = cmd.ErrOrStderr()
	}
	if err := logging.Close(); err != nil {
		return err
	}
	if err := logging.Init(lc); err != nil {
		return err
	}

	a.cfg = cfg
	a.renderer = newRenderer(cfg.Output.Format)
	logging.WithComponent("cli").Debug("configuration loaded",
		"command", cmd.Name(), "config", cfg.Path(), "format", cfg.Output.Format, "dialect", cfg.Output.Dialect)
	return nil
}

func (a *app) targetDialect() sqlfront.Dialect {
	d, err := sqlfront.ParseDialect(a.cfg.Output.Dialect)
	if err != nil {
		return sqlfront.DialectStandard
	}
	return d
}

// readInput returns the SQL text named by args: literal SQL, a file path,
// or stdin for "-" and no arguments.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		if info, err := os.Stat(args[0]); err == nil && info.Mode().IsRegular() {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return "", err
			}
			return string(data), nil
		}
	}
	return strings.Join(args, " "), nil
}

func printError(w io.Writer, err error) {
	if state := sqlfront.SQLState(err); state != "" {
		fmt.Fprintf(w, "Error: %v (SQLSTATE %s)\n", err, state)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
