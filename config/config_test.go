package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oarkflow/sqlfront/config"
	"github.com/oarkflow/sqlfront/internal/logging"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Parser.MaxInputLength != config.DefaultMaxInputLength || cfg.Parser.MultiStatement {
		t.Fatalf("unexpected parser defaults %+v", cfg.Parser)
	}
	if cfg.Output.Format != "json" || cfg.Output.Dialect != "standard" {
		t.Fatalf("unexpected output defaults %+v", cfg.Output)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "sqlfront.toml", `
[parser]
max_input_length = 128
multi_statement = true

[log]
level = "debug"
format = "json"

[output]
format = "tree"
dialect = "mysql"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Parser.MaxInputLength != 128 || !cfg.Parser.MultiStatement || cfg.Parser.AllowEmptySelectList {
		t.Fatalf("unexpected parser section %+v", cfg.Parser)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log section %+v", cfg.Log)
	}
	if cfg.Output.Format != "tree" || cfg.Output.Dialect != "mysql" {
		t.Fatalf("unexpected output section %+v", cfg.Output)
	}
	if cfg.Path() != path {
		t.Fatalf("expected path %s, got %s", path, cfg.Path())
	}
}

func TestLoadYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "sqlfront.yaml", `
parser:
  allow_empty_select_list: true
output:
  format: yaml
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Parser.AllowEmptySelectList || cfg.Output.Format != "yaml" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Parser.MaxInputLength != config.DefaultMaxInputLength || cfg.Log.Level != "info" || cfg.Output.Dialect != "standard" {
		t.Fatalf("missing keys should keep defaults: %+v", cfg)
	}
}

func TestLoadUnknownKeys(t *testing.T) {
	tomlPath := writeFile(t, "bad.toml", "[parser]\nmax_lenght = 5\n")
	if _, err := config.Load(tomlPath); err == nil || !strings.Contains(err.Error(), "parser.max_lenght") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
	yamlPath := writeFile(t, "bad.yml", "parser:\n  max_lenght: 5\n")
	if _, err := config.Load(yamlPath); err == nil {
		t.Fatal("expected unknown key error for YAML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, err := config.Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeFile(t, "sqlfront.toml", "[output]\nformat = \"sql\"\n")
	t.Setenv("SQLFRONT_OUTPUT_FORMAT", "yaml")
	t.Setenv("SQLFRONT_PARSER_MULTI_STATEMENT", "true")
	t.Setenv("SQLFRONT_PARSER_MAX_INPUT_LENGTH", "42")
	t.Setenv("SQLFRONT_LOG_LEVEL", "warn")
	t.Setenv("SQLFRONT_PARSER_ALLOW_EMPTY_TABLE_LIST", "1")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Format != "yaml" || !cfg.Parser.MultiStatement || cfg.Parser.MaxInputLength != 42 || !cfg.Parser.AllowEmptyTableList {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if got := cfg.LoggingConfig().Level; got != logging.LevelWarn {
		t.Fatalf("expected WARN, got %s", got)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("SQLFRONT_PARSER_MULTI_STATEMENT", "maybe")
	_, err := config.Resolve("")
	if err == nil || !strings.Contains(err.Error(), "SQLFRONT_PARSER_MULTI_STATEMENT") {
		t.Fatalf("expected env error, got %v", err)
	}
}

func TestResolveFromEnvPath(t *testing.T) {
	path := writeFile(t, "env.toml", "[output]\ndialect = \"postgres\"\n")
	t.Setenv(config.EnvConfigPath, path)
	cfg, err := config.Resolve("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Output.Dialect != "postgres" {
		t.Fatalf("expected postgres, got %s", cfg.Output.Dialect)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"negative length", func(c *config.Config) { c.Parser.MaxInputLength = -1 }, "parser.max_input_length"},
		{"bad level", func(c *config.Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad output format", func(c *config.Config) { c.Output.Format = "csv" }, "output.format"},
		{"bad dialect", func(c *config.Config) { c.Output.Dialect = "oracle" }, "output.dialect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("expected error naming %s, got %v", tt.field, err)
			}
		})
	}
}

func TestParserOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Parser.MultiStatement = true
	cfg.Parser.AllowEmptySelectList = true
	cfg.Parser.AllowEmptyTableList = true
	opts := cfg.ParserOptions()
	if !opts.MultiStatement || !opts.AllowEmptySelectList || !opts.AllowEmptyTableList || opts.MaxInputLength != config.DefaultMaxInputLength {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Logger != nil {
		t.Fatal("logger should be left to the parser default")
	}
}
