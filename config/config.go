// Package config loads sqlfront settings from TOML or YAML files and
// SQLFRONT_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/oarkflow/sqlfront/internal/logging"
	"github.com/oarkflow/sqlfront/parser"
)

// EnvPrefix prefixes every environment override, e.g. SQLFRONT_LOG_LEVEL.
const EnvPrefix = "SQLFRONT_"

// EnvConfigPath names a config file used when no path is given.
const EnvConfigPath = EnvPrefix + "CONFIG"

// DefaultMaxInputLength bounds the SQL text accepted by the CLI.
const DefaultMaxInputLength = 64 * 1024

// Format is a configuration file format.
type Format int

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Accepted enum values.
var (
	LogFormats     = []string{"text", "json"}
	OutputFormats  = []string{"json", "yaml", "sql", "tree"}
	OutputDialects = []string{"standard", "mysql", "postgres", "sqlite"}
)

// Config holds the complete application configuration.
type Config struct {
	Parser ParserConfig `toml:"parser" yaml:"parser"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Output OutputConfig `toml:"output" yaml:"output"`

	// path is the file the configuration was read from, if any.
	path string
}

// ParserConfig maps onto parser.Options.
type ParserConfig struct {
	MaxInputLength       int  `toml:"max_input_length" yaml:"max_input_length"`
	MultiStatement       bool `toml:"multi_statement" yaml:"multi_statement"`
	AllowEmptySelectList bool `toml:"allow_empty_select_list" yaml:"allow_empty_select_list"`
	AllowEmptyTableList  bool `toml:"allow_empty_table_list" yaml:"allow_empty_table_list"`
}

// LogConfig maps onto logging.Config.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"`
}

// OutputConfig selects how the CLI prints results.
type OutputConfig struct {
	Format  string `toml:"format" yaml:"format"`
	Dialect string `toml:"dialect" yaml:"dialect"`
}

// LoadOptions controls Load.
type LoadOptions struct {
	Format Format
	// EnvPrefix enables environment overrides when non-empty.
	EnvPrefix string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{MaxInputLength: DefaultMaxInputLength},
		Log:    LogConfig{Level: "info", Format: "text"},
		Output: OutputConfig{Format: "json", Dialect: "standard"},
	}
}

// Load reads path, applies SQLFRONT_* overrides and validates the result.
func Load(path string) (*Config, error) {
	return LoadWithOptions(path, LoadOptions{Format: FormatAuto, EnvPrefix: EnvPrefix})
}

// LoadWithOptions reads path with custom options. Keys missing from the
// file keep their defaults.
func LoadWithOptions(path string, options LoadOptions) (*Config, error) {
	path = os.ExpandEnv(strings.TrimSpace(path))
	if path == "" {
		return nil, errors.New("config file path cannot be empty")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	format := options.Format
	if format == FormatAuto {
		format = detectFormat(path)
	}

	cfg, err := Parse(content, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.path = path

	if options.EnvPrefix != "" {
		if err := cfg.ApplyEnv(options.EnvPrefix); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads path, or the file named by SQLFRONT_CONFIG when path is
// empty. Without either it returns the defaults with environment overrides.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		return Load(path)
	}

	cfg := Default()
	if err := cfg.ApplyEnv(EnvPrefix); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes content on top of the defaults. Unknown keys are errors.
func Parse(content []byte, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatYAML:
		if len(bytes.TrimSpace(content)) == 0 {
			return cfg, nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatTOML, FormatAuto:
		md, err := toml.Decode(string(content), cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// envBinding maps one environment suffix onto a field.
type envBinding struct {
	key string
	set func(c *Config, value string) error
}

var envBindings = []envBinding{
	{"PARSER_MAX_INPUT_LENGTH", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Parser.MaxInputLength = n
		return nil
	}},
	{"PARSER_MULTI_STATEMENT", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Parser.MultiStatement = b
		return err
	}},
	{"PARSER_ALLOW_EMPTY_SELECT_LIST", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Parser.AllowEmptySelectList = b
		return err
	}},
	{"PARSER_ALLOW_EMPTY_TABLE_LIST", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Parser.AllowEmptyTableList = b
		return err
	}},
	{"LOG_LEVEL", func(c *Config, v string) error { c.Log.Level = v; return nil }},
	{"LOG_FORMAT", func(c *Config, v string) error { c.Log.Format = v; return nil }},
	{"LOG_FILE", func(c *Config, v string) error { c.Log.File = v; return nil }},
	{"OUTPUT_FORMAT", func(c *Config, v string) error { c.Output.Format = v; return nil }},
	{"OUTPUT_DIALECT", func(c *Config, v string) error { c.Output.Dialect = v; return nil }},
}

// ApplyEnv overrides fields from prefix+KEY environment variables, e.g.
// SQLFRONT_OUTPUT_FORMAT=yaml.
func (c *Config) ApplyEnv(prefix string) error {
	for _, b := range envBindings {
		name := prefix + b.key
		value, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if err := b.set(c, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks ranges and enum values.
func (c *Config) Validate() error {
	var errs []error
	if c.Parser.MaxInputLength < 0 {
		errs = append(errs, fmt.Errorf("parser.max_input_length must not be negative, got %d", c.Parser.MaxInputLength))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if err := oneOf("log.format", c.Log.Format, LogFormats); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("output.format", c.Output.Format, OutputFormats); err != nil {
		errs = append(errs, err)
	}
	if err := oneOf("output.dialect", c.Output.Dialect, OutputDialects); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParserOptions converts the parser section.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		MaxInputLength:       c.Parser.MaxInputLength,
		MultiStatement:       c.Parser.MultiStatement,
		AllowEmptySelectList: c.Parser.AllowEmptySelectList,
		AllowEmptyTableList:  c.Parser.AllowEmptyTableList,
	}
}

// LoggingConfig converts the log section. Validate must have passed.
func (c *Config) LoggingConfig() logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.Config{
		Level:      level,
		OutputPath: c.Log.File,
		Format:     strings.ToLower(c.Log.Format),
	}
}

func oneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, "|"), value)
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}
