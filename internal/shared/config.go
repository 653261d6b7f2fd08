package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/speclint/internal/parser"
	"github.com/codewithboateng/speclint/internal/reporting"
	"github.com/codewithboateng/speclint/internal/rules"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ConfigFileNames are searched, in order, in the scan root.
var ConfigFileNames = []string{".speclint.yml", ".speclint.yaml", ".speclint.toml"}

type Config struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	IDFormats struct {
		Requirement string `yaml:"requirement"`
		Test        string `yaml:"test"`
	} `yaml:"id_formats"`

	Rules map[string]RuleSetting `yaml:"rules"`

	Report struct {
		Formats   []string `yaml:"formats" validate:"dive,report_format"`
		OutputDir string   `yaml:"output_dir" validate:"required"`
	} `yaml:"report"`

	JUnit struct {
		Paths        []string `yaml:"paths"`
		TestIDPrefix string   `yaml:"test_id_prefix"`
	} `yaml:"junit"`

	Inputs Inputs `yaml:"inputs"`

	Database struct {
		Driver string `yaml:"driver" validate:"oneof=sqlite"` // "sqlite" (default)
		DSN    string `yaml:"dsn" validate:"required"`        // "./speclint.db"
	} `yaml:"database"`

	Logging struct {
		Format string `yaml:"format" validate:"oneof=json console text"`
		Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"logging"`

	API struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		SessionTTL     string   `yaml:"session_ttl"`
		RateLimit      float64  `yaml:"rate_limit" validate:"gte=0"`
		Burst          int      `yaml:"burst" validate:"gte=0"`
	} `yaml:"api"`
}

type Inputs struct {
	Common struct {
		TestsSeparator string `yaml:"tests_separator"`
		TagsSeparator  string `yaml:"tags_separator"`
	} `yaml:"common"`
	CSV  TableInput `yaml:"csv"`
	XLSX TableInput `yaml:"xlsx"`
	YAML struct {
		Fields map[string][]string `yaml:"fields"`
	} `yaml:"yaml"`
	MD struct {
		HeaderRegex string `yaml:"header_regex"`
		RiskRegex   string `yaml:"risk_regex"`
		TestsRegex  string `yaml:"tests_regex"`
	} `yaml:"md"`
}

type TableInput struct {
	Sheet               string              `yaml:"sheet,omitempty"` // name or 0-based index
	HeaderRowSearchRows int                 `yaml:"header_row_search_rows" validate:"gte=0"`
	Columns             map[string][]string `yaml:"columns"`
}

// RuleSetting is either a bare severity string or an object carrying a
// severity plus rule-specific parameters.
type RuleSetting struct {
	Bare      bool
	Severity  string
	Fields    []string
	MinTests  map[string]int
	Languages []string
}

type ruleObject struct {
	Severity  string         `yaml:"severity,omitempty"`
	Fields    []string       `yaml:"fields,omitempty"`
	MinTests  map[string]int `yaml:"min_tests,omitempty"`
	Languages []string       `yaml:"languages,omitempty"`
}

func (r *RuleSetting) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*r = RuleSetting{Bare: true, Severity: n.Value}
		return nil
	case yaml.MappingNode:
		var o ruleObject
		if err := n.Decode(&o); err != nil {
			return err
		}
		*r = RuleSetting{Severity: o.Severity, Fields: o.Fields, MinTests: o.MinTests, Languages: o.Languages}
		return nil
	}
	return fmt.Errorf("line %d: rule must be a severity string or a mapping", n.Line)
}

func (r RuleSetting) MarshalYAML() (any, error) {
	if r.Bare {
		return r.Severity, nil
	}
	return ruleObject{Severity: r.Severity, Fields: r.Fields, MinTests: r.MinTests, Languages: r.Languages}, nil
}

// DefaultConfig returns a fresh copy of the built-in defaults.
func DefaultConfig() Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		panic("speclint: embedded defaults are invalid: " + err.Error())
	}
	return c
}

// LoadConfig reads a YAML or TOML file and deep-merges it over the defaults.
// An empty path yields the defaults. Env overrides apply in both cases.
func LoadConfig(path string) (Config, error) {
	base, err := decodeTree(defaultsYAML, ".yaml")
	if err != nil {
		return Config{}, fmt.Errorf("embedded defaults: %w", err)
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		user, err := decodeTree(b, strings.ToLower(filepath.Ext(path)))
		if err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		deepMerge(base, user)
	}

	merged, err := yaml.Marshal(base)
	if err != nil {
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(merged, &c); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	applyEnv(&c)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ResolveConfigForPath picks the explicit file if given, else the first
// ConfigFileNames entry present in root, else the built-in defaults. The
// second return value labels where the configuration came from.
func ResolveConfigForPath(root, explicit string) (Config, string, error) {
	if explicit != "" {
		c, err := LoadConfig(explicit)
		return c, explicit, err
	}
	for _, name := range ConfigFileNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			c, err := LoadConfig(p)
			return c, p, err
		}
	}
	c, err := LoadConfig("")
	return c, "built-in defaults", err
}

var validate = newValidator()

// newValidator registers report_format, which accepts the formats the
// reporting package can write.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("report_format", func(fl validator.FieldLevel) bool {
		return slices.Contains(reporting.Formats, strings.ToLower(fl.Field().String()))
	})
	return v
}

// Validate checks structural constraints. Rule parameters are validated
// when the rule policy is compiled.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RulesConfig converts the rule section into engine input.
func (c Config) RulesConfig() rules.Config {
	out := rules.Config{
		RequirementIDPattern: c.IDFormats.Requirement,
		TestIDPattern:        c.IDFormats.Test,
		Rules:                make(map[string]rules.Setting, len(c.Rules)),
	}
	for name, s := range c.Rules {
		kind := rules.Structured
		if s.Bare {
			kind = rules.SeverityOnly
		}
		out.Rules[name] = rules.Setting{
			Kind:      kind,
			Severity:  s.Severity,
			Fields:    s.Fields,
			MinTests:  s.MinTests,
			Languages: s.Languages,
		}
	}
	return out
}

// ParserOptions converts the inputs section into parser options.
func (c Config) ParserOptions() parser.Options {
	in := c.Inputs
	return parser.Options{
		TestsSeparator: in.Common.TestsSeparator,
		TagsSeparator:  in.Common.TagsSeparator,
		CSV: parser.TableOptions{
			HeaderSearchRows: in.CSV.HeaderRowSearchRows,
			Columns:          in.CSV.Columns,
		},
		XLSX: parser.TableOptions{
			Sheet:            in.XLSX.Sheet,
			HeaderSearchRows: in.XLSX.HeaderRowSearchRows,
			Columns:          in.XLSX.Columns,
		},
		YAMLFields:    in.YAML.Fields,
		MDHeaderRegex: in.MD.HeaderRegex,
		MDRiskRegex:   in.MD.RiskRegex,
		MDTestsRegex:  in.MD.TestsRegex,
	}
}

// Dump renders the effective configuration as YAML.
func (c Config) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}

func decodeTree(b []byte, ext string) (map[string]any, error) {
	tree := map[string]any{}
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(b, &tree); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(b, &tree); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// deepMerge overlays src onto dst: nested mappings merge, everything else
// replaces.
func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		sv, sok := v.(map[string]any)
		dv, dok := dst[k].(map[string]any)
		if sok && dok {
			deepMerge(dv, sv)
			continue
		}
		dst[k] = v
	}
}

func applyEnv(c *Config) {
	// Env overrides (simple, explicit)
	if v := os.Getenv("SPECLINT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SPECLINT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SPECLINT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SPECLINT_OUT_DIR"); v != "" {
		c.Report.OutputDir = v
	}
}
