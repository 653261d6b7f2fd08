package shared

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/speclint/internal/reporting"
	"github.com/codewithboateng/speclint/internal/rules"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Len(t, c.Include, 5)
	assert.Equal(t, "REQ-[0-9]{3,}", c.IDFormats.Requirement)
	assert.Equal(t, RuleSetting{Bare: true, Severity: "error"}, c.Rules["UNIQUE_IDS"])
	assert.Equal(t, map[string]int{"high": 2, "medium": 1, "low": 1}, c.Rules["RISK_COVERAGE_MIN"].MinTests)
	assert.Equal(t, []string{"en", "pl"}, c.Rules["AMBIGUOUS_TERMS"].Languages)
	assert.Equal(t, "TC-", c.JUnit.TestIDPrefix)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_YAMLMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, ".speclint.yml", `
id_formats:
  requirement: "SRS-[0-9]+"
rules:
  SEQUENCE_GAPS: info
  RISK_COVERAGE_MIN:
    min_tests: {high: 3}
report:
  formats: [json]
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "SRS-[0-9]+", c.IDFormats.Requirement)
	assert.Equal(t, "TC-[0-9]{3,}", c.IDFormats.Test)
	assert.Equal(t, RuleSetting{Bare: true, Severity: "info"}, c.Rules["SEQUENCE_GAPS"])
	assert.Equal(t, "error", c.Rules["RISK_COVERAGE_MIN"].Severity)
	assert.Equal(t, map[string]int{"high": 3, "medium": 1, "low": 1}, c.Rules["RISK_COVERAGE_MIN"].MinTests)
	assert.Equal(t, RuleSetting{Bare: true, Severity: "error"}, c.Rules["UNIQUE_IDS"])
	assert.Equal(t, []string{"json"}, c.Report.Formats)
	assert.Equal(t, "build/speclint", c.Report.OutputDir)
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeConfig(t, ".speclint.toml", `
include = ["specs/**/*.md"]

[rules]
UNIQUE_IDS = "warning"

[rules.AMBIGUOUS_TERMS]
languages = ["en"]

[junit]
paths = ["reports/*.xml"]
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"specs/**/*.md"}, c.Include)
	assert.Equal(t, RuleSetting{Bare: true, Severity: "warning"}, c.Rules["UNIQUE_IDS"])
	assert.Equal(t, []string{"en"}, c.Rules["AMBIGUOUS_TERMS"].Languages)
	assert.Equal(t, "warning", c.Rules["AMBIGUOUS_TERMS"].Severity)
	assert.Equal(t, []string{"reports/*.xml"}, c.JUnit.Paths)
	assert.Equal(t, "TC-", c.JUnit.TestIDPrefix)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"bad log level", "a.yml", "logging: {level: verbose}\n", "invalid config"},
		{"unknown report format", "b.yml", "report: {formats: [pdf]}\n", "invalid config"},
		{"rule as list", "c.yml", "rules: {UNIQUE_IDS: [a, b]}\n", "rule must be a severity string or a mapping"},
		{"malformed yaml", "d.yml", "rules: [\n", "parse config"},
		{"malformed toml", "e.toml", "rules = [\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestValidate_ReportFormats(t *testing.T) {
	c := DefaultConfig()
	c.Report.Formats = append([]string(nil), reporting.Formats...)
	assert.NoError(t, c.Validate())
	c.Report.Formats = []string{"JSON", "Sarif"}
	assert.NoError(t, c.Validate())

	for _, f := range []string{"md", "pdf", ""} {
		c.Report.Formats = []string{"cli", f}
		err := c.Validate()
		require.Error(t, err, f)
		assert.Contains(t, err.Error(), "report_format")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SPECLINT_DB_DSN", "/var/lib/speclint/runs.db")
	t.Setenv("SPECLINT_LOG_LEVEL", "debug")
	t.Setenv("SPECLINT_OUT_DIR", "out")

	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/speclint/runs.db", c.Database.DSN)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "out", c.Report.OutputDir)
}

func TestResolveConfigForPath(t *testing.T) {
	root := t.TempDir()

	_, src, err := ResolveConfigForPath(root, "")
	require.NoError(t, err)
	assert.Equal(t, "built-in defaults", src)

	found := filepath.Join(root, ".speclint.toml")
	require.NoError(t, os.WriteFile(found, []byte("exclude = []\n"), 0o644))
	c, src, err := ResolveConfigForPath(root, "")
	require.NoError(t, err)
	assert.Equal(t, found, src)
	assert.Empty(t, c.Exclude)

	explicit := writeConfig(t, "custom.yml", "id_formats: {test: \"T[0-9]+\"}\n")
	c, src, err = ResolveConfigForPath(root, explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, src)
	assert.Equal(t, "T[0-9]+", c.IDFormats.Test)
}

func TestRulesConfig_CompilesDefaults(t *testing.T) {
	rc := DefaultConfig().RulesConfig()
	assert.Equal(t, rules.SeverityOnly, rc.Rules["UNIQUE_IDS"].Kind)
	assert.Equal(t, rules.Structured, rc.Rules["REQUIRED_FIELDS"].Kind)

	p, err := rules.Compile(rc)
	require.NoError(t, err)
	assert.Equal(t, []string{"DOC_METADATA"}, p.Ignored())
}

func TestDump_RoundTrip(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, "in.yml", "rules: {SEQUENCE_GAPS: info}\n"))
	require.NoError(t, err)

	b, err := c.Dump()
	require.NoError(t, err)
	assert.Contains(t, string(b), "SEQUENCE_GAPS: info")

	again, err := LoadConfig(writeConfig(t, "dump.yml", string(b)))
	require.NoError(t, err)
	assert.Equal(t, c.Rules, again.Rules)
	assert.Equal(t, c.IDFormats, again.IDFormats)
	assert.Equal(t, c.Include, again.Include)
}

func TestParserOptions(t *testing.T) {
	o := DefaultConfig().ParserOptions()
	assert.Equal(t, "|", o.TestsSeparator)
	assert.Equal(t, "0", o.XLSX.Sheet)
	assert.Equal(t, 5, o.XLSX.HeaderSearchRows)
	assert.Contains(t, o.YAMLFields["tests"], "testCases")
}
