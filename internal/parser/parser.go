package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/codewithboateng/speclint/internal/model"
)

type Diagnostics struct {
	Warnings []string
}

// TableOptions control header detection for CSV and XLSX sources.
type TableOptions struct {
	Sheet            string // XLSX only: sheet name or 0-based index
	HeaderSearchRows int
	Columns          map[string][]string
}

// Options mirror the "inputs" configuration section.
type Options struct {
	TestsSeparator string
	TagsSeparator  string
	CSV            TableOptions
	XLSX           TableOptions
	YAMLFields     map[string][]string
	MDHeaderRegex  string
	MDRiskRegex    string
	MDTestsRegex   string
}

var defaultAliases = map[string][]string{
	"id":    {"id", "req id", "requirement id", "requirement"},
	"title": {"title", "name", "summary", "requirement title"},
	"risk":  {"risk", "severity", "priority"},
	"tests": {"tests", "test ids", "test cases", "test_cases"},
	"tags":  {"tags", "labels", "category"},
}

var logicalFields = []string{"id", "title", "risk", "tests", "tags"}

// Parser turns requirement sources into normalized requirements.
type Parser struct {
	opts      Options
	csvAlias  aliasMap
	xlsxAlias aliasMap
	yamlAlias aliasMap
	mdHeader  *regexp.Regexp
	mdRisk    *regexp.Regexp
	mdTests   *regexp.Regexp
}

// New validates opts and compiles the Markdown patterns.
func New(opts Options) (*Parser, error) {
	if opts.TestsSeparator == "" {
		opts.TestsSeparator = "|"
	}
	if opts.TagsSeparator == "" {
		opts.TagsSeparator = "|"
	}
	if opts.CSV.HeaderSearchRows <= 0 {
		opts.CSV.HeaderSearchRows = 1
	}
	if opts.XLSX.HeaderSearchRows <= 0 {
		opts.XLSX.HeaderSearchRows = 5
	}
	p := &Parser{
		opts:      opts,
		csvAlias:  buildAliasMap(opts.CSV.Columns),
		xlsxAlias: buildAliasMap(opts.XLSX.Columns),
		yamlAlias: buildAliasMap(opts.YAMLFields),
	}

	var err error
	if p.mdHeader, err = compileOr(opts.MDHeaderRegex, `^##\s+(REQ-[0-9]+)\s+(.*)$`); err != nil {
		return nil, fmt.Errorf("inputs.md.header_regex: %w", err)
	}
	if p.mdHeader.NumSubexp() < 2 {
		return nil, fmt.Errorf("inputs.md.header_regex: need 2 capture groups (id, title), have %d", p.mdHeader.NumSubexp())
	}
	if p.mdRisk, err = compileOr(opts.MDRiskRegex, `(?i)^risk:\s*(\w+)`); err != nil {
		return nil, fmt.Errorf("inputs.md.risk_regex: %w", err)
	}
	if p.mdTests, err = compileOr(opts.MDTestsRegex, `(?i)^tests:\s*(.*)$`); err != nil {
		return nil, fmt.Errorf("inputs.md.tests_regex: %w", err)
	}
	if p.mdRisk.NumSubexp() < 1 || p.mdTests.NumSubexp() < 1 {
		return nil, fmt.Errorf("inputs.md: risk_regex and tests_regex need 1 capture group")
	}
	return p, nil
}

// ParseFile dispatches on the file extension. Unsupported extensions yield
// no requirements and no error.
func (p *Parser) ParseFile(path string) ([]model.Requirement, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return p.parseYAML(path)
	case ".csv":
		return p.parseCSV(path)
	case ".md", ".markdown":
		return p.parseMarkdown(path)
	case ".xlsx":
		return p.parseXLSX(path)
	}
	return nil, nil
}

// ParseAll parses files in order; a file that fails is reported in the
// diagnostics and skipped.
func (p *Parser) ParseAll(files []string) ([]model.Requirement, Diagnostics) {
	var (
		reqs  []model.Requirement
		diags Diagnostics
	)
	for _, f := range files {
		rs, err := p.ParseFile(f)
		if err != nil {
			diags.Warnings = append(diags.Warnings, fmt.Sprintf("%s: %v", f, err))
			continue
		}
		reqs = append(reqs, rs...)
	}
	if len(reqs) == 0 {
		diags.Warnings = append(diags.Warnings, "no requirements found in discovered files")
	}
	return reqs, diags
}

func compileOr(pattern, fallback string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = fallback
	}
	return regexp.Compile(pattern)
}

// aliasMap maps a normalized header/key to its logical field.
type aliasMap map[string]string

func buildAliasMap(cfg map[string][]string) aliasMap {
	m := aliasMap{}
	for _, logical := range logicalFields {
		aliases, ok := cfg[logical]
		if !ok {
			aliases = defaultAliases[logical]
		}
		for _, a := range aliases {
			if k := norm(a); k != "" {
				if _, taken := m[k]; !taken {
					m[k] = logical
				}
			}
		}
	}
	return m
}

// norm lowercases and keeps only letters and digits.
func norm(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitList(s, sep string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// row is a logical-field view over one tabular record.
type row map[string]string

func (r row) requirement(p *Parser, file string, line int) (model.Requirement, bool) {
	if r["id"] == "" && r["title"] == "" && r["risk"] == "" && r["tests"] == "" && r["tags"] == "" {
		return model.Requirement{}, false
	}
	return model.Requirement{
		ID:    r["id"],
		Title: r["title"],
		Risk:  strings.ToLower(r["risk"]),
		Tests: splitList(r["tests"], p.opts.TestsSeparator),
		Tags:  splitList(r["tags"], p.opts.TagsSeparator),
		File:  file,
		Line:  line,
	}, true
}

// detectHeader scans the first maxRows records for one that names the id
// column and returns its index and the column of each logical field.
func detectHeader(records [][]string, maxRows int, aliases aliasMap) (int, map[string]int, error) {
	for i := 0; i < len(records) && i < maxRows; i++ {
		cols := map[string]int{}
		for c, cell := range records[i] {
			if logical, ok := aliases[norm(cell)]; ok {
				if _, dup := cols[logical]; !dup {
					cols[logical] = c
				}
			}
		}
		if _, ok := cols["id"]; ok {
			return i, cols, nil
		}
	}
	return 0, nil, fmt.Errorf("could not detect header row with an id column (searched first %d rows)", maxRows)
}

func cellsToRow(record []string, cols map[string]int) row {
	r := row{}
	for logical, c := range cols {
		if c < len(record) {
			r[logical] = strings.TrimSpace(record[c])
		}
	}
	return r
}
