package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

type SettingKind int

const (
	// SeverityOnly is a rule configured as a bare severity string.
	SeverityOnly SettingKind = iota
	// Structured is a rule configured as an object with severity and parameters.
	Structured
)

// Setting is the per-rule configuration as written by the user.
type Setting struct {
	Kind      SettingKind
	Severity  string
	Fields    []string
	MinTests  map[string]int
	Languages []string
}

// Config is the engine input: identifier patterns plus per-rule settings.
type Config struct {
	RequirementIDPattern string
	TestIDPattern        string
	Rules                map[string]Setting
}

var defaultRequiredFields = []string{"id", "title", "risk"}

var knownFields = map[string]bool{"id": true, "title": true, "risk": true, "tests": true, "tags": true}

// Policy is a Config resolved once into uniform severities and parameters.
type Policy struct {
	reqID          *regexp.Regexp
	testID         *regexp.Regexp
	reqIDPattern   string
	testIDPattern  string
	severities     map[string]model.Severity
	requiredFields []string
	minTests       map[string]int
	languages      []string
	ignored        []string
}

// Compile validates cfg and resolves it. The returned error is a fatal
// configuration error, never a finding.
func Compile(cfg Config) (*Policy, error) {
	p := &Policy{
		severities:     make(map[string]model.Severity, len(registry)),
		requiredFields: defaultRequiredFields,
		minTests:       map[string]int{},
	}

	var err error
	if p.reqID, err = compileID(cfg.RequirementIDPattern); err != nil {
		return nil, fmt.Errorf("id_formats.requirement: %w", err)
	}
	p.reqIDPattern = cfg.RequirementIDPattern
	if p.testID, err = compileID(cfg.TestIDPattern); err != nil {
		return nil, fmt.Errorf("id_formats.test: %w", err)
	}
	p.testIDPattern = cfg.TestIDPattern

	for _, r := range registry {
		p.severities[r.ID] = r.DefaultSeverity
	}

	names := make([]string, 0, len(cfg.Rules))
	for name := range cfg.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := cfg.Rules[name]
		r, ok := Get(name)
		if !ok || !r.Configurable {
			p.ignored = append(p.ignored, name)
			continue
		}
		sev, err := resolveSeverity(s)
		if err != nil {
			return nil, fmt.Errorf("rules.%s: %w", name, err)
		}
		p.severities[r.ID] = sev
		if s.Kind != Structured {
			continue
		}
		switch r.ID {
		case RuleRequiredFields:
			if s.Fields != nil {
				if p.requiredFields, err = resolveFields(s.Fields); err != nil {
					return nil, fmt.Errorf("rules.%s.fields: %w", name, err)
				}
			}
		case RuleRiskCoverageMin:
			if p.minTests, err = resolveMinTests(s.MinTests); err != nil {
				return nil, fmt.Errorf("rules.%s.min_tests: %w", name, err)
			}
		case RuleAmbiguousTerms:
			if p.languages, err = resolveLanguages(s.Languages); err != nil {
				return nil, fmt.Errorf("rules.%s.languages: %w", name, err)
			}
		}
	}
	return p, nil
}

// Ignored lists configured rule keys that are not configurable rules.
func (p *Policy) Ignored() []string { return p.ignored }

// Severity returns the severity a rule emits with.
func (p *Policy) Severity(ruleID string) model.Severity {
	if s, ok := p.severities[ruleID]; ok {
		return s
	}
	return model.SeverityWarning
}

func resolveSeverity(s Setting) (model.Severity, error) {
	if s.Kind == Structured && strings.TrimSpace(s.Severity) == "" {
		return model.SeverityWarning, nil
	}
	return model.ParseSeverity(s.Severity)
}

func compileID(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, err
	}
	// identifiers must match in full
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

func resolveFields(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, f := range in {
		f = strings.ToLower(strings.TrimSpace(f))
		if !knownFields[f] {
			return nil, fmt.Errorf("unknown field %q (want id|title|risk|tests|tags)", f)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func resolveMinTests(in map[string]int) (map[string]int, error) {
	out := make(map[string]int, len(in))
	for level, n := range in {
		key := strings.ToLower(strings.TrimSpace(level))
		if n < 0 {
			return nil, fmt.Errorf("risk level %q: negative minimum %d", level, n)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("risk level %q configured more than once", key)
		}
		out[key] = n
	}
	return out, nil
}

func resolveLanguages(in []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, l := range in {
		l = strings.ToLower(strings.TrimSpace(l))
		if _, ok := ambiguityLexicons[l]; !ok {
			return nil, fmt.Errorf("unsupported language %q", l)
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out, nil
}
