package rules

import (
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

// registry is the fixed rule set in evaluation order.
var registry = []Rule{
	reqIDFormatRule,
	uniqueIDsRule,
	sequenceGapsRule,
	requiredFieldsRule,
	missingTestLinksRule,
	riskCoverageMinRule,
	testIDFormatRule,
	orphanTestsRule,
	ambiguousTermsRule,
	testMissingInJUnitRule,
}

var ruleIndex = func() map[string]int {
	idx := make(map[string]int, len(registry))
	for i, r := range registry {
		idx[r.ID] = i
	}
	return idx
}()

// List returns the rules in evaluation order.
func List() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	return out
}

// Get returns a rule by ID (used by reports and the API).
func Get(id string) (Rule, bool) {
	i, ok := ruleIndex[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return Rule{}, false
	}
	return registry[i], true
}

// Evaluate runs every rule over m. Findings are grouped by rule in
// registry order and, within a rule, follow input order.
func (p *Policy) Evaluate(m *model.Model) ([]model.Finding, model.Counts) {
	var (
		all    []model.Finding
		counts model.Counts
	)
	for _, r := range registry {
		sev := p.Severity(r.ID)
		if !r.Configurable {
			sev = r.DefaultSeverity
		}
		ruleID := r.ID
		r.Eval(p, m, func(message, file string, line int, related ...string) {
			if related == nil {
				related = []string{}
			}
			all = append(all, model.Finding{
				RuleID:     ruleID,
				Severity:   sev,
				Message:    message,
				File:       file,
				Line:       line,
				RelatedIDs: related,
			})
			counts.Add(sev)
		})
	}
	return all, counts
}

// Evaluate compiles cfg and evaluates m in one call.
func Evaluate(m *model.Model, cfg Config) ([]model.Finding, model.Counts, error) {
	p, err := Compile(cfg)
	if err != nil {
		return nil, model.Counts{}, err
	}
	fs, counts := p.Evaluate(m)
	return fs, counts, nil
}
