package rules

import (
	"fmt"
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

var riskCoverageMinRule = Rule{
	ID:              RuleRiskCoverageMin,
	Summary:         "Requirements must link the minimum number of tests for their risk level.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    true,
	Eval:            evalRiskCoverageMin,
}

func evalRiskCoverageMin(p *Policy, m *model.Model, emit emitFunc) {
	for _, r := range m.Requirements {
		risk := strings.ToLower(strings.TrimSpace(r.Risk))
		if risk == "" {
			continue
		}
		need, ok := p.minTests[risk]
		if !ok || len(r.Tests) >= need {
			continue
		}
		emit(fmt.Sprintf("%s (risk=%s) requires ≥%d tests, found %d", r.ID, r.Risk, need, len(r.Tests)), r.File, r.Line, r.ID)
	}
}
