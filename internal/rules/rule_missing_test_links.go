package rules

import "github.com/codewithboateng/speclint/internal/model"

var missingTestLinksRule = Rule{
	ID:              RuleMissingTestLinks,
	Summary:         "Every requirement should link at least one test.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    true,
	Eval:            evalMissingTestLinks,
}

func evalMissingTestLinks(_ *Policy, m *model.Model, emit emitFunc) {
	for _, r := range m.Requirements {
		if len(r.Tests) == 0 {
			emit(r.ID+" has no linked tests", r.File, r.Line, r.ID)
		}
	}
}
