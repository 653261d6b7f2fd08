package rules

import (
	"fmt"

	"github.com/codewithboateng/speclint/internal/model"
)

// Tests derived from requirement links always have a referrer; this fires
// only for callers that build test cases from other sources.
var orphanTestsRule = Rule{
	ID:              RuleOrphanTests,
	Summary:         "Every test should be linked to at least one requirement.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    true,
	Eval:            evalOrphanTests,
}

func evalOrphanTests(_ *Policy, m *model.Model, emit emitFunc) {
	for _, t := range m.Tests {
		if len(t.Requirements) == 0 {
			emit(fmt.Sprintf("Test '%s' not linked to any requirement", t.ID), t.File, t.Line, t.ID)
		}
	}
}
