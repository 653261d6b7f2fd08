package rules

import (
	"fmt"

	"github.com/codewithboateng/speclint/internal/model"
)

var testIDFormatRule = Rule{
	ID:              RuleTestIDFormat,
	Summary:         "Test identifiers must match the configured pattern.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    true,
	Eval:            evalTestIDFormat,
}

func evalTestIDFormat(p *Policy, m *model.Model, emit emitFunc) {
	if p.testID == nil {
		return
	}
	for _, t := range m.Tests {
		if !p.testID.MatchString(t.ID) {
			emit(fmt.Sprintf("Test ID '%s' does not match pattern %s", t.ID, p.testIDPattern), t.File, t.Line, t.ID)
		}
	}
}
