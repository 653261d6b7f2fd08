package rules

import (
	"fmt"

	"github.com/codewithboateng/speclint/internal/model"
)

var reqIDFormatRule = Rule{
	ID:              RuleReqIDFormat,
	Summary:         "Requirement identifiers must match the configured pattern.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    true,
	Eval:            evalReqIDFormat,
}

func evalReqIDFormat(p *Policy, m *model.Model, emit emitFunc) {
	if p.reqID == nil {
		return
	}
	for _, r := range m.Requirements {
		if !p.reqID.MatchString(r.ID) {
			emit(fmt.Sprintf("Requirement ID '%s' does not match pattern %s", r.ID, p.reqIDPattern), r.File, r.Line, r.ID)
		}
	}
}
