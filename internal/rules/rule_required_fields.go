package rules

import (
	"fmt"
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

var requiredFieldsRule = Rule{
	ID:              RuleRequiredFields,
	Summary:         "Requirements must carry every configured field.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    true,
	Eval:            evalRequiredFields,
}

func evalRequiredFields(p *Policy, m *model.Model, emit emitFunc) {
	for _, r := range m.Requirements {
		var missing []string
		for _, f := range p.requiredFields {
			if fieldEmpty(r, f) {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			emit(fmt.Sprintf("Missing fields [%s] for %s", strings.Join(missing, ", "), r.ID), r.File, r.Line, r.ID)
		}
	}
}

func fieldEmpty(r model.Requirement, field string) bool {
	switch field {
	case "id":
		return strings.TrimSpace(r.ID) == ""
	case "title":
		return strings.TrimSpace(r.Title) == ""
	case "risk":
		return strings.TrimSpace(r.Risk) == ""
	case "tests":
		return len(r.Tests) == 0
	case "tags":
		return len(r.Tags) == 0
	}
	return false
}
