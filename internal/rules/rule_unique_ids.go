package rules

import (
	"fmt"

	"github.com/codewithboateng/speclint/internal/model"
)

var uniqueIDsRule = Rule{
	ID:              RuleUniqueIDs,
	Summary:         "Requirement identifiers must be unique across all sources.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    true,
	Eval:            evalUniqueIDs,
}

func evalUniqueIDs(_ *Policy, m *model.Model, emit emitFunc) {
	firstSeen := make(map[string]string, len(m.Requirements))
	for _, r := range m.Requirements {
		if where, ok := firstSeen[r.ID]; ok {
			emit(fmt.Sprintf("Duplicate requirement ID '%s' also in %s", r.ID, where), r.File, r.Line, r.ID)
			continue
		}
		firstSeen[r.ID] = r.Location()
	}
}
