package rules

import (
	"sort"
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

// The severity is fixed: a missing execution record must not fail a build
// unless an owner changes this rule.
var testMissingInJUnitRule = Rule{
	ID:              RuleTestMissingInJUnit,
	Summary:         "Declared tests should appear in the supplied JUnit execution reports.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    false,
	Eval:            evalTestMissingInJUnit,
}

func evalTestMissingInJUnit(_ *Policy, m *model.Model, emit emitFunc) {
	if len(m.ConfirmedTests) == 0 {
		return
	}
	declared := map[string]struct{}{}
	for _, r := range m.Requirements {
		for _, t := range r.Tests {
			declared[t] = struct{}{}
		}
	}
	var missing []string
	for t := range declared {
		if _, ok := m.ConfirmedTests[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return
	}
	sort.Strings(missing)
	emit("Declared tests not found in JUnit: "+strings.Join(missing, ", "), "", 0, missing...)
}
