package coverage

import (
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

// NoRisk buckets requirements without a risk classification.
const NoRisk = "(none)"

// Summarize computes the traceability overview shown in report headers.
func Summarize(m *model.Model) model.Summary {
	s := model.Summary{
		Requirements: len(m.Requirements),
		Tests:        len(m.Tests),
		Risks:        map[string]model.RiskStat{},
	}
	for _, r := range m.Requirements {
		risk := strings.ToLower(strings.TrimSpace(r.Risk))
		if risk == "" {
			risk = NoRisk
		}
		st := s.Risks[risk]
		st.Requirements++
		st.Tests += len(r.Tests)
		if len(r.Tests) > 0 {
			st.Linked++
			s.LinkedRequirements++
		}
		s.Risks[risk] = st
	}
	if s.Requirements > 0 {
		s.LinkedRatio = float64(s.LinkedRequirements) / float64(s.Requirements)
	}

	// confirmation is only meaningful when an execution record was supplied
	if len(m.ConfirmedTests) > 0 {
		for _, t := range m.Tests {
			if _, ok := m.ConfirmedTests[t.ID]; ok {
				s.ConfirmedTests++
			} else {
				s.UnconfirmedTests++
			}
		}
	}
	return s
}
