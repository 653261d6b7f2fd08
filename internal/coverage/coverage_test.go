package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codewithboateng/speclint/internal/model"
)

func TestSummarize(t *testing.T) {
	reqs := []model.Requirement{
		{ID: "REQ-001", Risk: "High", Tests: []string{"TC-001", "TC-002"}},
		{ID: "REQ-002", Risk: "high", Tests: nil},
		{ID: "REQ-003", Tests: []string{"TC-002"}},
	}
	m := model.NewModel(reqs, []string{"TC-001"})

	s := Summarize(&m)

	assert.Equal(t, 3, s.Requirements)
	assert.Equal(t, 2, s.Tests)
	assert.Equal(t, 2, s.LinkedRequirements)
	assert.InDelta(t, 2.0/3.0, s.LinkedRatio, 1e-9)
	assert.Equal(t, 1, s.ConfirmedTests)
	assert.Equal(t, 1, s.UnconfirmedTests)
	assert.Equal(t, model.RiskStat{Requirements: 2, Linked: 1, Tests: 2}, s.Risks["high"])
	assert.Equal(t, model.RiskStat{Requirements: 1, Linked: 1, Tests: 1}, s.Risks[NoRisk])
}

func TestSummarize_NoExecutionRecord(t *testing.T) {
	m := model.NewModel([]model.Requirement{{ID: "REQ-001", Tests: []string{"TC-001"}}}, nil)

	s := Summarize(&m)

	assert.Zero(t, s.ConfirmedTests)
	assert.Zero(t, s.UnconfirmedTests)
}

func TestSummarize_Empty(t *testing.T) {
	m := model.NewModel(nil, nil)

	s := Summarize(&m)

	assert.Zero(t, s.Requirements)
	assert.Zero(t, s.LinkedRatio)
	assert.Empty(t, s.Risks)
}
