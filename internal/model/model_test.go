package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTestCases(t *testing.T) {
	reqs := []Requirement{
		{ID: "REQ-002", Tests: []string{"TC-002", "TC-001"}, File: "a.yaml", Line: 3},
		{ID: "REQ-001", Tests: []string{"TC-001"}, File: "a.yaml", Line: 9},
		{ID: "REQ-001", Tests: []string{"TC-001"}, File: "b.yaml", Line: 1},
	}

	got := BuildTestCases(reqs)
	require.Len(t, got, 2)
	assert.Equal(t, TestCase{ID: "TC-002", Requirements: []string{"REQ-002"}, File: "a.yaml", Line: 3}, got[0])
	assert.Equal(t, TestCase{ID: "TC-001", Requirements: []string{"REQ-001", "REQ-002"}, File: "a.yaml", Line: 3}, got[1])
}

func TestNewModel(t *testing.T) {
	m := NewModel([]Requirement{{ID: "REQ-001", Tests: []string{"TC-001"}}}, []string{"TC-001", "TC-001", "TC-007"})
	assert.Len(t, m.Tests, 1)
	assert.Len(t, m.ConfirmedTests, 2)

	empty := NewModel(nil, nil)
	assert.Empty(t, empty.Tests)
	assert.Empty(t, empty.ConfirmedTests)
}

func TestParseSeverity(t *testing.T) {
	for in, want := range map[string]Severity{"error": SeverityError, " Warning ": SeverityWarning, "INFO": SeverityInfo} {
		got, err := ParseSeverity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseSeverity("high")
	assert.Error(t, err)

	assert.Greater(t, SeverityError.Rank(), SeverityWarning.Rank())
	assert.Greater(t, SeverityWarning.Rank(), SeverityInfo.Rank())
}

func TestCounts(t *testing.T) {
	fs := []Finding{
		{Severity: SeverityError}, {Severity: SeverityWarning}, {Severity: SeverityWarning}, {Severity: SeverityInfo},
	}
	c := CountFindings(fs)
	assert.Equal(t, Counts{Error: 1, Warning: 2, Info: 1}, c)
	assert.Equal(t, len(fs), c.Total())
	assert.Equal(t, 2, c.Get(SeverityWarning))
}

func TestRequirementLocation(t *testing.T) {
	assert.Equal(t, "docs/reqs.md:12", Requirement{File: "docs/reqs.md", Line: 12}.Location())
}
