package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/speclint/internal/model"
	"github.com/codewithboateng/speclint/internal/rules"
)

func sampleRun() *model.Run {
	findings := []model.Finding{
		{RuleID: rules.RuleUniqueIDs, Severity: model.SeverityError, Message: "Duplicate requirement ID 'REQ-001' also in a.md:3", File: "a.md", Line: 9, RelatedIDs: []string{"REQ-001"}},
		{RuleID: rules.RuleSequenceGaps, Severity: model.SeverityWarning, Message: "Sequence gaps detected: 2", RelatedIDs: []string{}},
		{RuleID: rules.RuleAmbiguousTerms, Severity: model.SeverityInfo, Message: "Ambiguous terms in REQ-003: 'a | b' (en: \"may\")", File: "docs/reqs.csv", Line: 4, RelatedIDs: []string{"REQ-003"}},
	}
	return &model.Run{
		ID:        "run-test",
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Source:    "docs",
		Version:   model.Version,
		Summary: model.Summary{
			Requirements:       3,
			Tests:              2,
			LinkedRequirements: 2,
			LinkedRatio:        2.0 / 3.0,
		},
		Findings: findings,
		Counts:   model.CountFindings(findings),
		Waived:   2,
	}
}

func TestRenderMarkdown(t *testing.T) {
	b, err := RenderMarkdown(sampleRun())
	require.NoError(t, err)
	md := string(b)

	assert.True(t, strings.HasPrefix(md, "# SpecLint Report\n"))
	assert.Contains(t, md, "**Summary:** 1 errors, 1 warnings, 1 info.")
	assert.Contains(t, md, "Linked: 2 (67%) · Waived findings: 2\n")
	assert.Contains(t, md, "| error | UNIQUE_IDS | Duplicate requirement ID 'REQ-001' also in a.md:3 | a.md | 9 |\n")
	assert.Contains(t, md, "| warning | SEQUENCE_GAPS | Sequence gaps detected: 2 |  |  |\n")
	assert.Contains(t, md, `'a \| b'`)
	// header plus one row per finding
	assert.Equal(t, 4, strings.Count(md, "\n| "))
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	run := sampleRun()
	PrintTable(&buf, run.Findings, run.Counts)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "SEVERITY"))
	assert.Contains(t, lines[1], "UNIQUE_IDS")
	assert.Contains(t, lines[1], "a.md")
	assert.Contains(t, out, "Summary: 1 errors, 1 warnings, 1 info\n")

	buf.Reset()
	PrintTable(&buf, nil, model.Counts{})
	assert.Contains(t, buf.String(), "No findings")
	assert.Contains(t, buf.String(), "Summary: 0 errors, 0 warnings, 0 info")
}

func TestBuildSARIF(t *testing.T) {
	log := BuildSARIF(sampleRun().Findings, "1.0")

	require.Len(t, log.Runs, 1)
	assert.Equal(t, "2.1.0", log.Version)
	assert.Len(t, log.Runs[0].Tool.Driver.Rules, len(rules.List()))

	res := log.Runs[0].Results
	require.Len(t, res, 3)
	assert.Equal(t, "error", res[0].Level)
	assert.Equal(t, "a.md", res[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 9, res[0].Locations[0].PhysicalLocation.Region.StartLine)
	assert.Equal(t, "warning", res[1].Level)
	assert.Empty(t, res[1].Locations)
	assert.Equal(t, "note", res[2].Level)
}

func TestToURI(t *testing.T) {
	assert.Equal(t, "docs/reqs.md", toURI("./docs/reqs.md"))
	assert.Equal(t, "docs/reqs.md", toURI("../../docs/reqs.md"))
	assert.Equal(t, "", toURI("  "))
}

func TestWriteReports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	var stdout bytes.Buffer
	run := sampleRun()

	paths, err := WriteReports(run, []string{"cli", "markdown", "html", "json", "sarif"}, dir, &stdout)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, markdownFile),
		filepath.Join(dir, htmlFile),
		filepath.Join(dir, jsonFile),
		filepath.Join(dir, sarifFile),
	}, paths)
	assert.Contains(t, stdout.String(), "Summary: 1 errors, 1 warnings, 1 info")

	html, err := os.ReadFile(filepath.Join(dir, htmlFile))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>SpecLint Report</h1>")
	assert.Contains(t, string(html), "<table>")
	assert.Contains(t, string(html), "<td>UNIQUE_IDS</td>")

	raw, err := os.ReadFile(filepath.Join(dir, jsonFile))
	require.NoError(t, err)
	var got model.Run
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, *run, got)

	raw, err = os.ReadFile(filepath.Join(dir, sarifFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version": "2.1.0"`)
}

func TestWriteReports_CLIOnlyCreatesNoDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	var stdout bytes.Buffer

	paths, err := WriteReports(sampleRun(), []string{"cli"}, dir, &stdout)
	require.NoError(t, err)
	assert.Empty(t, paths)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteReports_UnknownFormat(t *testing.T) {
	_, err := WriteReports(sampleRun(), []string{"pdf"}, t.TempDir(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")

	_, err = WriteReports(sampleRun(), []string{"md"}, t.TempDir(), &bytes.Buffer{})
	assert.ErrorContains(t, err, `unknown report format "md"`)
}

func TestDiffRuns(t *testing.T) {
	base := &model.Run{ID: "run-a", Findings: []model.Finding{
		{RuleID: rules.RuleMissingTestLinks, Severity: model.SeverityError, Message: "REQ-001 has no linked tests", File: "a.md", Line: 3, RelatedIDs: []string{"REQ-001"}},
		{RuleID: rules.RuleMissingTestLinks, Severity: model.SeverityError, Message: "REQ-002 has no linked tests", File: "a.md", Line: 8, RelatedIDs: []string{"REQ-002"}},
		{RuleID: rules.RuleSequenceGaps, Severity: model.SeverityWarning, Message: "Sequence gaps detected: 2", RelatedIDs: []string{}},
	}}
	head := &model.Run{ID: "run-b", Findings: []model.Finding{
		{RuleID: rules.RuleMissingTestLinks, Severity: model.SeverityError, Message: "REQ-001 has no linked tests", File: "a.md", Line: 5, RelatedIDs: []string{"REQ-001"}},
		{RuleID: rules.RuleSequenceGaps, Severity: model.SeverityWarning, Message: "Sequence gaps detected: 2, 4", RelatedIDs: []string{}},
		{RuleID: rules.RuleOrphanTests, Severity: model.SeverityWarning, Message: "Test 'TC-9' not linked to any requirement", RelatedIDs: []string{"TC-9"}},
	}}

	d := DiffRuns(base, head)
	assert.Equal(t, diffSummary{NewCount: 1, RemovedCount: 1, ChangedCount: 2}, d.Summary)
	assert.Equal(t, rules.RuleOrphanTests, d.New[0].RuleID)
	assert.Equal(t, []string{"REQ-002"}, d.Removed[0].RelatedIDs)

	require.Len(t, d.Changed, 2)
	assert.Equal(t, []string{"line"}, d.Changed[0].Changed)
	assert.Equal(t, []string{"message"}, d.Changed[1].Changed)

	dir := t.TempDir()
	path, err := WriteDiffJSON(dir, base, head)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "diff_run-a__run-b.json"), path)
}
