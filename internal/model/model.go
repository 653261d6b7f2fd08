package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const Version = "1.0"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity accepts error|warning|info (case-insensitive).
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	}
	return "", fmt.Errorf("unknown severity %q (want error|warning|info)", s)
}

// Rank orders severities for filtering: error > warning > info.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	default:
		return 1
	}
}

type Requirement struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Risk  string   `json:"risk,omitempty"`
	Tests []string `json:"tests,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	File  string   `json:"file,omitempty"`
	Line  int      `json:"line,omitempty"`
}

// Location renders file:line the way findings reference a first sighting.
func (r Requirement) Location() string {
	return fmt.Sprintf("%s:%d", r.File, r.Line)
}

type TestCase struct {
	ID           string   `json:"id"`
	Requirements []string `json:"requirements"`
	File         string   `json:"file,omitempty"`
	Line         int      `json:"line,omitempty"`
}

type Model struct {
	Requirements   []Requirement       `json:"requirements"`
	Tests          []TestCase          `json:"tests"`
	ConfirmedTests map[string]struct{} `json:"-"`
}

// BuildTestCases derives one TestCase per distinct test id, in first-seen
// order, carrying the sorted set of requirement ids that reference it. The
// location is that of the first referencing requirement.
func BuildTestCases(reqs []Requirement) []TestCase {
	index := map[string]int{}
	refs := map[string]map[string]struct{}{}
	var out []TestCase
	for _, r := range reqs {
		for _, t := range r.Tests {
			if _, ok := index[t]; !ok {
				index[t] = len(out)
				out = append(out, TestCase{ID: t, File: r.File, Line: r.Line})
				refs[t] = map[string]struct{}{}
			}
			refs[t][r.ID] = struct{}{}
		}
	}
	for i := range out {
		ids := make([]string, 0, len(refs[out[i].ID]))
		for id := range refs[out[i].ID] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[i].Requirements = ids
	}
	return out
}

// NewModel builds a model from parsed requirements and the confirmed test ids
// collected from execution reports (nil when none were configured).
func NewModel(reqs []Requirement, confirmed []string) Model {
	m := Model{
		Requirements:   reqs,
		Tests:          BuildTestCases(reqs),
		ConfirmedTests: make(map[string]struct{}, len(confirmed)),
	}
	for _, id := range confirmed {
		m.ConfirmedTests[id] = struct{}{}
	}
	return m
}

type Finding struct {
	RuleID     string   `json:"rule_id"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	File       string   `json:"file,omitempty"`
	Line       int      `json:"line,omitempty"`
	RelatedIDs []string `json:"related_ids"`
}

type Counts struct {
	Error   int `json:"error"`
	Warning int `json:"warning"`
	Info    int `json:"info"`
}

func (c *Counts) Add(s Severity) {
	switch s {
	case SeverityError:
		c.Error++
	case SeverityWarning:
		c.Warning++
	case SeverityInfo:
		c.Info++
	}
}

func (c Counts) Get(s Severity) int {
	switch s {
	case SeverityError:
		return c.Error
	case SeverityWarning:
		return c.Warning
	case SeverityInfo:
		return c.Info
	}
	return 0
}

func (c Counts) Total() int { return c.Error + c.Warning + c.Info }

// CountFindings recomputes counts from the severities findings carry.
func CountFindings(fs []Finding) Counts {
	var c Counts
	for _, f := range fs {
		c.Add(f.Severity)
	}
	return c
}

// Run is one persisted scan.
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Source       string    `json:"source,omitempty"`
	ConfigSource string    `json:"config_source,omitempty"`
	Version      string    `json:"version,omitempty"`

	Summary  Summary   `json:"summary"`
	Findings []Finding `json:"findings"`
	Counts   Counts    `json:"counts"`
	Waived   int       `json:"waived,omitempty"`
}

// Summary is the traceability overview stored with a run.
type Summary struct {
	Requirements       int                 `json:"requirements"`
	Tests              int                 `json:"tests"`
	LinkedRequirements int                 `json:"linked_requirements"`
	LinkedRatio        float64             `json:"linked_ratio"`
	ConfirmedTests     int                 `json:"confirmed_tests"`
	UnconfirmedTests   int                 `json:"unconfirmed_tests"`
	Risks              map[string]RiskStat `json:"risks,omitempty"`
}

type RiskStat struct {
	Requirements int `json:"requirements"`
	Linked       int `json:"linked"`
	Tests        int `json:"tests"`
}
