package rules

import "github.com/codewithboateng/speclint/internal/model"

const (
	RuleReqIDFormat        = "REQ_ID_FORMAT"
	RuleUniqueIDs          = "UNIQUE_IDS"
	RuleSequenceGaps       = "SEQUENCE_GAPS"
	RuleRequiredFields     = "REQUIRED_FIELDS"
	RuleMissingTestLinks   = "MISSING_TEST_LINKS"
	RuleRiskCoverageMin    = "RISK_COVERAGE_MIN"
	RuleTestIDFormat       = "TEST_ID_FORMAT"
	RuleOrphanTests        = "ORPHAN_TESTS"
	RuleAmbiguousTerms     = "AMBIGUOUS_TERMS"
	RuleTestMissingInJUnit = "TEST_MISSING_IN_JUNIT"
)

// Rule represents a single check executed over the whole model.
type Rule struct {
	ID              string
	Summary         string
	DefaultSeverity model.Severity
	// Configurable is false for checks whose severity is fixed.
	Configurable bool
	// Eval inspects the model and reports each violation through emit.
	Eval func(p *Policy, m *model.Model, emit emitFunc)
}

type emitFunc func(message, file string, line int, related ...string)
