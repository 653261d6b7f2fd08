package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/codewithboateng/speclint/internal/model"
	"github.com/codewithboateng/speclint/internal/storage"
)

func TestApplyWaivers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	revoked := now.Add(-time.Hour)

	findings := []model.Finding{
		{RuleID: RuleMissingTestLinks, Severity: model.SeverityError, Message: "REQ-001 has no linked tests", RelatedIDs: []string{"REQ-001"}},
		{RuleID: RuleMissingTestLinks, Severity: model.SeverityError, Message: "REQ-002 has no linked tests", RelatedIDs: []string{"REQ-002"}},
		{RuleID: RuleSequenceGaps, Severity: model.SeverityWarning, Message: "Sequence gaps detected: 3-4", RelatedIDs: []string{}},
		{RuleID: RuleOrphanTests, Severity: model.SeverityWarning, Message: "Test 'TC-9' not linked to any requirement", RelatedIDs: []string{"TC-9"}},
	}

	tests := []struct {
		name    string
		waivers []storage.Waiver
		kept    []string
		waived  int
	}{
		{
			name:   "none",
			kept:   []string{"REQ-001 has no linked tests", "REQ-002 has no linked tests", "Sequence gaps detected: 3-4", "Test 'TC-9' not linked to any requirement"},
			waived: 0,
		},
		{
			name:    "entity scoped",
			waivers: []storage.Waiver{{RuleID: "missing_test_links", EntityID: "req-002", ExpiresAt: now.Add(time.Hour)}},
			kept:    []string{"REQ-001 has no linked tests", "Sequence gaps detected: 3-4", "Test 'TC-9' not linked to any requirement"},
			waived:  1,
		},
		{
			name:    "whole rule",
			waivers: []storage.Waiver{{RuleID: RuleMissingTestLinks, ExpiresAt: now.Add(time.Hour)}},
			kept:    []string{"Sequence gaps detected: 3-4", "Test 'TC-9' not linked to any requirement"},
			waived:  2,
		},
		{
			name:    "message pattern",
			waivers: []storage.Waiver{{RuleID: RuleSequenceGaps, PatternSub: "GAPS DETECTED", ExpiresAt: now.Add(time.Hour)}},
			kept:    []string{"REQ-001 has no linked tests", "REQ-002 has no linked tests", "Test 'TC-9' not linked to any requirement"},
			waived:  1,
		},
		{
			name: "expired and revoked are inactive",
			waivers: []storage.Waiver{
				{RuleID: RuleOrphanTests, ExpiresAt: now.Add(-time.Minute)},
				{RuleID: RuleSequenceGaps, ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked},
			},
			kept:   []string{"REQ-001 has no linked tests", "REQ-002 has no linked tests", "Sequence gaps detected: 3-4", "Test 'TC-9' not linked to any requirement"},
			waived: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, waived := ApplyWaivers(findings, tt.waivers, now)
			var msgs []string
			for _, f := range kept {
				msgs = append(msgs, f.Message)
			}
			assert.Equal(t, tt.kept, msgs)
			assert.Equal(t, tt.waived, waived)
		})
	}
}
