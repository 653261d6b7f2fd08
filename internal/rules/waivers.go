package rules

import (
	"strings"
	"time"

	"github.com/codewithboateng/speclint/internal/model"
	"github.com/codewithboateng/speclint/internal/storage"
)

// ApplyWaivers filters out findings that match any waiver active at now.
// Returns (kept, waivedCount)
func ApplyWaivers(in []model.Finding, waivers []storage.Waiver, now time.Time) ([]model.Finding, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	out := make([]model.Finding, 0, len(in))
	waived := 0
nextFinding:
	for _, f := range in {
		for _, w := range waivers {
			if !w.ActiveAt(now) {
				continue
			}
			if !eqCI(f.RuleID, w.RuleID) {
				continue
			}
			if w.EntityID != "" && !relatesTo(f, w.EntityID) {
				continue
			}
			if w.PatternSub != "" &&
				!strings.Contains(strings.ToUpper(f.Message), strings.ToUpper(w.PatternSub)) {
				continue
			}
			// matched → waive it
			waived++
			continue nextFinding
		}
		out = append(out, f)
	}
	return out, waived
}

func relatesTo(f model.Finding, id string) bool {
	for _, r := range f.RelatedIDs {
		if eqCI(r, id) {
			return true
		}
	}
	return false
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
