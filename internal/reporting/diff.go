package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

type diffPayload struct {
	BaseID  string        `json:"base_id"`
	HeadID  string        `json:"head_id"`
	Summary diffSummary   `json:"summary"`
	New     []diffFinding `json:"new"`
	Removed []diffFinding `json:"removed"`
	Changed []diffChanged `json:"changed"`
}

type diffSummary struct {
	NewCount     int `json:"new"`
	RemovedCount int `json:"removed"`
	ChangedCount int `json:"changed"`
}

type diffFinding struct {
	RuleID     string   `json:"rule_id"`
	Severity   string   `json:"severity,omitempty"`
	Message    string   `json:"message,omitempty"`
	File       string   `json:"file,omitempty"`
	Line       int      `json:"line,omitempty"`
	RelatedIDs []string `json:"related_ids,omitempty"`
}

type diffChanged struct {
	Key     string      `json:"key"`
	Base    diffFinding `json:"base"`
	Head    diffFinding `json:"head"`
	Changed []string    `json:"fields_changed"`
}

// DiffRuns compares two runs by finding identity (rule, file, related ids).
func DiffRuns(base, head *model.Run) diffPayload {
	bm := indexFindings(base.Findings)
	hm := indexFindings(head.Findings)

	added := []diffFinding{}
	removed := []diffFinding{}
	changed := []diffChanged{}

	for k, hf := range hm {
		bf, ok := bm[k]
		if !ok {
			added = append(added, asDiff(hf))
			continue
		}
		var fields []string
		if bf.Severity != hf.Severity {
			fields = append(fields, "severity")
		}
		if strings.TrimSpace(bf.Message) != strings.TrimSpace(hf.Message) {
			fields = append(fields, "message")
		}
		if bf.Line != hf.Line {
			fields = append(fields, "line")
		}
		if len(fields) > 0 {
			changed = append(changed, diffChanged{Key: k, Base: asDiff(bf), Head: asDiff(hf), Changed: fields})
		}
	}
	for k, bf := range bm {
		if _, ok := hm[k]; !ok {
			removed = append(removed, asDiff(bf))
		}
	}

	sort.Slice(added, func(i, j int) bool { return lessDiff(added[i], added[j]) })
	sort.Slice(removed, func(i, j int) bool { return lessDiff(removed[i], removed[j]) })
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	return diffPayload{
		BaseID: base.ID,
		HeadID: head.ID,
		Summary: diffSummary{
			NewCount:     len(added),
			RemovedCount: len(removed),
			ChangedCount: len(changed),
		},
		New:     added,
		Removed: removed,
		Changed: changed,
	}
}

func WriteDiffJSON(outDir string, base, head *model.Run) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, "diff_"+base.ID+"__"+head.ID+".json")
	b, err := json.MarshalIndent(DiffRuns(base, head), "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

// indexFindings keys findings by identity. Repeated keys within one run get
// an ordinal suffix so no finding is lost.
func indexFindings(findings []model.Finding) map[string]model.Finding {
	out := make(map[string]model.Finding, len(findings))
	seen := map[string]int{}
	for _, f := range findings {
		k := keyOf(f)
		if n := seen[k]; n > 0 {
			seen[k] = n + 1
			k = k + "#" + strconv.Itoa(n)
		} else {
			seen[k] = 1
		}
		out[k] = f
	}
	return out
}

func keyOf(f model.Finding) string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(f.RuleID))
	sb.WriteByte('|')
	sb.WriteString(filepath.ToSlash(f.File))
	sb.WriteByte('|')
	sb.WriteString(strings.Join(f.RelatedIDs, ","))
	return sb.String()
}

func lessDiff(a, b diffFinding) bool {
	if a.RuleID != b.RuleID {
		return a.RuleID < b.RuleID
	}
	if a.File != b.File {
		return a.File < b.File
	}
	return a.Line < b.Line
}

func asDiff(f model.Finding) diffFinding {
	return diffFinding{
		RuleID:     f.RuleID,
		Severity:   string(f.Severity),
		Message:    f.Message,
		File:       f.File,
		Line:       f.Line,
		RelatedIDs: f.RelatedIDs,
	}
}
