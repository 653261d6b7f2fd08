package rules

import (
	"math/big"
	"regexp"
	"sort"
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

var trailingDigitsRe = regexp.MustCompile(`(\d+)$`)

var sequenceGapsRule = Rule{
	ID:              RuleSequenceGaps,
	Summary:         "Numeric suffixes of requirement identifiers should form a contiguous sequence.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    true,
	Eval:            evalSequenceGaps,
}

func evalSequenceGaps(_ *Policy, m *model.Model, emit emitFunc) {
	seen := map[string]*big.Int{}
	for _, r := range m.Requirements {
		mm := trailingDigitsRe.FindStringSubmatch(r.ID)
		if mm == nil {
			continue
		}
		n, ok := new(big.Int).SetString(mm[1], 10)
		if !ok {
			continue
		}
		seen[n.String()] = n
	}
	nums := make([]*big.Int, 0, len(seen))
	for _, n := range seen {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i].Cmp(nums[j]) < 0 })

	gaps := findGaps(nums)
	if len(gaps) == 0 {
		return
	}
	emit("Sequence gaps detected: "+strings.Join(gaps, ", "), "", 0)
}

// findGaps describes the missing integers between adjacent sorted values.
// Suffixes are arbitrary precision, so ids beyond int64 still take part.
func findGaps(nums []*big.Int) []string {
	var (
		gaps []string
		one  = big.NewInt(1)
		two  = big.NewInt(2)
	)
	for i := 0; i+1 < len(nums); i++ {
		a, b := nums[i], nums[i+1]
		diff := new(big.Int).Sub(b, a)
		switch diff.Cmp(two) {
		case 0:
			gaps = append(gaps, new(big.Int).Add(a, one).String())
		case 1:
			gaps = append(gaps, new(big.Int).Add(a, one).String()+"-"+new(big.Int).Sub(b, one).String())
		}
	}
	return gaps
}
