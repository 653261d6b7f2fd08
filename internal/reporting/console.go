package reporting

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/codewithboateng/speclint/internal/model"
)

// PrintTable writes findings as an aligned table followed by the summary
// line. Findings keep engine order.
func PrintTable(w io.Writer, findings []model.Finding, counts model.Counts) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings ✅")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SEVERITY\tRULE\tMESSAGE\tFILE\tLINE")
		for _, f := range findings {
			line := ""
			if f.Line > 0 {
				line = strconv.Itoa(f.Line)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Severity, f.RuleID, f.Message, f.File, line)
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(w, "\nSummary: %d errors, %d warnings, %d info\n", counts.Error, counts.Warning, counts.Info)
}
