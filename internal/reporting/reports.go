package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/codewithboateng/speclint/internal/model"
)

// Formats lists the report formats WriteReports writes; configuration
// validation accepts exactly these.
var Formats = []string{"cli", "markdown", "html", "json", "sarif"}

// WriteReports renders run in every requested format. "cli" prints to
// stdout; the rest are written under outDir. Written paths are returned in
// format order.
func WriteReports(run *model.Run, formats []string, outDir string, stdout io.Writer) ([]string, error) {
	var fileFormats bool
	for _, f := range formats {
		if strings.ToLower(f) != "cli" {
			fileFormats = true
		}
	}
	if fileFormats {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("create report dir: %w", err)
		}
	}

	var paths []string
	for _, f := range formats {
		var (
			path string
			err  error
		)
		switch strings.ToLower(f) {
		case "cli":
			PrintTable(stdout, run.Findings, run.Counts)
			continue
		case "markdown":
			path, err = WriteMarkdown(outDir, run)
		case "html":
			path, err = WriteHTML(outDir, run)
		case "json":
			path, err = WriteJSON(outDir, run)
		case "sarif":
			path, err = WriteSARIF(outDir, run)
		default:
			return paths, fmt.Errorf("unknown report format %q", f)
		}
		if err != nil {
			return paths, fmt.Errorf("write %s report: %w", f, err)
		}
		zap.L().Debug("report written", zap.String("format", f), zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}
