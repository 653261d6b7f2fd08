package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/codewithboateng/speclint/internal/model"
)

const (
	jsonFile     = "report.json"
	markdownFile = "report.md"
	htmlFile     = "report.html"
	sarifFile    = "report.sarif"
)

// WriteJSON writes the full run: metadata, summary, findings and counts.
func WriteJSON(outDir string, run *model.Run) (string, error) {
	path := filepath.Join(outDir, jsonFile)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return "", err
	}
	return path, nil
}
