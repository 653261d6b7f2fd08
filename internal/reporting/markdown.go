package reporting

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/codewithboateng/speclint/internal/model"
)

var mdTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"cell":    mdCell,
	"percent": func(r float64) string { return strconv.FormatFloat(r*100, 'f', 0, 64) },
}).Parse(`# SpecLint Report

**Summary:** {{ .Counts.Error }} errors, {{ .Counts.Warning }} warnings, {{ .Counts.Info }} info.

Requirements: {{ .Summary.Requirements }} · Tests: {{ .Summary.Tests }} · Linked: {{ .Summary.LinkedRequirements }} ({{ percent .Summary.LinkedRatio }}%)
{{- if .Waived }} · Waived findings: {{ .Waived }}{{ end }}

| Severity | Rule | Message | File | Line |
|---|---|---|---|---|
{{ range .Findings -}}
| {{ .Severity }} | {{ .RuleID }} | {{ cell .Message }} | {{ cell .File }} | {{ if .Line }}{{ .Line }}{{ end }} |
{{ end -}}
`))

// RenderMarkdown renders the report document: a counts header and one
// table row per finding.
func RenderMarkdown(run *model.Run) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, run); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func WriteMarkdown(outDir string, run *model.Run) (string, error) {
	b, err := RenderMarkdown(run)
	if err != nil {
		return "", err
	}
	path := filepath.Join(outDir, markdownFile)
	return path, os.WriteFile(path, b, 0o644)
}

// mdCell keeps a value inside a single table cell.
func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}
