package reporting

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/codewithboateng/speclint/internal/model"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// WriteHTML renders the Markdown report to a standalone HTML page.
func WriteHTML(outDir string, run *model.Run) (string, error) {
	src, err := RenderMarkdown(run)
	if err != nil {
		return "", err
	}
	var body bytes.Buffer
	if err := md.Convert(src, &body); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!doctype html><html><head><meta charset='utf-8'><title>speclint %s</title>", html.EscapeString(run.ID))
	page.WriteString("<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} .dim{color:#666}</style>")
	page.WriteString("</head><body>")
	page.Write(body.Bytes())
	if run.ID != "" {
		fmt.Fprintf(&page, "<p class='dim'>Run %s · config: %s</p>", html.EscapeString(run.ID), html.EscapeString(run.ConfigSource))
	}
	page.WriteString("</body></html>\n")

	path := filepath.Join(outDir, htmlFile)
	return path, os.WriteFile(path, page.Bytes(), 0o644)
}
