package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/codewithboateng/speclint/internal/model"
)

func (p *Parser) parseXLSX(path string) ([]model.Requirement, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), p.opts.XLSX.Sheet)
	if err != nil {
		return nil, err
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	hdr, cols, err := detectHeader(records, p.opts.XLSX.HeaderSearchRows, p.xlsxAlias)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	var out []model.Requirement
	for i := hdr + 1; i < len(records); i++ {
		// spreadsheet rows are 1-based
		if r, ok := cellsToRow(records[i], cols).requirement(p, path, i+1); ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// pickSheet resolves a sheet by name, or by 0-based index when sel is numeric.
// An empty selector picks the first sheet.
func pickSheet(sheets []string, sel string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == sel {
			return s, nil
		}
	}
	if idx, err := strconv.Atoi(sel); err == nil {
		if idx < 0 || idx >= len(sheets) {
			return "", fmt.Errorf("sheet index %d out of range (have %d)", idx, len(sheets))
		}
		return sheets[idx], nil
	}
	return "", fmt.Errorf("sheet %q not found. Available: %s", sel, strings.Join(sheets, ", "))
}
