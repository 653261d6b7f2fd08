package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/codewithboateng/speclint/internal/model"
)

func (p *Parser) parseCSV(path string) ([]model.Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	if len(records) == 0 {
		return nil, nil
	}

	hdr, cols, err := detectHeader(records, p.opts.CSV.HeaderSearchRows, p.csvAlias)
	if err != nil {
		return nil, err
	}
	var out []model.Requirement
	for i := hdr + 1; i < len(records); i++ {
		if r, ok := cellsToRow(records[i], cols).requirement(p, path, lines[i]); ok {
			out = append(out, r)
		}
	}
	return out, nil
}
