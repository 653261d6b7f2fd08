package parser

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

var mdTestSplitRe = regexp.MustCompile(`[,|]`)

// parseMarkdown reads sections of the form
//
//	## REQ-001 Login requires valid credentials
//	risk: high
//	tests: TC-001, TC-002
func (p *Parser) parseMarkdown(path string) ([]model.Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.scanMarkdown(bufio.NewScanner(f), path)
}

func (p *Parser) scanMarkdown(sc *bufio.Scanner, path string) ([]model.Requirement, error) {
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		out []model.Requirement
		cur *model.Requirement
	)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())

		if m := p.mdHeader.FindStringSubmatch(line); m != nil {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &model.Requirement{
				ID:    strings.TrimSpace(m[1]),
				Title: strings.TrimSpace(m[2]),
				File:  path,
				Line:  lineNo,
			}
			continue
		}
		if cur == nil {
			continue
		}
		if m := p.mdRisk.FindStringSubmatch(line); m != nil {
			cur.Risk = strings.ToLower(strings.TrimSpace(m[1]))
			continue
		}
		if m := p.mdTests.FindStringSubmatch(line); m != nil {
			var tests []string
			for _, t := range mdTestSplitRe.Split(m[1], -1) {
				if t = strings.TrimSpace(t); t != "" {
					tests = append(tests, t)
				}
			}
			cur.Tests = tests
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out, sc.Err()
}
