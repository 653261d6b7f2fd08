package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"
)

// CollectJUnitTestIDs scans JUnit XML reports matched by globs under root
// and returns the sorted set of test ids found in testcase name/classname
// attributes. A token counts as a test id when it starts with prefix.
// Unreadable or malformed reports are returned in skipped.
func CollectJUnitTestIDs(root string, globs []string, prefix string) (ids []string, skipped []string, err error) {
	if len(globs) == 0 {
		return nil, nil, nil
	}
	if prefix == "" {
		prefix = "TC-"
	}
	files, err := Discover(root, globs, nil)
	if err != nil {
		return nil, nil, err
	}
	found := map[string]struct{}{}
	for _, path := range files {
		if err := collectFile(path, prefix, found); err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", path, err))
		}
	}
	ids = make([]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, skipped, nil
}

func collectFile(path, prefix string, found map[string]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return collectReader(f, prefix, found)
}

func collectReader(r io.Reader, prefix string, found map[string]struct{}) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse junit: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "testcase" {
			continue
		}
		var text []string
		for _, a := range se.Attr {
			if a.Name.Local == "name" || a.Name.Local == "classname" {
				text = append(text, a.Value)
			}
		}
		for _, token := range strings.FieldsFunc(strings.Join(text, " "), isIDSeparator) {
			if strings.HasPrefix(token, prefix) {
				found[token] = struct{}{}
			}
		}
	}
}

// test ids keep letters, digits, '-' and '_'; everything else separates
func isIDSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_')
}
