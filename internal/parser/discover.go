package parser

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DefaultInclude applies when no include globs are configured.
var DefaultInclude = []string{"**/*.csv", "**/*.xlsx", "**/*.yaml", "**/*.yml", "**/*.md"}

// Discover walks root and returns files (lexical order) whose root-relative
// slash path matches an include glob and no exclude glob. Globs follow
// gitignore syntax, so "**" spans directories.
func Discover(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	inc := compileGlobs(include)
	exc := compileGlobs(exclude)

	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		rel, rerr := filepath.Rel(root, p)
		if rerr != nil || rel == "." {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if d.IsDir() {
			if d.Name() == ".git" || matchAny(exc, parts, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchAny(inc, parts, false) && !matchAny(exc, parts, false) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	return out, nil
}

func compileGlobs(globs []string) []gitignore.Pattern {
	ps := make([]gitignore.Pattern, 0, len(globs))
	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g == "" || strings.HasPrefix(g, "#") {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(g, nil))
	}
	return ps
}

func matchAny(ps []gitignore.Pattern, parts []string, isDir bool) bool {
	for _, p := range ps {
		if p.Match(parts, isDir) == gitignore.Exclude {
			return true
		}
	}
	return false
}
