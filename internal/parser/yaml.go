package parser

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/speclint/internal/model"
)

// parseYAML accepts a top-level list of requirement objects or a mapping
// with a "requirements" list. Keys are matched through the configured
// aliases; line numbers come from the YAML nodes.
func (p *Parser) parseYAML(path string) ([]model.Requirement, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil // empty document
	}

	items := requirementList(doc.Content[0])
	if items == nil {
		return nil, nil
	}

	var out []model.Requirement
	for _, item := range items.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		r := model.Requirement{File: path, Line: item.Line}
		for i := 0; i+1 < len(item.Content); i += 2 {
			key, val := item.Content[i], item.Content[i+1]
			switch p.yamlAlias[norm(key.Value)] {
			case "id":
				r.ID = scalar(val)
			case "title":
				r.Title = scalar(val)
			case "risk":
				r.Risk = strings.ToLower(scalar(val))
			case "tests":
				r.Tests = p.list(val, p.opts.TestsSeparator)
			case "tags":
				r.Tags = p.list(val, p.opts.TagsSeparator)
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func requirementList(root *yaml.Node) *yaml.Node {
	switch root.Kind {
	case yaml.SequenceNode:
		return root
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "requirements" && root.Content[i+1].Kind == yaml.SequenceNode {
				return root.Content[i+1]
			}
		}
	}
	return nil
}

func scalar(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return strings.TrimSpace(n.Value)
}

// list reads a sequence of scalars or a single separated scalar.
func (p *Parser) list(n *yaml.Node, sep string) []string {
	switch n.Kind {
	case yaml.SequenceNode:
		var out []string
		for _, c := range n.Content {
			if v := scalar(c); v != "" {
				out = append(out, v)
			}
		}
		return out
	case yaml.ScalarNode:
		return splitList(scalar(n), sep)
	}
	return nil
}
