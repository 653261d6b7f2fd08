package rules

import (
	"fmt"
	"strings"

	"github.com/codewithboateng/speclint/internal/model"
)

// ambiguityLexicons maps a language code to hedge words flagged in titles.
var ambiguityLexicons = map[string][]string{
	"en": {"should", "may", "quickly", "easily", "user-friendly", "robust"},
	"pl": {"powinno", "może", "szybko", "łatwo", "intuicyjne"},
}

var ambiguousTermsRule = Rule{
	ID:              RuleAmbiguousTerms,
	Summary:         "Requirement titles should avoid vague or hedging wording.",
	DefaultSeverity: model.SeverityWarning,
	Configurable:    true,
	Eval:            evalAmbiguousTerms,
}

func evalAmbiguousTerms(p *Policy, m *model.Model, emit emitFunc) {
	if len(p.languages) == 0 {
		return
	}
	for _, r := range m.Requirements {
		lang, term, ok := findAmbiguous(r.Title, p.languages)
		if !ok {
			continue
		}
		emit(fmt.Sprintf("Ambiguous terms in %s: '%s' (%s: %q)", r.ID, r.Title, lang, term), r.File, r.Line, r.ID)
	}
}

// findAmbiguous returns the first language, in configured order, whose
// lexicon occurs in text.
func findAmbiguous(text string, languages []string) (lang, term string, ok bool) {
	text = strings.ToLower(text)
	for _, l := range languages {
		for _, w := range ambiguityLexicons[l] {
			if strings.Contains(text, w) {
				return l, w, true
			}
		}
	}
	return "", "", false
}
