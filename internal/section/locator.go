package section

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/anime-shed/label-inspector-go/internal/vocabulary"
)

const (
	// MinSectionLength is the exclusive lower bound on a pattern-matched section.
	MinSectionLength = 10
	// MinFallbackLength is the exclusive lower bound on a list-heuristic fragment.
	MinFallbackLength = 30
)

// Match describes how the section was chosen.
type Match struct {
	Text string
	Rule string // rule name, "list_fallback", or "full_text"
}

type rule struct {
	name     string
	header   *regexp.Regexp
	boundary *regexp.Regexp
}

// Locator picks the ingredients substring out of recognised label text.
type Locator struct {
	rules     []rule
	foodTerms []string
}

// NewLocator compiles the vocabulary's section rules. A nil vocabulary uses the defaults.
func NewLocator(v *vocabulary.Vocabulary) (*Locator, error) {
	if v == nil {
		v = vocabulary.Default()
	}
	l := &Locator{}
	for _, s := range v.Sections {
		header, err := regexp.Compile(`(?is)` + s.Header)
		if err != nil {
			return nil, fmt.Errorf("compile header for %s: %w", s.Name, err)
		}
		r := rule{name: s.Name, header: header}
		if len(s.Boundaries) > 0 {
			r.boundary, err = regexp.Compile(`(?is)(?:` + strings.Join(s.Boundaries, `|`) + `)`)
			if err != nil {
				return nil, fmt.Errorf("compile boundaries for %s: %w", s.Name, err)
			}
		}
		l.rules = append(l.rules, r)
	}
	for _, term := range v.FoodTerms {
		l.foodTerms = append(l.foodTerms, strings.ToLower(term))
	}
	return l, nil
}

// Locate returns the ingredients section of text.
func (l *Locator) Locate(text string) string {
	return l.LocateMatch(text).Text
}

// LocateMatch returns the section together with the rule that produced it.
// Rules are tried in priority order and every header occurrence of a rule is
// considered; the first trimmed span longer than MinSectionLength wins.
func (l *Locator) LocateMatch(text string) Match {
	for _, r := range l.rules {
		for _, loc := range r.header.FindAllStringIndex(text, -1) {
			rest := text[loc[1]:]
			end := len(rest)
			if r.boundary != nil {
				if b := r.boundary.FindStringIndex(rest); b != nil {
					end = b[0]
				}
			}
			if span := strings.TrimSpace(rest[:end]); len(span) > MinSectionLength {
				return Match{Text: span, Rule: r.name}
			}
		}
	}

	if frag, ok := l.listFallback(text); ok {
		return Match{Text: frag, Rule: "list_fallback"}
	}
	return Match{Text: text, Rule: "full_text"}
}

// listFallback looks for a sentence that reads like a comma separated ingredient list.
func (l *Locator) listFallback(text string) (string, bool) {
	for _, frag := range strings.Split(text, ".") {
		frag = strings.TrimSpace(frag)
		if len(frag) <= MinFallbackLength || !strings.Contains(frag, ",") {
			continue
		}
		lower := strings.ToLower(frag)
		for _, term := range l.foodTerms {
			if strings.Contains(lower, term) {
				return frag, true
			}
		}
	}
	return "", false
}
