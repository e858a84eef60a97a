package allergen

import (
	"strings"

	"github.com/anime-shed/label-inspector-go/internal/vocabulary"
)

// Detector finds allergens by case-insensitive substring match against a
// fixed synonym table. It is safe for concurrent use.
type Detector struct {
	entries []entry
	index   map[string]string // lowercase label or synonym -> canonical label
}

type entry struct {
	label    string
	synonyms []string
}

// NewDetector builds a detector over the vocabulary's allergen table.
// A nil vocabulary uses vocabulary.Default().
func NewDetector(v *vocabulary.Vocabulary) *Detector {
	if v == nil {
		v = vocabulary.Default()
	}
	d := &Detector{index: make(map[string]string)}
	for _, a := range v.Allergens {
		label := strings.ToLower(strings.TrimSpace(a.Label))
		e := entry{label: label}
		d.index[label] = label
		for _, s := range a.Synonyms {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			e.synonyms = append(e.synonyms, s)
			if _, taken := d.index[s]; !taken {
				d.index[s] = label
			}
		}
		d.entries = append(d.entries, e)
	}
	return d
}

// Detect returns canonical labels present in text, in table order.
// The result is never nil.
func (d *Detector) Detect(text string) []string {
	found := []string{}
	if text == "" {
		return found
	}
	lower := strings.ToLower(text)
	for _, e := range d.entries {
		for _, s := range e.synonyms {
			if strings.Contains(lower, s) {
				found = append(found, e.label)
				break
			}
		}
	}
	return found
}

// Canonicalize maps a free-form allergen label onto the controlled vocabulary.
// Unknown labels come back trimmed and lowercased.
func (d *Detector) Canonicalize(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if c, ok := d.index[l]; ok {
		return c
	}
	if c, ok := d.index[strings.TrimSuffix(l, "s")]; ok {
		return c
	}
	if c, ok := d.index[l+"s"]; ok {
		return c
	}
	return l
}

// Labels lists the canonical labels in table order.
func (d *Detector) Labels() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.label
	}
	return out
}
