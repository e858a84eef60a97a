package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

type correction struct {
	pattern     *regexp.Regexp
	replacement string
}

// A token that is only 0 or 1, apart from surrounding punctuation, is the usual
// O/I confusion on labels. Digits inside numbers such as 0.5 or 1,000 are kept.
var isolatedDigits = map[string]string{"0": "O", "1": "I"}

// Applied in order, after isolated digits.
var corrections = []correction{
	{regexp.MustCompile(`\|`), "I"},
	{regexp.MustCompile("[‘’`]"), "'"},
	{regexp.MustCompile("[“”]"), `"`},
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	disallowed    = regexp.MustCompile(`[^\p{L}\p{N}\s,.:;()\[\]{}\-_%/'"]`)
)

// Normalize cleans raw recognised text into a single whitespace-collapsed line.
func Normalize(raw string) string {
	s := correctIsolatedDigits(whitespaceRun.ReplaceAllString(raw, " "))
	for _, c := range corrections {
		s = c.pattern.ReplaceAllString(s, c.replacement)
	}
	s = disallowed.ReplaceAllString(s, "")
	s = spacePunctuation(s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func correctIsolatedDigits(s string) string {
	tokens := strings.Split(s, " ")
	for i, tok := range tokens {
		core := strings.TrimFunc(tok, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if letter, ok := isolatedDigits[core]; ok {
			tokens[i] = strings.Replace(tok, core, letter, 1)
		}
	}
	return strings.Join(tokens, " ")
}

func isPunct(r rune) bool   { return r == ',' || r == '.' || r == ';' || r == ':' }
func isOpening(r rune) bool { return r == '(' || r == '[' || r == '{' }
func isClosing(r rune) bool { return r == ')' || r == ']' || r == '}' }

// spacePunctuation removes space before , . ; : and puts one space after,
// except inside numbers like 2.5 or 1,000. Brackets get a space outside and none inside.
func spacePunctuation(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+len(in)/4)

	trimTrailing := func() {
		for len(out) > 0 && out[len(out)-1] == ' ' {
			out = out[:len(out)-1]
		}
	}
	// nextNonSpace returns the index of the next non-space rune after i, or len(in).
	nextNonSpace := func(i int) int {
		j := i + 1
		for j < len(in) && unicode.IsSpace(in[j]) {
			j++
		}
		return j
	}

	for i := 0; i < len(in); i++ {
		r := in[i]
		switch {
		case isPunct(r):
			trimTrailing()
			numeric := (r == '.' || r == ',') && len(out) > 0 && unicode.IsDigit(out[len(out)-1]) &&
				i+1 < len(in) && unicode.IsDigit(in[i+1])
			out = append(out, r)
			if numeric {
				continue
			}
			j := nextNonSpace(i)
			if j < len(in) && !isPunct(in[j]) && !isClosing(in[j]) {
				out = append(out, ' ')
			}
			i = j - 1
		case isOpening(r):
			trimTrailing()
			if len(out) > 0 && !isOpening(out[len(out)-1]) {
				out = append(out, ' ')
			}
			out = append(out, r)
			i = nextNonSpace(i) - 1
		case isClosing(r):
			trimTrailing()
			out = append(out, r)
			j := nextNonSpace(i)
			if j < len(in) && !isPunct(in[j]) && !isClosing(in[j]) {
				out = append(out, ' ')
			}
			i = j - 1
		case unicode.IsSpace(r):
			if len(out) > 0 && out[len(out)-1] != ' ' {
				out = append(out, ' ')
			}
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
