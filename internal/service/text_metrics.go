package service

import (
	"strings"
	"unicode/utf8"

	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"
)

// errorRates scores recognised text against a reference transcription.
// Comparison is case-insensitive with whitespace collapsed. Both rates are nil
// when the reference has no words.
func errorRates(reference, hypothesis string) (werRate, cerRate *float64) {
	refWords := strings.Fields(strings.ToLower(reference))
	if len(refWords) == 0 {
		return nil, nil
	}
	hypWords := strings.Fields(strings.ToLower(hypothesis))

	w, _ := wer.WER(refWords, hypWords)

	ref := strings.Join(refWords, " ")
	hyp := strings.Join(hypWords, " ")
	c := float64(levenshtein.Distance(ref, hyp)) / float64(utf8.RuneCountInString(ref))

	return &w, &c
}
