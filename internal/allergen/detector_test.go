package allergen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anime-shed/label-inspector-go/internal/vocabulary"
)

func TestDetect(t *testing.T) {
	d := NewDetector(nil)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"nothing", "water, salt, rice", []string{}},
		{"synonym maps to label", "Whey powder, Soya Lecithin", []string{"milk", "eggs", "soy"}},
		{"table order regardless of text order", "sesame seeds, peanut oil, wheat flour", []string{"wheat", "peanuts", "sesame"}},
		{"dedup", "milk, butter, cream, cheese", []string{"milk"}},
		{"substring match", "BUTTERMILK", []string{"milk"}},
		{"peanut also contains nuts substring", "peanuts", []string{"nuts", "peanuts"}},
		{"shellfish contains fish", "shellfish extract", []string{"fish", "shellfish"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text))
		})
	}
}

func TestDetect_Monotonic(t *testing.T) {
	d := NewDetector(nil)
	base := "Ingredients: wheat flour, sugar"
	extensions := []string{"", " milk", " and tahini", " hazelnut, cod, shrimp", " anything at all"}

	prev := d.Detect(base)
	text := base
	for _, ext := range extensions {
		text += ext
		got := d.Detect(text)
		for _, label := range prev {
			assert.Contains(t, got, label, "appending %q dropped %q", ext, label)
		}
		prev = got
	}
}

func TestCanonicalize(t *testing.T) {
	d := NewDetector(nil)

	tests := []struct {
		in, want string
	}{
		{"Milk", "milk"},
		{" dairy ", "milk"},
		{"Egg", "eggs"},
		{"eggs", "eggs"},
		{"Peanut", "peanuts"},
		{"Tree Nuts", "tree nuts"},
		{"almonds", "nuts"},
		{"Soybeans", "soy"},
		{"Mustard", "mustard"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.Canonicalize(tt.in), "input %q", tt.in)
	}
}

func TestCustomVocabulary(t *testing.T) {
	v := &vocabulary.Vocabulary{Allergens: []vocabulary.Allergen{
		{Label: "Celery", Synonyms: []string{"celery", "celeriac"}},
	}}
	d := NewDetector(v)
	assert.Equal(t, []string{"celery"}, d.Detect("Celeriac puree"))
	assert.Equal(t, []string{"celery"}, d.Labels())
}
