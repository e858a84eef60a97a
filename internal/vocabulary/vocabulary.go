// Package vocabulary holds the static tables that drive section location and
// allergen detection. The defaults mirror common EU/US label conventions and
// can be replaced by a YAML file at startup.
package vocabulary

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Allergen maps one canonical label to the substrings that indicate it.
type Allergen struct {
	Label    string   `yaml:"label"`
	Synonyms []string `yaml:"synonyms"`
}

// SectionRule is one header pattern and the keywords that terminate the section it opens.
// Both are RE2 fragments matched case-insensitively.
type SectionRule struct {
	Name       string   `yaml:"name"`
	Header     string   `yaml:"header"`
	Boundaries []string `yaml:"boundaries"`
}

type Vocabulary struct {
	Allergens []Allergen    `yaml:"allergens"`
	Sections  []SectionRule `yaml:"sections"`
	FoodTerms []string      `yaml:"food_terms"`
}

var commonBoundaries = []string{
	`nutrition`, `allergen`, `directions`, `net\s*weight`, `best\s*before`, `expiry`, `storage`,
}

func withContains(b []string) []string {
	out := make([]string, 0, len(b)+1)
	out = append(out, b[:3]...)
	out = append(out, `contains`)
	return append(out, b[3:]...)
}

// Default returns a fresh copy of the built-in tables.
func Default() *Vocabulary {
	return &Vocabulary{
		Allergens: []Allergen{
			{Label: "milk", Synonyms: []string{"milk", "dairy", "lactose", "cream", "butter", "cheese", "whey", "casein"}},
			{Label: "eggs", Synonyms: []string{"egg", "albumen", "lecithin"}},
			{Label: "wheat", Synonyms: []string{"wheat", "flour", "gluten"}},
			{Label: "soy", Synonyms: []string{"soy", "soya", "soybean"}},
			{Label: "nuts", Synonyms: []string{"nuts", "almond", "walnut", "pecan", "hazelnut", "cashew", "pistachio"}},
			{Label: "peanuts", Synonyms: []string{"peanut", "groundnut"}},
			{Label: "fish", Synonyms: []string{"fish", "salmon", "tuna", "cod"}},
			{Label: "shellfish", Synonyms: []string{"shellfish", "shrimp", "crab", "lobster"}},
			{Label: "sesame", Synonyms: []string{"sesame", "tahini"}},
		},
		Sections: []SectionRule{
			{Name: "ingredients", Header: `ingredients?[:\s]+`, Boundaries: withContains(commonBoundaries)},
			{Name: "contains", Header: `contains?[:\s]+`, Boundaries: append([]string(nil), commonBoundaries...)},
			{Name: "made_with", Header: `made\s*with[:\s]+`, Boundaries: append([]string(nil), commonBoundaries...)},
		},
		FoodTerms: []string{"flour", "sugar", "salt", "oil", "water", "milk", "eggs", "butter"},
	}
}

// Load reads a vocabulary file. An empty path yields Default().
func Load(path string) (*Vocabulary, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML. Top-level keys left out keep their default tables.
func Parse(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	def := Default()
	if len(v.Allergens) == 0 {
		v.Allergens = def.Allergens
	}
	if len(v.Sections) == 0 {
		v.Sections = def.Sections
	}
	if len(v.FoodTerms) == 0 {
		v.FoodTerms = def.FoodTerms
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// Validate checks labels are present and every pattern compiles.
func (v *Vocabulary) Validate() error {
	seen := make(map[string]bool, len(v.Allergens))
	for i, a := range v.Allergens {
		label := strings.ToLower(strings.TrimSpace(a.Label))
		if label == "" {
			return fmt.Errorf("allergen %d has no label", i)
		}
		if seen[label] {
			return fmt.Errorf("duplicate allergen label %q", label)
		}
		seen[label] = true
		if len(a.Synonyms) == 0 {
			return fmt.Errorf("allergen %q has no synonyms", label)
		}
	}
	for _, s := range v.Sections {
		if _, err := regexp.Compile(s.Header); err != nil {
			return fmt.Errorf("section %q header: %w", s.Name, err)
		}
		for _, b := range s.Boundaries {
			if _, err := regexp.Compile(b); err != nil {
				return fmt.Errorf("section %q boundary %q: %w", s.Name, b, err)
			}
		}
	}
	return nil
}
