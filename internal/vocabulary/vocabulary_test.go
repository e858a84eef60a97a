package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	v := Default()
	require.NoError(t, v.Validate())

	labels := make([]string, 0, len(v.Allergens))
	for _, a := range v.Allergens {
		labels = append(labels, a.Label)
	}
	assert.Equal(t, []string{"milk", "eggs", "wheat", "soy", "nuts", "peanuts", "fish", "shellfish", "sesame"}, labels)

	require.Len(t, v.Sections, 3)
	assert.Equal(t, "ingredients", v.Sections[0].Name)
	assert.Contains(t, v.Sections[0].Boundaries, "contains")
	assert.NotContains(t, v.Sections[1].Boundaries, "contains")
	assert.NotContains(t, v.Sections[2].Boundaries, "contains")
}

func TestDefaultReturnsCopies(t *testing.T) {
	a := Default()
	a.Sections[1].Boundaries[0] = "changed"
	b := Default()
	assert.Equal(t, "nutrition", b.Sections[1].Boundaries[0])
	assert.Equal(t, "nutrition", b.Sections[2].Boundaries[0])
}

func TestParse_PartialOverride(t *testing.T) {
	v, err := Parse([]byte(`
allergens:
  - label: mustard
    synonyms: [mustard, senf]
`))
	require.NoError(t, err)
	require.Len(t, v.Allergens, 1)
	assert.Equal(t, "mustard", v.Allergens[0].Label)
	assert.Len(t, v.Sections, 3)
	assert.NotEmpty(t, v.FoodTerms)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "allergens: [unterminated"},
		{"missing label", "allergens:\n  - synonyms: [x]\n"},
		{"duplicate label", "allergens:\n  - {label: a, synonyms: [a]}\n  - {label: A, synonyms: [b]}\n"},
		{"no synonyms", "allergens:\n  - {label: a}\n"},
		{"bad header regex", "sections:\n  - {name: x, header: '(', boundaries: []}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	v, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), v)

	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("food_terms: [rice]\n"), 0o600))
	v, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rice"}, v.FoodTerms)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
