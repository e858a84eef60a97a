package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/label-inspector-go/pkg/models"
)

func TestParseAnalysis_FullPayload(t *testing.T) {
	content := `{
		"ingredients": [{"name": "Sugar", "description": "Sweetener"}, "Salt"],
		"allergens": ["milk"],
		"dietary_flags": ["vegetarian"],
		"nutritional_insights": {
			"health_score": 6,
			"categories": ["processed"],
			"key_nutrients": ["carbohydrates"],
			"health_notes": "High sugar"
		},
		"summary": "Sweet snack"
	}`

	raw, err := ParseAnalysis(content)
	require.NoError(t, err)

	assert.Equal(t, []models.Ingredient{
		{Name: "Sugar", Description: "Sweetener"},
		{Name: "Salt"},
	}, raw.Ingredients)
	assert.Equal(t, []string{"milk"}, raw.Allergens)
	assert.Equal(t, []string{"vegetarian"}, raw.DietaryFlags)
	require.NotNil(t, raw.Insights)
	assert.Equal(t, "6", string(raw.Insights.HealthScore))
	assert.Equal(t, []string{"processed"}, raw.Insights.Categories)
	assert.Equal(t, []string{"carbohydrates"}, raw.Insights.KeyNutrients)
	require.NotNil(t, raw.Insights.HealthNotes)
	assert.Equal(t, "High sugar", *raw.Insights.HealthNotes)
	require.NotNil(t, raw.Summary)
	assert.Equal(t, "Sweet snack", *raw.Summary)
}

func TestParseAnalysis_WrongTypesAreMissing(t *testing.T) {
	content := `{
		"ingredients": "sugar, salt",
		"allergens": ["milk", 3, null, {"x": 1}],
		"dietary_flags": 7,
		"nutritional_insights": "healthy",
		"summary": 12
	}`

	raw, err := ParseAnalysis(content)
	require.NoError(t, err)

	assert.Nil(t, raw.Ingredients)
	assert.Equal(t, []string{"milk"}, raw.Allergens)
	assert.Nil(t, raw.DietaryFlags)
	assert.Nil(t, raw.Insights)
	assert.Nil(t, raw.Summary)
}

func TestParseAnalysis_HealthScoreKeptRaw(t *testing.T) {
	raw, err := ParseAnalysis(`{"nutritional_insights": {"health_score": "seven"}}`)
	require.NoError(t, err)
	require.NotNil(t, raw.Insights)
	assert.Equal(t, `"seven"`, string(raw.Insights.HealthScore))
	assert.Nil(t, raw.Insights.HealthNotes)
}

func TestParseAnalysis_CodeFence(t *testing.T) {
	raw, err := ParseAnalysis("```json\n{\"summary\": \"ok\"}\n```")
	require.NoError(t, err)
	require.NotNil(t, raw.Summary)
	assert.Equal(t, "ok", *raw.Summary)
}

func TestParseAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"empty", "", ErrEmptyResponse},
		{"whitespace", "  \n ", ErrEmptyResponse},
		{"not json", "I could not analyze this label.", ErrMalformedResponse},
		{"array", `["milk"]`, ErrMalformedResponse},
		{"null", "null", ErrMalformedResponse},
		{"truncated", `{"ingredients": [`, ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseAnalysis(tt.content)
			assert.Nil(t, raw)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseIngredientDetails(t *testing.T) {
	d, err := ParseIngredientDetails("whey", `{"description": "Milk protein", "uses": "", "allergen_info": "Contains milk"}`)
	require.NoError(t, err)

	assert.Equal(t, "whey", d.Name)
	assert.Equal(t, "Milk protein", d.Description)
	assert.Equal(t, "Unknown", d.Uses)
	assert.Equal(t, "Unknown", d.Nutrition)
	assert.Equal(t, "Contains milk", d.AllergenInfo)

	_, err = ParseIngredientDetails("whey", "")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestFallbackDetails(t *testing.T) {
	d := FallbackDetails("guar gum", fmt.Errorf("timeout"))
	assert.Equal(t, "guar gum", d.Name)
	assert.Equal(t, "Unable to analyze ingredient: timeout", d.Description)
	assert.Equal(t, "Analysis unavailable", d.HealthNotes)
}

func TestPrompts(t *testing.T) {
	p := AnalysisPrompt("water, sugar")
	assert.Contains(t, p, `Ingredients text: "water, sugar"`)
	assert.Contains(t, p, `"nutritional_insights"`)
	assert.False(t, strings.HasPrefix(p, "\t"), "prompt should be dedented")

	d := DetailsPrompt("pectin")
	assert.Contains(t, d, `"name": "pectin"`)
}
