package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/label-inspector-go/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestCoerceHealthScore(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 5},
		{"null", 5},
		{"0", 5},
		{"1", 1},
		{"7", 7},
		{"10", 10},
		{"11", 5},
		{"-3", 5},
		{"7.5", 8},
		{"7.4", 7},
		{"1.0", 1},
		{"9.99", 10},
		{"10.01", 5},
		{"0.99", 5},
		{"1e1", 10},
		{`"7"`, 5},
		{`"good"`, 5},
		{"true", 5},
		{"[7]", 5},
		{`{"value":7}`, 5},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceHealthScore(json.RawMessage(tt.raw)))
		})
	}
}

func TestReconcile_MissingFields(t *testing.T) {
	r := New(nil)
	res := r.Reconcile(&models.RawAnalysis{}, "")

	assert.NotNil(t, res.Ingredients)
	assert.Empty(t, res.Ingredients)
	assert.NotNil(t, res.Allergens)
	assert.NotNil(t, res.DietaryFlags)
	assert.NotNil(t, res.NutritionalInsights.Categories)
	assert.NotNil(t, res.NutritionalInsights.KeyNutrients)
	require.NotNil(t, res.NutritionalInsights.HealthScore)
	assert.Equal(t, 5, *res.NutritionalInsights.HealthScore)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestReconcile_NilRaw(t *testing.T) {
	res := New(nil).Reconcile(nil, "contains sesame")
	assert.Equal(t, []string{"sesame"}, res.Allergens)
	assert.Equal(t, 5, *res.NutritionalInsights.HealthScore)
}

func TestReconcile_AllergenUnion(t *testing.T) {
	r := New(nil)
	raw := &models.RawAnalysis{Allergens: []string{"Milk"}}
	res := r.Reconcile(raw, "Ingredients: sugar, peanuts, milk powder")

	assert.Contains(t, res.Allergens, "milk")
	assert.Contains(t, res.Allergens, "peanuts")
	// peanuts also matches the "nuts" keyword
	assert.Equal(t, []string{"milk", "nuts", "peanuts"}, res.Allergens)
}

func TestReconcile_AllergenSynonymsCollapse(t *testing.T) {
	r := New(nil)
	raw := &models.RawAnalysis{Allergens: []string{"Dairy", "milk", " ", "Soybeans", "Mustard"}}
	res := r.Reconcile(raw, "whey, soy lecithin")
	assert.Equal(t, []string{"milk", "soy", "mustard", "eggs"}, res.Allergens)
}

func TestReconcile_FullPayload(t *testing.T) {
	r := New(nil)
	raw := &models.RawAnalysis{
		Ingredients: []models.Ingredient{
			{Name: " Wheat flour ", Description: "Milled wheat"},
			{Name: ""},
			{Name: "Sugar"},
		},
		DietaryFlags: []string{"vegetarian", "Vegetarian", ""},
		Insights: &models.RawInsights{
			HealthScore:  json.RawMessage("6.5"),
			Categories:   []string{"bakery"},
			KeyNutrients: []string{"carbohydrates"},
			HealthNotes:  strPtr(" High in sugar. "),
		},
		Summary: strPtr("A sweet baked good."),
	}
	res := r.Reconcile(raw, "wheat flour, sugar")

	assert.Equal(t, []models.Ingredient{
		{Name: "Wheat flour", Description: "Milled wheat"},
		{Name: "Sugar"},
	}, res.Ingredients)
	assert.Equal(t, []string{"vegetarian"}, res.DietaryFlags)
	assert.Equal(t, []string{"wheat"}, res.Allergens)
	assert.Equal(t, 7, *res.NutritionalInsights.HealthScore)
	assert.Equal(t, "High in sugar.", res.NutritionalInsights.HealthNotes)
	assert.Equal(t, "A sweet baked good.", res.Summary)
}

func TestFailed(t *testing.T) {
	res := Failed(MsgNoIngredients)

	assert.Nil(t, res.NutritionalInsights.HealthScore)
	assert.Equal(t, MsgNoIngredients, res.Summary)
	assert.Equal(t, MsgNoIngredients, res.NutritionalInsights.HealthNotes)
	assert.Empty(t, res.Ingredients)
	assert.Empty(t, res.Allergens)
	assert.Empty(t, res.DietaryFlags)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"ingredients": [],
		"allergens": [],
		"dietary_flags": [],
		"nutritional_insights": {
			"health_score": null,
			"categories": [],
			"key_nutrients": [],
			"health_notes": "No ingredients text found in the image"
		},
		"summary": "No ingredients text found in the image"
	}`, string(data))
}
