// Package reconcile merges semantic analyzer output with deterministic
// keyword findings into a well-formed AnalysisResult.
package reconcile

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/anime-shed/label-inspector-go/internal/allergen"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

// Messages used for failure results.
const (
	MsgNoIngredients       = "No ingredients text found in the image"
	MsgAnalysisUnavailable = "Ingredient analysis is currently unavailable"
	MsgAnalysisTimedOut    = "Ingredient analysis timed out"
)

type Reconciler struct {
	detector *allergen.Detector
}

func New(detector *allergen.Detector) *Reconciler {
	if detector == nil {
		detector = allergen.NewDetector(nil)
	}
	return &Reconciler{detector: detector}
}

// Reconcile fills missing fields with empty values, repairs health_score and
// adds allergens found by keyword match in originalText to those the analyzer reported.
func (r *Reconciler) Reconcile(raw *models.RawAnalysis, originalText string) models.AnalysisResult {
	if raw == nil {
		raw = &models.RawAnalysis{}
	}

	res := models.AnalysisResult{
		Ingredients:  cleanIngredients(raw.Ingredients),
		Allergens:    r.mergeAllergens(raw.Allergens, r.detector.Detect(originalText)),
		DietaryFlags: cleanStrings(raw.DietaryFlags),
		NutritionalInsights: models.NutritionalInsights{
			Categories:   []string{},
			KeyNutrients: []string{},
		},
	}
	if raw.Summary != nil {
		res.Summary = strings.TrimSpace(*raw.Summary)
	}

	var rawScore json.RawMessage
	if in := raw.Insights; in != nil {
		rawScore = in.HealthScore
		res.NutritionalInsights.Categories = cleanStrings(in.Categories)
		res.NutritionalInsights.KeyNutrients = cleanStrings(in.KeyNutrients)
		if in.HealthNotes != nil {
			res.NutritionalInsights.HealthNotes = strings.TrimSpace(*in.HealthNotes)
		}
	}
	score := CoerceHealthScore(rawScore)
	res.NutritionalInsights.HealthScore = &score
	return res
}

// Failed builds the result returned when no analysis could be made.
// HealthScore is left nil to mark the score as unknown.
func Failed(message string) models.AnalysisResult {
	return models.AnalysisResult{
		Ingredients:  []models.Ingredient{},
		Allergens:    []string{},
		DietaryFlags: []string{},
		NutritionalInsights: models.NutritionalInsights{
			Categories:   []string{},
			KeyNutrients: []string{},
			HealthNotes:  message,
		},
		Summary: message,
	}
}

// CoerceHealthScore maps a raw JSON health_score onto [1,10]. Only JSON numbers
// are accepted; in-range fractions round half away from zero. Anything else is
// DefaultHealthScore.
func CoerceHealthScore(raw json.RawMessage) int {
	s := bytes.TrimSpace(raw)
	if len(s) == 0 || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return models.DefaultHealthScore
	}
	v, err := strconv.ParseFloat(string(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return models.DefaultHealthScore
	}
	if v < models.MinHealthScore || v > models.MaxHealthScore {
		return models.DefaultHealthScore
	}
	return int(math.Round(v))
}

func (r *Reconciler) mergeAllergens(reported, detected []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(label string) {
		if strings.TrimSpace(label) == "" {
			return
		}
		c := r.detector.Canonicalize(label)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, a := range reported {
		add(a)
	}
	for _, a := range detected {
		add(a)
	}
	return out
}

func cleanIngredients(in []models.Ingredient) []models.Ingredient {
	out := make([]models.Ingredient, 0, len(in))
	for _, ing := range in {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		out = append(out, models.Ingredient{Name: name, Description: strings.TrimSpace(ing.Description)})
	}
	return out
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}
