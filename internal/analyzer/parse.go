package analyzer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anime-shed/label-inspector-go/pkg/models"
)

var (
	ErrEmptyResponse     = errors.New("empty response from analyzer")
	ErrMalformedResponse = errors.New("analyzer response is not a JSON object")
)

// ParseAnalysis decodes an analyzer reply field by field. A field of the wrong
// type is treated as missing rather than failing the whole payload; only empty
// content or content that is not a JSON object is an error.
func ParseAnalysis(content string) (*models.RawAnalysis, error) {
	obj, err := decodeObject(content)
	if err != nil {
		return nil, err
	}

	raw := &models.RawAnalysis{
		Ingredients:  decodeIngredients(obj["ingredients"]),
		Allergens:    decodeStrings(obj["allergens"]),
		DietaryFlags: decodeStrings(obj["dietary_flags"]),
		Summary:      decodeString(obj["summary"]),
	}

	if v, ok := obj["nutritional_insights"]; ok {
		var in map[string]json.RawMessage
		if json.Unmarshal(v, &in) == nil && in != nil {
			raw.Insights = &models.RawInsights{
				HealthScore:  in["health_score"],
				Categories:   decodeStrings(in["categories"]),
				KeyNutrients: decodeStrings(in["key_nutrients"]),
				HealthNotes:  decodeString(in["health_notes"]),
			}
		}
	}
	return raw, nil
}

// ParseIngredientDetails decodes an ingredient details reply. Missing fields
// are filled with "Unknown"; name falls back to the requested name.
func ParseIngredientDetails(name, content string) (*models.IngredientDetails, error) {
	obj, err := decodeObject(content)
	if err != nil {
		return nil, err
	}

	field := func(key, def string) string {
		if s := decodeString(obj[key]); s != nil && strings.TrimSpace(*s) != "" {
			return strings.TrimSpace(*s)
		}
		return def
	}
	return &models.IngredientDetails{
		Name:         field("name", name),
		Description:  field("description", "Unknown"),
		Uses:         field("uses", "Unknown"),
		Nutrition:    field("nutrition", "Unknown"),
		HealthNotes:  field("health_notes", "Unknown"),
		AllergenInfo: field("allergen_info", "None"),
	}, nil
}

// FallbackDetails is the placeholder returned when details cannot be produced.
func FallbackDetails(name string, cause error) *models.IngredientDetails {
	return &models.IngredientDetails{
		Name:         name,
		Description:  fmt.Sprintf("Unable to analyze ingredient: %v", cause),
		Uses:         "Unknown",
		Nutrition:    "Unknown",
		HealthNotes:  "Analysis unavailable",
		AllergenInfo: "None",
	}
}

func decodeObject(content string) (map[string]json.RawMessage, error) {
	body := stripCodeFence(strings.TrimSpace(content))
	if body == "" {
		return nil, ErrEmptyResponse
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if obj == nil {
		return nil, ErrMalformedResponse
	}
	return obj, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block, which some
// models emit even in JSON mode.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decodeString(v json.RawMessage) *string {
	if v == nil || string(bytes.TrimSpace(v)) == "null" {
		return nil
	}
	var s string
	if json.Unmarshal(v, &s) != nil {
		return nil
	}
	return &s
}

// decodeStrings keeps the string elements of an array. A bare string is a
// one-element list.
func decodeStrings(v json.RawMessage) []string {
	if v == nil {
		return nil
	}
	if s := decodeString(v); s != nil {
		return []string{*s}
	}
	var items []json.RawMessage
	if json.Unmarshal(v, &items) != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := decodeString(item); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// decodeIngredients accepts objects with name/description or plain strings.
func decodeIngredients(v json.RawMessage) []models.Ingredient {
	if v == nil {
		return nil
	}
	var items []json.RawMessage
	if json.Unmarshal(v, &items) != nil {
		return nil
	}
	out := make([]models.Ingredient, 0, len(items))
	for _, item := range items {
		if s := decodeString(item); s != nil {
			out = append(out, models.Ingredient{Name: *s})
			continue
		}
		var obj map[string]json.RawMessage
		if json.Unmarshal(item, &obj) != nil || obj == nil {
			continue
		}
		ing := models.Ingredient{}
		if s := decodeString(obj["name"]); s != nil {
			ing.Name = *s
		}
		if s := decodeString(obj["description"]); s != nil {
			ing.Description = *s
		}
		out = append(out, ing)
	}
	return out
}
