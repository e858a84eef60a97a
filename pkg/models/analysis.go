package models

import (
	"encoding/json"
	"time"
)

const (
	MinHealthScore     = 1
	MaxHealthScore     = 10
	DefaultHealthScore = 5
)

// Ingredient is one entry of the analysed ingredients list, in label order.
type Ingredient struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NutritionalInsights summarises the product's nutritional profile.
// HealthScore is nil when no analysis was possible.
type NutritionalInsights struct {
	HealthScore  *int     `json:"health_score"`
	Categories   []string `json:"categories"`
	KeyNutrients []string `json:"key_nutrients"`
	HealthNotes  string   `json:"health_notes"`
}

// AnalysisResult is the reconciled, always well-formed analysis of a label.
type AnalysisResult struct {
	Ingredients         []Ingredient        `json:"ingredients"`
	Allergens           []string            `json:"allergens"`
	DietaryFlags        []string            `json:"dietary_flags"`
	NutritionalInsights NutritionalInsights `json:"nutritional_insights"`
	Summary             string              `json:"summary"`
}

// RawAnalysis is the semantic analyzer's payload before reconciliation.
// Any field may be missing or of the wrong type; missing fields stay nil.
type RawAnalysis struct {
	Ingredients  []Ingredient
	Allergens    []string
	DietaryFlags []string
	Insights     *RawInsights
	Summary      *string
}

// RawInsights keeps health_score undecoded so the reconciler can coerce it.
type RawInsights struct {
	HealthScore  json.RawMessage
	Categories   []string
	KeyNutrients []string
	HealthNotes  *string
}

// IngredientDetails describes a single ingredient in depth.
type IngredientDetails struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Uses         string `json:"uses"`
	Nutrition    string `json:"nutrition"`
	HealthNotes  string `json:"health_notes"`
	AllergenInfo string `json:"allergen_info"`
}

// ImageInfo describes the submitted image.
type ImageInfo struct {
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// QualityReport is the advisory image quality estimate, each value in [0,1].
type QualityReport struct {
	Score       float64 `json:"score"`
	Contrast    float64 `json:"contrast"`
	Sharpness   float64 `json:"sharpness"`
	Brightness  float64 `json:"brightness"`
	TextDensity float64 `json:"text_density"`
}

// QualityIssue is advisory feedback about the submitted photo. It never blocks analysis.
type QualityIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "warning" or "info"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// OCRReport describes the text recognition stage.
type OCRReport struct {
	ExtractedText       string   `json:"extracted_text"`
	IngredientsSection  string   `json:"ingredients_section"`
	SectionRule         string   `json:"section_rule"`
	Confidence          float64  `json:"confidence"`
	ConfidenceThreshold int      `json:"confidence_threshold"`
	TokensKept          int      `json:"tokens_kept"`
	TokensDropped       int      `json:"tokens_dropped"`
	DetectedAllergens   []string `json:"detected_allergens"`

	// Set only when the caller supplied reference text
	ExpectedText string   `json:"expected_text,omitempty"`
	WER          *float64 `json:"word_error_rate,omitempty"`
	CER          *float64 `json:"character_error_rate,omitempty"`
}

// LabelAnalysisResponse is the full result of analysing one label image.
type LabelAnalysisResponse struct {
	ID                string         `json:"id"`
	Timestamp         time.Time      `json:"timestamp"`
	ProcessingTimeSec float64        `json:"processing_time_sec"`
	Source            string         `json:"source,omitempty"`
	Image             *ImageInfo     `json:"image,omitempty"`
	Quality           QualityReport  `json:"quality"`
	OCR               OCRReport      `json:"ocr"`
	Analysis          AnalysisResult `json:"analysis"`
	Warnings          []QualityIssue `json:"warnings"`
}

// TextAnalysisResponse is the result of analysing already extracted text.
type TextAnalysisResponse struct {
	ID                 string         `json:"id"`
	Timestamp          time.Time      `json:"timestamp"`
	IngredientsSection string         `json:"ingredients_section"`
	SectionRule        string         `json:"section_rule"`
	Analysis           AnalysisResult `json:"analysis"`
}
