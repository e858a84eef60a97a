package validation

import (
	"testing"

	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

func goodQuality() models.QualityReport {
	return models.QualityReport{Score: 0.8, Contrast: 0.4, Sharpness: 0.6, Brightness: 0.9, TextDensity: 0.3}
}

func issueTypes(issues []models.QualityIssue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Type
	}
	return out
}

func TestNewQualityValidatorWithThresholds(t *testing.T) {
	custom := DefaultQualityThresholds()
	custom.MinContrast = 0.5

	validator := NewQualityValidatorWithThresholds(custom)
	if validator.thresholds.MinContrast != 0.5 {
		t.Errorf("Expected custom MinContrast to be 0.5, got %f", validator.thresholds.MinContrast)
	}
}

func TestAdvise_HighQuality(t *testing.T) {
	issues := NewQualityValidator().Advise(LabelQualityInput{
		Quality:       goodQuality(),
		Image:         &models.ImageInfo{Format: "jpeg", Width: 1200, Height: 900},
		ExtractedText: "Ingredients: water, sugar, lemon juice",
		OCRConfidence: 88,
	})
	if issues == nil || len(issues) != 0 {
		t.Errorf("Expected empty non-nil issues, got %v", issues)
	}
}

func TestAdvise_PoorPhoto(t *testing.T) {
	issues := NewQualityValidator().Advise(LabelQualityInput{
		Quality:       models.QualityReport{Score: 0.1, Contrast: 0.05, Sharpness: 0.01, Brightness: 0.1, TextDensity: 0.0},
		Image:         &models.ImageInfo{Format: "png", Width: 150, Height: 120},
		ExtractedText: " sug ",
		OCRConfidence: 31,
	})

	want := []string{"insufficient_text", "blurriness", "low_contrast", "exposure", "little_text", "low_ocr_confidence", "low_resolution"}
	got := issueTypes(issues)
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("issue %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if issues[0].ActualValue != 3 {
		t.Errorf("Expected trimmed text length 3, got %v", issues[0].ActualValue)
	}
}

func TestAdvise_ZeroConfidenceIsNotReported(t *testing.T) {
	issues := NewQualityValidator().Advise(LabelQualityInput{
		Quality:       goodQuality(),
		ExtractedText: "Ingredients: water, sugar",
	})
	for _, is := range issues {
		if is.Type == "low_ocr_confidence" {
			t.Error("Expected no confidence warning when confidence is unknown")
		}
	}
}

func TestValidateImageInfo(t *testing.T) {
	tests := []struct {
		name        string
		info        models.ImageInfo
		expectError bool
	}{
		{"jpeg ok", models.ImageInfo{Format: "jpeg", Width: 100, Height: 100}, false},
		{"webp ok", models.ImageInfo{Format: "webp", Width: 640, Height: 480}, false},
		{"tiff ok", models.ImageInfo{Format: "tiff", Width: 300, Height: 2000}, false},
		{"gif rejected", models.ImageInfo{Format: "gif", Width: 640, Height: 480}, true},
		{"too narrow", models.ImageInfo{Format: "png", Width: 99, Height: 480}, true},
		{"too short", models.ImageInfo{Format: "bmp", Width: 640, Height: 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageInfo(tt.info)
			if tt.expectError {
				if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
					t.Errorf("Expected validation error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateLabelOptions(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }

	tests := []struct {
		name        string
		opts        models.LabelOptions
		expectError bool
	}{
		{"defaults", models.LabelOptions{}, false},
		{"bounds", models.LabelOptions{ResizeFactor: f(0.5), ConfidenceThreshold: i(0)}, false},
		{"upper bounds", models.LabelOptions{ResizeFactor: f(3.0), ConfidenceThreshold: i(100)}, false},
		{"resize too small", models.LabelOptions{ResizeFactor: f(0.4)}, true},
		{"resize too large", models.LabelOptions{ResizeFactor: f(3.5)}, true},
		{"negative threshold", models.LabelOptions{ConfidenceThreshold: i(-1)}, true},
		{"threshold too large", models.LabelOptions{ConfidenceThreshold: i(101)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabelOptions(tt.opts)
			if tt.expectError && err == nil {
				t.Error("Expected error")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
