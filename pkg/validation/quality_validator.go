package validation

import (
	"strings"

	"github.com/anime-shed/label-inspector-go/pkg/models"
)

// QualityThresholds defines when a photo earns an advisory warning
type QualityThresholds struct {
	MinContrast    float64
	MinSharpness   float64
	MinBrightness  float64 // centeredness, 1 is mid-gray
	MinTextDensity float64

	// Recommended, not required, resolution
	RecommendedWidth  int
	RecommendedHeight int

	MinTextLength    int
	MinOCRConfidence float64
}

// DefaultQualityThresholds returns the default quality thresholds
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MinContrast:       0.15,
		MinSharpness:      0.05,
		MinBrightness:     0.3,
		MinTextDensity:    0.05,
		RecommendedWidth:  300,
		RecommendedHeight: 300,
		MinTextLength:     10,
		MinOCRConfidence:  50,
	}
}

// QualityValidator turns measurements of a label photo into user-facing tips
type QualityValidator struct {
	thresholds QualityThresholds
}

// NewQualityValidator creates a new quality validator with default thresholds
func NewQualityValidator() *QualityValidator {
	return &QualityValidator{
		thresholds: DefaultQualityThresholds(),
	}
}

// NewQualityValidatorWithThresholds creates a quality validator with custom thresholds
func NewQualityValidatorWithThresholds(thresholds QualityThresholds) *QualityValidator {
	return &QualityValidator{
		thresholds: thresholds,
	}
}

// LabelQualityInput is what is known about a photo after text extraction
type LabelQualityInput struct {
	Quality       models.QualityReport
	Image         *models.ImageInfo
	ExtractedText string
	OCRConfidence float64
}

// Advise returns warnings in a fixed order. The result is never nil.
func (qv *QualityValidator) Advise(in LabelQualityInput) []models.QualityIssue {
	issues := []models.QualityIssue{}
	t := qv.thresholds

	if n := len(strings.TrimSpace(in.ExtractedText)); n < t.MinTextLength {
		issues = append(issues, models.QualityIssue{
			Type:        "insufficient_text",
			Message:     "Unable to extract sufficient text from the image. Upload a clearer image, make sure the ingredients list is visible or adjust the preprocessing options.",
			Severity:    "warning",
			ActualValue: float64(n),
			Threshold:   float64(t.MinTextLength),
		})
	}

	if in.Quality.Sharpness < t.MinSharpness {
		issues = append(issues, models.QualityIssue{
			Type:        "blurriness",
			Message:     "Image looks blurry. Hold the camera steady and avoid angled shots.",
			Severity:    "warning",
			ActualValue: in.Quality.Sharpness,
			Threshold:   t.MinSharpness,
		})
	}

	if in.Quality.Contrast < t.MinContrast {
		issues = append(issues, models.QualityIssue{
			Type:        "low_contrast",
			Message:     "Text has low contrast against the background. Use even lighting and avoid shadows.",
			Severity:    "warning",
			ActualValue: in.Quality.Contrast,
			Threshold:   t.MinContrast,
		})
	}

	if in.Quality.Brightness < t.MinBrightness {
		issues = append(issues, models.QualityIssue{
			Type:        "exposure",
			Message:     "Image is too dark or too bright. Avoid reflections and use well-lit conditions.",
			Severity:    "warning",
			ActualValue: in.Quality.Brightness,
			Threshold:   t.MinBrightness,
		})
	}

	if in.Quality.TextDensity < t.MinTextDensity {
		issues = append(issues, models.QualityIssue{
			Type:        "little_text",
			Message:     "Few text-like edges were found. Make sure the ingredients list fills the frame.",
			Severity:    "info",
			ActualValue: in.Quality.TextDensity,
			Threshold:   t.MinTextDensity,
		})
	}

	if in.OCRConfidence > 0 && in.OCRConfidence < t.MinOCRConfidence {
		issues = append(issues, models.QualityIssue{
			Type:        "low_ocr_confidence",
			Message:     "Text recognition confidence is low; results may contain misread words.",
			Severity:    "info",
			ActualValue: in.OCRConfidence,
			Threshold:   t.MinOCRConfidence,
		})
	}

	if in.Image != nil && (in.Image.Width < t.RecommendedWidth || in.Image.Height < t.RecommendedHeight) {
		issues = append(issues, models.QualityIssue{
			Type:        "low_resolution",
			Message:     "Image resolution is below the recommended 300x300 pixels.",
			Severity:    "info",
			ActualValue: float64(in.Image.Width * in.Image.Height),
			Threshold:   float64(t.RecommendedWidth * t.RecommendedHeight),
		})
	}

	return issues
}
