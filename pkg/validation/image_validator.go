package validation

import (
	"fmt"
	"math"

	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
	"github.com/anime-shed/label-inspector-go/internal/ocr"
	"github.com/anime-shed/label-inspector-go/internal/preprocess"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

const (
	MinImageWidth  = 100
	MinImageHeight = 100
)

// SupportedFormats lists the accepted image encodings by decoder name.
var SupportedFormats = []string{"jpeg", "png", "bmp", "tiff", "webp"}

// ValidateImageInfo rejects unsupported formats and images under 100x100.
func ValidateImageInfo(info models.ImageInfo) error {
	supported := false
	for _, f := range SupportedFormats {
		if info.Format == f {
			supported = true
			break
		}
	}
	if !supported {
		return apperrors.NewValidationError(
			fmt.Sprintf("unsupported image format %q", info.Format), nil).
			WithDetails("supported formats: JPEG, PNG, BMP, TIFF, WEBP")
	}
	if info.Width < MinImageWidth || info.Height < MinImageHeight {
		return apperrors.NewValidationError(
			fmt.Sprintf("image is %dx%d, minimum is %dx%d", info.Width, info.Height, MinImageWidth, MinImageHeight), nil)
	}
	return nil
}

// ValidateLabelOptions checks caller-supplied pipeline settings.
func ValidateLabelOptions(opts models.LabelOptions) error {
	if f := opts.ResizeFactor; f != nil {
		if math.IsNaN(*f) || *f < preprocess.MinResizeFactor || *f > preprocess.MaxResizeFactor {
			return apperrors.NewValidationError(
				fmt.Sprintf("resize_factor must be between %.1f and %.1f", preprocess.MinResizeFactor, preprocess.MaxResizeFactor), nil)
		}
	}
	if c := opts.ConfidenceThreshold; c != nil {
		if *c < ocr.MinConfidenceThreshold || *c > ocr.MaxConfidenceThreshold {
			return apperrors.NewValidationError(
				fmt.Sprintf("confidence_threshold must be between %d and %d", ocr.MinConfidenceThreshold, ocr.MaxConfidenceThreshold), nil)
		}
	}
	return nil
}
