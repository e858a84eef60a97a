package service

import (
	"github.com/anime-shed/label-inspector-go/internal/ocr"
	"github.com/anime-shed/label-inspector-go/internal/preprocess"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

// preprocessOptions overlays the caller's toggles on the default pipeline settings.
func preprocessOptions(opts models.LabelOptions) preprocess.Options {
	p := preprocess.DefaultOptions()
	if opts.EnhanceContrast != nil {
		p = p.WithContrastEnhancement(*opts.EnhanceContrast)
	}
	if opts.Denoise != nil {
		p = p.WithDenoise(*opts.Denoise)
	}
	if opts.ResizeFactor != nil {
		p = p.WithResizeFactor(*opts.ResizeFactor)
	}
	if opts.EnhanceTextRegions != nil && *opts.EnhanceTextRegions {
		p = p.WithMorphology()
	}
	return p
}

func confidenceThreshold(opts models.LabelOptions) int {
	if opts.ConfidenceThreshold == nil {
		return ocr.DefaultConfidenceThreshold
	}
	return *opts.ConfidenceThreshold
}
