package preprocess

import (
	"fmt"
	"math"
)

const (
	MinResizeFactor = 0.5
	MaxResizeFactor = 3.0
)

// Options configures the preprocessing pipeline. The zero value is not useful; start from DefaultOptions.
type Options struct {
	// Caller-facing toggles
	EnhanceContrast bool
	Denoise         bool
	ResizeFactor    float64

	// Contrast normalisation
	ClipLimit    float64
	TileGridSize int

	// Non-local means: filter strength h and window radii
	DenoiseStrength float64
	PatchRadius     int
	SearchRadius    int

	// Smoothing before binarisation; 0 disables
	BlurSigma float64

	// Close/open pass on the grayscale image to join broken strokes
	MorphologyPass bool
}

// DefaultOptions returns the settings used for photographed labels.
func DefaultOptions() Options {
	return Options{
		EnhanceContrast: true,
		Denoise:         true,
		ResizeFactor:    1.5,
		ClipLimit:       2.0,
		TileGridSize:    8,
		DenoiseStrength: 10,
		PatchRadius:     1,
		SearchRadius:    3,
		BlurSigma:       0.5,
	}
}

// FastOptions skips the expensive denoising stage.
func FastOptions() Options {
	opts := DefaultOptions()
	opts.Denoise = false
	opts.ResizeFactor = 1.0
	return opts
}

func (opts Options) WithResizeFactor(f float64) Options {
	opts.ResizeFactor = f
	return opts
}

func (opts Options) WithContrastEnhancement(enabled bool) Options {
	opts.EnhanceContrast = enabled
	return opts
}

func (opts Options) WithDenoise(enabled bool) Options {
	opts.Denoise = enabled
	return opts
}

func (opts Options) WithCLAHE(clipLimit float64, tileGridSize int) Options {
	opts.ClipLimit = clipLimit
	opts.TileGridSize = tileGridSize
	return opts
}

func (opts Options) WithMorphology() Options {
	opts.MorphologyPass = true
	return opts
}

// Validate reports option values the pipeline cannot run with.
func (opts Options) Validate() error {
	if math.IsNaN(opts.ResizeFactor) || math.IsInf(opts.ResizeFactor, 0) || opts.ResizeFactor <= 0 {
		return fmt.Errorf("resize factor must be a positive number, got %v", opts.ResizeFactor)
	}
	if opts.EnhanceContrast {
		if !(opts.ClipLimit > 0) {
			return fmt.Errorf("clip limit must be > 0, got %v", opts.ClipLimit)
		}
		if opts.TileGridSize < 1 {
			return fmt.Errorf("tile grid size must be >= 1, got %d", opts.TileGridSize)
		}
	}
	if opts.Denoise {
		if !(opts.DenoiseStrength > 0) {
			return fmt.Errorf("denoise strength must be > 0, got %v", opts.DenoiseStrength)
		}
		if opts.PatchRadius < 0 || opts.SearchRadius < 1 {
			return fmt.Errorf("invalid denoise window: patch radius %d, search radius %d", opts.PatchRadius, opts.SearchRadius)
		}
	}
	if opts.BlurSigma < 0 || math.IsNaN(opts.BlurSigma) {
		return fmt.Errorf("blur sigma must be >= 0, got %v", opts.BlurSigma)
	}
	return nil
}
