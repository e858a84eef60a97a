// Package preprocess turns a photographed label into a binary image suited to
// text recognition.
package preprocess

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
)

// Preprocessor runs the fixed pipeline: grayscale, optional text region pass,
// resize, denoise, contrast normalisation, smoothing, binarisation. Output pixels are 0 or 255.
type Preprocessor interface {
	Process(ctx context.Context, img image.Image, opts Options) (*image.Gray, error)
}

type preprocessor struct{}

func NewPreprocessor() Preprocessor {
	return &preprocessor{}
}

func (p *preprocessor) Process(ctx context.Context, img image.Image, opts Options) (out *image.Gray, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = apperrors.NewPreprocessingError("image transform failed", fmt.Errorf("panic: %v", r))
		}
	}()

	if img == nil || img.Bounds().Empty() {
		return nil, apperrors.NewPreprocessingError("image is empty", nil)
	}
	if err := opts.Validate(); err != nil {
		return nil, apperrors.NewPreprocessingError("invalid preprocessing options", err)
	}

	gray := ToGray(img)

	if opts.MorphologyPass {
		if gray, err = EnhanceTextRegions(gray); err != nil {
			return nil, apperrors.NewPreprocessingError("text region enhancement failed", err)
		}
	}
	if opts.ResizeFactor != 1.0 {
		if gray, err = Resize(gray, opts.ResizeFactor); err != nil {
			return nil, apperrors.NewPreprocessingError("resize failed", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPreprocessingError("preprocessing cancelled", err)
	}

	if opts.Denoise {
		if gray, err = Denoise(gray, opts.DenoiseStrength, opts.PatchRadius, opts.SearchRadius); err != nil {
			return nil, apperrors.NewPreprocessingError("denoising failed", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewPreprocessingError("preprocessing cancelled", err)
		}
	}
	if opts.EnhanceContrast {
		if gray, err = CLAHE(gray, opts.ClipLimit, opts.TileGridSize); err != nil {
			return nil, apperrors.NewPreprocessingError("contrast enhancement failed", err)
		}
	}
	if opts.BlurSigma > 0 {
		if gray, err = Smooth(gray, opts.BlurSigma); err != nil {
			return nil, apperrors.NewPreprocessingError("smoothing failed", err)
		}
	}

	binary, _, err := Binarize(gray)
	if err != nil {
		return nil, apperrors.NewPreprocessingError("binarisation failed", err)
	}
	return binary, nil
}

// ToGray converts any image to 8-bit luma with its origin moved to (0,0).
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Resize scales by factor with Catmull-Rom cubic interpolation.
func Resize(img *image.Gray, factor float64) (*image.Gray, error) {
	b := img.Bounds()
	w := int(float64(b.Dx()) * factor)
	h := int(float64(b.Dy()) * factor)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("resize by %v gives %dx%d", factor, w, h)
	}
	return ToGray(imaging.Resize(img, w, h, imaging.CatmullRom)), nil
}
