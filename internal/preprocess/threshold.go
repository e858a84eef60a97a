package preprocess

import (
	"image"

	"gocv.io/x/gocv"
)

// Binarize applies Otsu's global threshold: pixels above the chosen level
// become 255, the rest 0. A single-valued image picks level 0.
func Binarize(img *image.Gray) (*image.Gray, uint8, error) {
	var level float32
	out, err := transform(img, func(src gocv.Mat, dst *gocv.Mat) {
		level = gocv.Threshold(src, dst, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	})
	if err != nil {
		return nil, 0, err
	}
	return out, uint8(level), nil
}
