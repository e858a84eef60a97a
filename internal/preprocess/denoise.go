package preprocess

import (
	"image"

	"gocv.io/x/gocv"
)

// Denoise applies fast non-local means. strength is the filter parameter h;
// the patch and search windows are 2r+1 pixels wide.
func Denoise(img *image.Gray, strength float64, patchRadius, searchRadius int) (*image.Gray, error) {
	return transform(img, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.FastNlMeansDenoisingWithParams(src, dst, float32(strength), 2*patchRadius+1, 2*searchRadius+1)
	})
}

// Smooth is a Gaussian blur with the kernel size derived from sigma.
func Smooth(img *image.Gray, sigma float64) (*image.Gray, error) {
	return transform(img, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.GaussianBlur(src, dst, image.Point{}, sigma, sigma, gocv.BorderDefault)
	})
}
