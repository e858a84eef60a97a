package preprocess

import (
	"image"

	"gocv.io/x/gocv"
)

// CLAHE performs contrast limited adaptive histogram equalisation over a grid×grid tiling.
func CLAHE(img *image.Gray, clipLimit float64, grid int) (*image.Gray, error) {
	clahe := gocv.NewCLAHEWithParams(clipLimit, image.Pt(grid, grid))
	defer clahe.Close()

	return transform(img, func(src gocv.Mat, dst *gocv.Mat) {
		clahe.Apply(src, dst)
	})
}
