package preprocess

import (
	"image"

	"gocv.io/x/gocv"
)

// EnhanceTextRegions runs a 3×3 closing, which removes dark specks on the
// background, then an opening, which bridges light gaps inside dark strokes.
// Strokes thinner than the kernel do not survive, so this pass only suits
// images where text is at least three pixels wide.
func EnhanceTextRegions(img *image.Gray) (*image.Gray, error) {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	return transform(img, func(src gocv.Mat, dst *gocv.Mat) {
		closed := gocv.NewMat()
		defer closed.Close()
		gocv.MorphologyEx(src, &closed, gocv.MorphClose, kernel)
		gocv.MorphologyEx(closed, dst, gocv.MorphOpen, kernel)
	})
}
