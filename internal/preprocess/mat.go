package preprocess

import (
	"fmt"
	"image"
	"runtime"

	"gocv.io/x/gocv"
)

// grayMat copies img into a single-channel Mat owned by OpenCV. The caller closes it.
func grayMat(img *image.Gray) (gocv.Mat, error) {
	if img.Stride != img.Bounds().Dx() || img.Bounds().Min != (image.Point{}) {
		img = ToGray(img)
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	view, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, img.Pix[:w*h])
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap %dx%d image: %w", w, h, err)
	}
	defer view.Close()
	m := view.Clone()
	runtime.KeepAlive(img)
	return m, nil
}

// grayImage copies a single-channel Mat back into Go memory.
func grayImage(m gocv.Mat) (*image.Gray, error) {
	if m.Empty() || m.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("unexpected result matrix (empty=%t type=%v)", m.Empty(), m.Type())
	}
	w, h := m.Cols(), m.Rows()
	return &image.Gray{Pix: m.ToBytes(), Stride: w, Rect: image.Rect(0, 0, w, h)}, nil
}

// transform runs fn over a Mat copy of img and returns the result as an image.
func transform(img *image.Gray, fn func(src gocv.Mat, dst *gocv.Mat)) (*image.Gray, error) {
	src, err := grayMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	fn(src, &dst)
	return grayImage(dst)
}
