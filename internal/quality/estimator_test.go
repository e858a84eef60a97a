package quality

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"
)

func createTestImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func checkerboard(width, height, cell int) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/cell+y/cell)%2 == 0 {
				gray.SetGray(x, y, color.Gray{Y: 0})
			} else {
				gray.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return gray
}

func TestEstimate_Range(t *testing.T) {
	e := NewEstimator()
	images := map[string]image.Image{
		"black":        createTestImage(50, 50, color.RGBA{0, 0, 0, 255}),
		"white":        createTestImage(50, 50, color.RGBA{255, 255, 255, 255}),
		"gray":         createTestImage(50, 50, color.RGBA{128, 128, 128, 255}),
		"checkerboard": checkerboard(60, 60, 2),
		"minimal":      createTestImage(3, 3, color.RGBA{10, 200, 30, 255}),
	}
	for name, img := range images {
		s := e.Estimate(img)
		if s < 0 || s > 1 || math.IsNaN(s) {
			t.Errorf("%s: score %v outside [0,1]", name, s)
		}
	}
}

func TestEstimate_UniformGray(t *testing.T) {
	e := NewEstimator()
	r := e.Report(createTestImage(40, 40, color.RGBA{128, 128, 128, 255}))

	if r.Contrast != 0 || r.Sharpness != 0 || r.TextLike != 0 {
		t.Errorf("expected zero contrast, sharpness and edges, got %+v", r)
	}
	// mean 128 is almost mid-range
	if math.Abs(r.Brightness-1) > 0.01 {
		t.Errorf("expected brightness near 1, got %v", r.Brightness)
	}
	if math.Abs(r.Score-0.2*r.Brightness) > 1e-9 {
		t.Errorf("expected score to be the brightness term only, got %v", r.Score)
	}
}

func TestEstimate_SharpTextBeatsFlat(t *testing.T) {
	e := NewEstimator()
	flat := e.Estimate(createTestImage(60, 60, color.RGBA{200, 200, 200, 255}))
	sharp := e.Estimate(checkerboard(60, 60, 3))
	if sharp <= flat {
		t.Errorf("expected high-detail image to score higher: flat %v sharp %v", flat, sharp)
	}
}

func TestEstimate_Degenerate(t *testing.T) {
	e := NewEstimator()
	cases := map[string]image.Image{
		"nil":      nil,
		"empty":    image.NewGray(image.Rect(0, 0, 0, 0)),
		"too thin": createTestImage(2, 50, color.RGBA{0, 0, 0, 255}),
		"too flat": createTestImage(50, 1, color.RGBA{0, 0, 0, 255}),
	}
	for name, img := range cases {
		if got := e.Estimate(img); got != DefaultScore {
			t.Errorf("%s: expected %v, got %v", name, DefaultScore, got)
		}
	}
}

func TestEstimate_NaNConstantsFallBack(t *testing.T) {
	c := DefaultConstants()
	c.SharpnessNormalizer = 0 // 0/0 for a flat image
	e := NewEstimatorWithConstants(c)
	if got := e.Estimate(createTestImage(20, 20, color.RGBA{90, 90, 90, 255})); got != DefaultScore {
		t.Errorf("expected fallback score, got %v", got)
	}
}

func TestEstimate_NonZeroOrigin(t *testing.T) {
	e := NewEstimator()
	full := checkerboard(80, 80, 4)
	sub := full.SubImage(image.Rect(20, 20, 60, 60))
	if s := e.Estimate(sub); s <= 0 || s > 1 {
		t.Errorf("unexpected score for sub image: %v", s)
	}
}

func TestLaplacianVariance(t *testing.T) {
	e := NewEstimator().(*estimator)

	uniform := image.NewGray(image.Rect(0, 0, 50, 50))
	if v := e.laplacianVariance(uniform); v != 0 {
		t.Errorf("expected zero variance for uniform image, got %v", v)
	}

	edges := checkerboard(50, 50, 25)
	if v := e.laplacianVariance(edges); v < 100 {
		t.Errorf("expected higher variance for edge image, got %v", v)
	}
}
