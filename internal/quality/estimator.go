package quality

import (
	"image"
	stddraw "image/draw"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// DefaultScore is reported when an image cannot be measured.
const DefaultScore = 0.5

// Constants are the normalisers and weights of the score. Weights should sum to 1.
type Constants struct {
	SharpnessNormalizer float64
	GradientNormalizer  float64

	ContrastWeight   float64
	SharpnessWeight  float64
	BrightnessWeight float64
	TextWeight       float64
}

func DefaultConstants() Constants {
	return Constants{
		SharpnessNormalizer: 1000,
		GradientNormalizer:  100,
		ContrastWeight:      0.3,
		SharpnessWeight:     0.3,
		BrightnessWeight:    0.2,
		TextWeight:          0.2,
	}
}

// Report breaks the score into its sub-scores, each in [0,1].
type Report struct {
	Score      float64 `json:"score"`
	Contrast   float64 `json:"contrast"`
	Sharpness  float64 `json:"sharpness"`
	Brightness float64 `json:"brightness"`
	TextLike   float64 `json:"text_density"`
}

// Estimator predicts how hard an image will be to read. It never fails.
type Estimator interface {
	Estimate(img image.Image) float64
	Report(img image.Image) Report
}

type estimator struct {
	c         Constants
	slicePool sync.Pool
}

func NewEstimator() Estimator {
	return NewEstimatorWithConstants(DefaultConstants())
}

func NewEstimatorWithConstants(c Constants) Estimator {
	return &estimator{
		c: c,
		slicePool: sync.Pool{
			New: func() interface{} {
				return make([]float64, 0, 1024)
			},
		},
	}
}

func (e *estimator) Estimate(img image.Image) float64 {
	return e.Report(img).Score
}

func (e *estimator) Report(img image.Image) (r Report) {
	fallback := Report{Score: DefaultScore}
	defer func() {
		if rec := recover(); rec != nil {
			r = fallback
		}
	}()

	if img == nil {
		return fallback
	}
	b := img.Bounds()
	if b.Dx() < 3 || b.Dy() < 3 {
		return fallback
	}
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(gray, gray.Bounds(), img, b.Min, stddraw.Src)

	mean, std := e.meanStdDev(gray)
	lapVar := e.laplacianVariance(gray)
	gradient := meanGradientMagnitude(gray)

	r = Report{
		Contrast:   std / 255,
		Sharpness:  math.Min(lapVar/e.c.SharpnessNormalizer, 1),
		Brightness: 1 - math.Abs(mean/255-0.5)*2,
		TextLike:   math.Min(gradient/e.c.GradientNormalizer, 1),
	}
	r.Score = clamp01(e.c.ContrastWeight*r.Contrast +
		e.c.SharpnessWeight*r.Sharpness +
		e.c.BrightnessWeight*r.Brightness +
		e.c.TextWeight*r.TextLike)

	for _, v := range []float64{r.Score, r.Contrast, r.Sharpness, r.Brightness, r.TextLike} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
	}
	return r
}

func (e *estimator) meanStdDev(gray *image.Gray) (float64, float64) {
	data := make([]float64, len(gray.Pix))
	for i, v := range gray.Pix {
		data[i] = float64(v)
	}
	return stat.PopMeanStdDev(data, nil)
}

// laplacianVariance is the population variance of the 4-neighbour Laplacian
// over interior pixels.
func (e *estimator) laplacianVariance(gray *image.Gray) float64 {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()

	data := e.slicePool.Get().([]float64)
	defer func() { e.slicePool.Put(data[:0]) }()
	if cap(data) < (width-2)*(height-2) {
		data = make([]float64, 0, (width-2)*(height-2))
	}

	// Laplacian kernel: [0, 1, 0; 1, -4, 1; 0, 1, 0]
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			center := float64(gray.GrayAt(x, y).Y)
			top := float64(gray.GrayAt(x, y-1).Y)
			bottom := float64(gray.GrayAt(x, y+1).Y)
			left := float64(gray.GrayAt(x-1, y).Y)
			right := float64(gray.GrayAt(x+1, y).Y)
			data = append(data, -4*center+top+bottom+left+right)
		}
	}
	if len(data) == 0 {
		return 0
	}
	_, variance := stat.PopMeanVariance(data, nil)
	return variance
}

// meanGradientMagnitude averages the Sobel gradient magnitude over interior
// pixels, processing horizontal strips in parallel.
func meanGradientMagnitude(gray *image.Gray) float64 {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	interior := height - 2

	numWorkers := runtime.NumCPU()
	if interior < numWorkers {
		numWorkers = interior
	}
	if numWorkers <= 0 {
		return 0
	}
	rowsPerWorker := (interior + numWorkers - 1) / numWorkers

	sums := make([]float64, numWorkers)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := 1 + i*rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height-1 {
			endY = height - 1
		}
		wg.Add(1)
		go func(i, startY, endY int) {
			defer wg.Done()
			var s float64
			for y := startY; y < endY; y++ {
				for x := 1; x < width-1; x++ {
					gx := sobelX(gray, x, y)
					gy := sobelY(gray, x, y)
					s += math.Sqrt(float64(gx*gx + gy*gy))
				}
			}
			sums[i] = s
		}(i, startY, endY)
	}
	wg.Wait()

	// Summed in worker order so the result does not depend on scheduling.
	var total float64
	for _, s := range sums {
		total += s
	}
	return total / float64((width-2)*(height-2))
}

func sobelX(gray *image.Gray, x, y int) int {
	return -1*int(gray.GrayAt(x-1, y-1).Y) + 1*int(gray.GrayAt(x+1, y-1).Y) +
		-2*int(gray.GrayAt(x-1, y).Y) + 2*int(gray.GrayAt(x+1, y).Y) +
		-1*int(gray.GrayAt(x-1, y+1).Y) + 1*int(gray.GrayAt(x+1, y+1).Y)
}

func sobelY(gray *image.Gray, x, y int) int {
	return -1*int(gray.GrayAt(x-1, y-1).Y) - 2*int(gray.GrayAt(x, y-1).Y) - 1*int(gray.GrayAt(x+1, y-1).Y) +
		1*int(gray.GrayAt(x-1, y+1).Y) + 2*int(gray.GrayAt(x, y+1).Y) + 1*int(gray.GrayAt(x+1, y+1).Y)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
