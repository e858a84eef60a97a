package ocr

import (
	"context"
	"image"
	"strings"

	"gonum.org/v1/gonum/stat"

	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
)

const (
	DefaultConfidenceThreshold = 30
	MinConfidenceThreshold     = 0
	MaxConfidenceThreshold     = 100
)

// Result is the outcome of one recognition pass.
type Result struct {
	Text       string
	Kept       int
	Dropped    int
	Confidence float64 // mean of positive token confidences, 0 when none
}

// Extractor filters engine tokens by confidence and normalizes the surviving text.
type Extractor struct {
	engine Engine
}

func NewExtractor(engine Engine) *Extractor {
	return &Extractor{engine: engine}
}

// ClampThreshold forces a threshold into [0,100].
func ClampThreshold(threshold int) int {
	if threshold < MinConfidenceThreshold {
		return MinConfidenceThreshold
	}
	if threshold > MaxConfidenceThreshold {
		return MaxConfidenceThreshold
	}
	return threshold
}

// Extract returns the normalized text of tokens whose confidence is strictly
// greater than threshold. Empty text is a valid result.
func (e *Extractor) Extract(ctx context.Context, img *image.Gray, threshold int) (string, error) {
	res, err := e.ExtractDetailed(ctx, img, threshold)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// ExtractDetailed is Extract plus token counts and mean confidence from the same engine pass.
func (e *Extractor) ExtractDetailed(ctx context.Context, img *image.Gray, threshold int) (Result, error) {
	tokens, err := e.recognize(ctx, img)
	if err != nil {
		return Result{}, err
	}
	threshold = ClampThreshold(threshold)

	var res Result
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Confidence <= float64(threshold) {
			res.Dropped++
			continue
		}
		text := strings.TrimSpace(tok.Text)
		if text == "" {
			res.Dropped++
			continue
		}
		words = append(words, text)
		res.Kept++
	}
	res.Text = Normalize(strings.Join(words, " "))
	res.Confidence = meanConfidence(tokens)
	return res, nil
}

// Confidence runs the engine and reports the mean positive token confidence.
// Engine failures yield 0.
func (e *Extractor) Confidence(ctx context.Context, img *image.Gray) float64 {
	tokens, err := e.recognize(ctx, img)
	if err != nil {
		return 0
	}
	return meanConfidence(tokens)
}

func (e *Extractor) recognize(ctx context.Context, img *image.Gray) ([]Token, error) {
	if e.engine == nil {
		return nil, apperrors.NewExtractionError("no recognition engine configured", nil)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, apperrors.NewExtractionError("no image to recognise", nil)
	}
	tokens, err := e.engine.Recognize(ctx, img)
	if err != nil {
		return nil, apperrors.NewExtractionError("text recognition failed", err)
	}
	return tokens, nil
}

func meanConfidence(tokens []Token) float64 {
	conf := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		if t.Confidence > 0 {
			conf = append(conf, t.Confidence)
		}
	}
	if len(conf) == 0 {
		return 0
	}
	return stat.Mean(conf, nil)
}
