// Package ocr turns a binarized label image into normalized text using a
// pluggable recognition engine.
package ocr

import (
	"context"
	"image"
)

// Token is one recognised word with the engine's confidence in [0,100].
// Engines report -1 for layout blocks that carry no text.
type Token struct {
	Text       string
	Confidence float64
	Box        image.Rectangle
}

// Engine runs text recognition over a grayscale image and returns tokens in reading order.
type Engine interface {
	Recognize(ctx context.Context, img *image.Gray) ([]Token, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, img *image.Gray) ([]Token, error)

func (f EngineFunc) Recognize(ctx context.Context, img *image.Gray) ([]Token, error) {
	return f(ctx, img)
}
