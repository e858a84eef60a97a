// Package tesseract provides the gosseract-backed recognition engine.
// It needs libtesseract at build time, so it lives apart from package ocr.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/anime-shed/label-inspector-go/internal/ocr"
)

// LabelWhitelist is the character set found on ingredient panels.
const LabelWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789()[]{},.;:-_%/"

type Config struct {
	Languages      []string
	Whitelist      string
	PageSegMode    gosseract.PageSegMode
	TessdataPrefix string
	Variables      map[string]string
}

// DefaultConfig reads the panel as one uniform block of English text.
func DefaultConfig() Config {
	return Config{
		Languages:   []string{"eng"},
		Whitelist:   LabelWhitelist,
		PageSegMode: gosseract.PSM_SINGLE_BLOCK,
	}
}

// Engine implements ocr.Engine. A fresh client is created per call, so one
// Engine can serve concurrent requests.
type Engine struct {
	cfg           Config
	clientFactory func() *gosseract.Client
}

func New(cfg Config) *Engine {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"eng"}
	}
	return &Engine{cfg: cfg, clientFactory: gosseract.NewClient}
}

// Version reports the linked tesseract library version.
func (e *Engine) Version() string {
	c := e.clientFactory()
	defer c.Close()
	return c.Version()
}

func (e *Engine) Recognize(ctx context.Context, img *image.Gray) ([]ocr.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()
	if err := e.configure(c); err != nil {
		return nil, err
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognize words: %w", err)
	}
	// The C call is not interruptible; honour cancellation once it returns.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := make([]ocr.Token, 0, len(boxes))
	for _, b := range boxes {
		tokens = append(tokens, ocr.Token{
			Text:       strings.TrimSpace(b.Word),
			Confidence: b.Confidence,
			Box:        b.Box,
		})
	}
	return tokens, nil
}

func (e *Engine) configure(c *gosseract.Client) error {
	if e.cfg.TessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.cfg.TessdataPrefix); err != nil {
			return fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetLanguage(e.cfg.Languages...); err != nil {
		return fmt.Errorf("set languages: %w", err)
	}
	if e.cfg.Whitelist != "" {
		if err := c.SetWhitelist(e.cfg.Whitelist); err != nil {
			return fmt.Errorf("set whitelist: %w", err)
		}
	}
	if err := c.SetPageSegMode(e.cfg.PageSegMode); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	for k, v := range e.cfg.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	return nil
}
