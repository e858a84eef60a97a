// Command scan analyses label photos from the local file system and prints one
// JSON result per line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anime-shed/label-inspector-go/internal/config"
	"github.com/anime-shed/label-inspector-go/internal/container"
	"github.com/anime-shed/label-inspector-go/internal/logger"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

func main() {
	var (
		provider   = flag.String("provider", "", "semantic analyzer: openai, gemini or none (default from ANALYZER_PROVIDER)")
		workers    = flag.Int("workers", 0, "concurrent images, 0 means one per CPU")
		threshold  = flag.Int("threshold", -1, "OCR confidence threshold 0-100, -1 keeps the default")
		resize     = flag.Float64("resize", 0, "resize factor 0.5-3.0, 0 keeps the default")
		noDenoise  = flag.Bool("no-denoise", false, "skip denoising")
		noContrast = flag.Bool("no-contrast", false, "skip contrast enhancement")
		morphology = flag.Bool("enhance-text", false, "run the morphological text enhancement pass")
		expected   = flag.String("expected", "", "reference transcription for WER/CER scoring")
		pretty     = flag.Bool("pretty", false, "indent JSON output")
		logLevel   = flag.String("log-level", "warn", "log level")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] image...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if *provider != "" {
		os.Setenv("ANALYZER_PROVIDER", *provider)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger.SetLevel(*logLevel)

	opts := models.LabelOptions{ExpectedText: *expected}
	if *threshold >= 0 {
		opts.ConfidenceThreshold = threshold
	}
	if *resize > 0 {
		opts.ResizeFactor = resize
	}
	if *noDenoise {
		off := false
		opts.Denoise = &off
	}
	if *noContrast {
		off := false
		opts.EnhanceContrast = &off
	}
	if *morphology {
		opts.EnhanceTextRegions = morphology
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}

	failed := 0
	for _, r := range c.Scanner(*workers).Scan(ctx, flag.Args(), opts) {
		if r.Err != nil {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			fmt.Fprintf(os.Stderr, "write: %v\n", err)
			os.Exit(1)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
