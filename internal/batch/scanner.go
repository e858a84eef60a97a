// Package batch analyses many label images concurrently, for the command line scanner.
package batch

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/label-inspector-go/internal/logger"
	"github.com/anime-shed/label-inspector-go/internal/service"
	"github.com/anime-shed/label-inspector-go/internal/storage"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

// Result is the outcome for one input. Exactly one of Response and Err is set.
type Result struct {
	Ref      string                        `json:"ref"`
	Response *models.LabelAnalysisResponse `json:"response,omitempty"`
	Err      error                         `json:"-"`
	Error    string                        `json:"error,omitempty"`
}

// Scanner loads images through a fetcher and runs each through the label service.
type Scanner struct {
	svc     service.LabelService
	loader  storage.ImageFetcher
	workers int
}

func NewScanner(svc service.LabelService, loader storage.ImageFetcher, workers int) *Scanner {
	return &Scanner{svc: svc, loader: loader, workers: workers}
}

// Scan analyses every ref and returns results in input order. A failure on one
// ref does not stop the others; a cancelled ctx fails the refs not yet started.
func (s *Scanner) Scan(ctx context.Context, refs []string, opts models.LabelOptions) []Result {
	results := make([]Result, len(refs))
	if len(refs) == 0 {
		return results
	}

	pool := NewWorkerPool(s.workers)
	pool.Start()
	defer pool.Close()

	start := time.Now()
	for i, ref := range refs {
		i, ref := i, ref
		pool.Submit(func() {
			results[i] = s.scanOne(ctx, ref, opts)
		})
	}
	pool.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.WithFields(logrus.Fields{
		"images":      len(refs),
		"failed":      failed,
		"workers":     pool.Workers(),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Batch scan finished")
	return results
}

func (s *Scanner) scanOne(ctx context.Context, ref string, opts models.LabelOptions) Result {
	res := Result{Ref: ref}
	if err := ctx.Err(); err != nil {
		return res.failed(err)
	}
	loaded, err := s.loader.FetchImage(ctx, ref)
	if err != nil {
		return res.failed(err)
	}
	resp, err := s.svc.AnalyzeImage(ctx, loaded, "file:"+ref, opts)
	if err != nil {
		return res.failed(err)
	}
	res.Response = resp
	return res
}

func (r Result) failed(err error) Result {
	r.Err = err
	r.Error = err.Error()
	return r
}
