package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/anime-shed/label-inspector-go/internal/allergen"
	"github.com/anime-shed/label-inspector-go/internal/analyzer"
	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
	"github.com/anime-shed/label-inspector-go/internal/logger"
	"github.com/anime-shed/label-inspector-go/internal/observer"
	"github.com/anime-shed/label-inspector-go/internal/ocr"
	"github.com/anime-shed/label-inspector-go/internal/preprocess"
	"github.com/anime-shed/label-inspector-go/internal/quality"
	"github.com/anime-shed/label-inspector-go/internal/reconcile"
	"github.com/anime-shed/label-inspector-go/internal/repository"
	"github.com/anime-shed/label-inspector-go/internal/section"
	"github.com/anime-shed/label-inspector-go/internal/storage"
	"github.com/anime-shed/label-inspector-go/pkg/models"
	"github.com/anime-shed/label-inspector-go/pkg/validation"
)

const (
	// DefaultAnalysisTimeout bounds a single semantic analyzer call.
	DefaultAnalysisTimeout = 30 * time.Second

	// Sections shorter than this are not worth sending to the analyzer.
	minIngredientsLength = 5
)

var errAnalyzerDisabled = errors.New("no semantic analyzer configured")

// LabelService defines the label analysis operations
type LabelService interface {
	// AnalyzeImage runs the full pipeline over a decoded image.
	AnalyzeImage(ctx context.Context, img *storage.LoadedImage, source string, opts models.LabelOptions) (*models.LabelAnalysisResponse, error)
	// AnalyzeURL fetches the image first.
	AnalyzeURL(ctx context.Context, imageURL string, opts models.LabelOptions) (*models.LabelAnalysisResponse, error)
	// AnalyzeText skips the image stages.
	AnalyzeText(ctx context.Context, text string) (*models.TextAnalysisResponse, error)
	// DescribeIngredient never fails once name is valid; analyzer errors yield placeholder details.
	DescribeIngredient(ctx context.Context, name string) (*models.IngredientDetails, error)

	ValidateImageURL(imageURL string) error
}

// Dependencies are the pipeline stages. Extractor and Locator are required;
// a nil Analyzer makes every analysis a failure result, a nil Repository
// disables URL analysis, and the rest fall back to defaults.
type Dependencies struct {
	Repository   repository.ImageRepository
	Estimator    quality.Estimator
	Preprocessor preprocess.Preprocessor
	Extractor    *ocr.Extractor
	Locator      *section.Locator
	Detector     *allergen.Detector
	Reconciler   *reconcile.Reconciler
	Analyzer     analyzer.SemanticAnalyzer
	Advisor      *validation.QualityValidator
	Events       observer.Subject

	AnalysisTimeout time.Duration
}

type labelService struct {
	repo         repository.ImageRepository
	estimator    quality.Estimator
	preprocessor preprocess.Preprocessor
	extractor    *ocr.Extractor
	locator      *section.Locator
	detector     *allergen.Detector
	reconciler   *reconcile.Reconciler
	analyzer     analyzer.SemanticAnalyzer
	advisor      *validation.QualityValidator
	events       observer.Subject
	timeout      time.Duration
}

// NewLabelService creates the label analysis service
func NewLabelService(deps Dependencies) (LabelService, error) {
	if deps.Extractor == nil {
		return nil, fmt.Errorf("label service: extractor is required")
	}
	if deps.Locator == nil {
		return nil, fmt.Errorf("label service: section locator is required")
	}

	s := &labelService{
		repo:         deps.Repository,
		estimator:    deps.Estimator,
		preprocessor: deps.Preprocessor,
		extractor:    deps.Extractor,
		locator:      deps.Locator,
		detector:     deps.Detector,
		reconciler:   deps.Reconciler,
		analyzer:     deps.Analyzer,
		advisor:      deps.Advisor,
		events:       deps.Events,
		timeout:      deps.AnalysisTimeout,
	}
	if s.estimator == nil {
		s.estimator = quality.NewEstimator()
	}
	if s.preprocessor == nil {
		s.preprocessor = preprocess.NewPreprocessor()
	}
	if s.detector == nil {
		s.detector = allergen.NewDetector(nil)
	}
	if s.reconciler == nil {
		s.reconciler = reconcile.New(s.detector)
	}
	if s.advisor == nil {
		s.advisor = validation.NewQualityValidator()
	}
	if s.events == nil {
		s.events = observer.Nop{}
	}
	if s.timeout <= 0 {
		s.timeout = DefaultAnalysisTimeout
	}
	return s, nil
}

func (s *labelService) AnalyzeImage(ctx context.Context, img *storage.LoadedImage, source string, opts models.LabelOptions) (*models.LabelAnalysisResponse, error) {
	if img == nil || img.Image == nil {
		return nil, apperrors.NewValidationError("no image supplied", nil)
	}
	info := img.Info
	if info.Width == 0 || info.Height == 0 {
		b := img.Image.Bounds()
		info.Width, info.Height = b.Dx(), b.Dy()
	}
	if err := validation.ValidateImageInfo(info); err != nil {
		return nil, err
	}
	if err := validation.ValidateLabelOptions(opts); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	ctx = withRequestID(ctx, id)
	start := time.Now()
	s.publish(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted, Source: source, Success: true})

	var (
		report quality.Report
		gray   *image.Gray
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.Now()
		report = s.estimator.Report(img.Image)
		s.stageDone(ctx, source, observer.StageQuality, t)
		return nil
	})
	g.Go(func() error {
		t := time.Now()
		out, err := s.preprocessor.Process(gctx, img.Image, preprocessOptions(opts))
		if err != nil {
			return err
		}
		gray = out
		s.stageDone(ctx, source, observer.StagePreprocess, t)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, source, start, err)
	}

	t := time.Now()
	threshold := confidenceThreshold(opts)
	extracted, err := s.extractor.ExtractDetailed(ctx, gray, threshold)
	if err != nil {
		return nil, s.fail(ctx, source, start, err)
	}
	s.stageDone(ctx, source, observer.StageExtract, t)

	match, analysis := s.analyze(ctx, source, extracted.Text)

	resp := &models.LabelAnalysisResponse{
		ID:        id,
		Timestamp: start.UTC(),
		Source:    source,
		Image:     &info,
		Quality: models.QualityReport{
			Score:       report.Score,
			Contrast:    report.Contrast,
			Sharpness:   report.Sharpness,
			Brightness:  report.Brightness,
			TextDensity: report.TextLike,
		},
		OCR: models.OCRReport{
			ExtractedText:       extracted.Text,
			IngredientsSection:  match.Text,
			SectionRule:         match.Rule,
			Confidence:          extracted.Confidence,
			ConfidenceThreshold: ocr.ClampThreshold(threshold),
			TokensKept:          extracted.Kept,
			TokensDropped:       extracted.Dropped,
			DetectedAllergens:   s.detector.Detect(extracted.Text),
		},
		Analysis: analysis,
	}
	if strings.TrimSpace(opts.ExpectedText) != "" {
		resp.OCR.ExpectedText = opts.ExpectedText
		resp.OCR.WER, resp.OCR.CER = errorRates(opts.ExpectedText, extracted.Text)
	}
	resp.Warnings = s.advisor.Advise(validation.LabelQualityInput{
		Quality:       resp.Quality,
		Image:         resp.Image,
		ExtractedText: extracted.Text,
		OCRConfidence: extracted.Confidence,
	})
	resp.ProcessingTimeSec = time.Since(start).Seconds()

	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Source:         source,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"quality_score": report.Score,
			"section_rule":  match.Rule,
			"tokens_kept":   extracted.Kept,
		},
	})
	return resp, nil
}

func (s *labelService) AnalyzeURL(ctx context.Context, imageURL string, opts models.LabelOptions) (*models.LabelAnalysisResponse, error) {
	if s.repo == nil {
		return nil, apperrors.NewValidationError("URL analysis is not enabled", nil)
	}
	if err := validation.ValidateLabelOptions(opts); err != nil {
		return nil, err
	}
	loaded, err := s.repo.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeImage(ctx, loaded, redact(imageURL), opts)
}

func (s *labelService) AnalyzeText(ctx context.Context, text string) (*models.TextAnalysisResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("text is required", nil)
	}

	id := uuid.NewString()
	ctx = withRequestID(ctx, id)
	start := time.Now()
	const source = "text"
	s.publish(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted, Source: source, Success: true})

	match, analysis := s.analyze(ctx, source, text)

	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Source:         source,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata:       map[string]interface{}{"section_rule": match.Rule},
	})
	return &models.TextAnalysisResponse{
		ID:                 id,
		Timestamp:          start.UTC(),
		IngredientsSection: match.Text,
		SectionRule:        match.Rule,
		Analysis:           analysis,
	}, nil
}

func (s *labelService) DescribeIngredient(ctx context.Context, name string) (*models.IngredientDetails, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("ingredient name is required", nil)
	}
	if s.analyzer == nil {
		return analyzer.FallbackDetails(name, errAnalyzerDisabled), nil
	}

	actx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	details, err := s.analyzer.DescribeIngredient(actx, name)
	if err != nil {
		s.analyzerFailed(ctx, name, err)
		return analyzer.FallbackDetails(name, err), nil
	}
	return details, nil
}

func (s *labelService) ValidateImageURL(imageURL string) error {
	if s.repo == nil {
		return apperrors.NewValidationError("URL analysis is not enabled", nil)
	}
	return s.repo.ValidateImageURL(imageURL)
}

// analyze locates the ingredients section and turns it into an AnalysisResult.
// It never fails; problems become failure results.
func (s *labelService) analyze(ctx context.Context, source, text string) (section.Match, models.AnalysisResult) {
	t := time.Now()
	match := s.locator.LocateMatch(text)
	s.stageDone(ctx, source, observer.StageSection, t)

	if len(strings.TrimSpace(match.Text)) < minIngredientsLength {
		return match, reconcile.Failed(reconcile.MsgNoIngredients)
	}
	if s.analyzer == nil {
		s.analyzerFailed(ctx, source, errAnalyzerDisabled)
		return match, reconcile.Failed(reconcile.MsgAnalysisUnavailable)
	}

	t = time.Now()
	actx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	raw, err := s.analyzer.Analyze(actx, match.Text)
	if err != nil {
		if s.analyzerFailed(ctx, source, err) == "timeout" {
			return match, reconcile.Failed(reconcile.MsgAnalysisTimedOut)
		}
		return match, reconcile.Failed(reconcile.MsgAnalysisUnavailable)
	}
	s.stageDone(ctx, source, observer.StageAnalyze, t)

	t = time.Now()
	result := s.reconciler.Reconcile(raw, text)
	s.stageDone(ctx, source, observer.StageReconcile, t)
	return match, result
}

// analyzerFailed logs and publishes an analyzer failure and returns its reason label.
func (s *labelService) analyzerFailed(ctx context.Context, source string, err error) string {
	reason := "error"
	switch {
	case errors.Is(err, errAnalyzerDisabled):
		reason = "disabled"
	case errors.Is(err, context.DeadlineExceeded) || apperrors.IsType(err, apperrors.ErrorTypeTimeout):
		reason = "timeout"
	}

	entry := logger.FromContext(ctx).WithError(err).WithField("reason", reason)
	if s.analyzer != nil {
		entry = entry.WithField("analyzer", s.analyzer.Name())
	}
	entry.Warn("Semantic analysis unavailable")

	s.publish(ctx, observer.AnalysisEvent{
		EventType:    observer.AnalyzerUnavailable,
		Source:       source,
		Stage:        observer.StageAnalyze,
		ErrorMessage: err.Error(),
		Metadata:     map[string]interface{}{"reason": reason},
	})
	return reason
}

func (s *labelService) fail(ctx context.Context, source string, start time.Time, err error) error {
	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisFailed,
		Source:         source,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewInternalError("label analysis failed", err)
}

func (s *labelService) stageDone(ctx context.Context, source string, stage observer.Stage, started time.Time) {
	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.StageCompleted,
		Source:         source,
		Stage:          stage,
		ProcessingTime: time.Since(started),
		Success:        true,
	})
}

func (s *labelService) publish(ctx context.Context, event observer.AnalysisEvent) {
	event.RequestID = logger.RequestIDFromContext(ctx)
	s.events.NotifyObservers(ctx, event)
}

func withRequestID(ctx context.Context, id string) context.Context {
	if logger.RequestIDFromContext(ctx) != "" {
		return ctx
	}
	return logger.ContextWithRequestID(ctx, id)
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
