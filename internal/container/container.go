package container

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/label-inspector-go/internal/allergen"
	"github.com/anime-shed/label-inspector-go/internal/batch"
	"github.com/anime-shed/label-inspector-go/internal/config"
	"github.com/anime-shed/label-inspector-go/internal/factory"
	"github.com/anime-shed/label-inspector-go/internal/logger"
	"github.com/anime-shed/label-inspector-go/internal/observer"
	"github.com/anime-shed/label-inspector-go/internal/ocr"
	"github.com/anime-shed/label-inspector-go/internal/ocr/tesseract"
	"github.com/anime-shed/label-inspector-go/internal/reconcile"
	"github.com/anime-shed/label-inspector-go/internal/repository"
	"github.com/anime-shed/label-inspector-go/internal/section"
	"github.com/anime-shed/label-inspector-go/internal/service"
	"github.com/anime-shed/label-inspector-go/internal/storage"
	"github.com/anime-shed/label-inspector-go/internal/transport"
	"github.com/anime-shed/label-inspector-go/internal/vocabulary"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	metrics         *observer.MetricsObserver
	imageRepository repository.ImageRepository
	fileLoader      storage.ImageFetcher
	labelService    service.LabelService
	handler         http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	vocab, err := vocabulary.Load(cfg.VocabularyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	locator, err := section.NewLocator(vocab)
	if err != nil {
		return nil, fmt.Errorf("failed to build section locator: %w", err)
	}
	detector := allergen.NewDetector(vocab)

	engineCfg := tesseract.DefaultConfig()
	engineCfg.Languages = strings.Split(cfg.TesseractLanguage, "+")
	engineCfg.TessdataPrefix = cfg.TessdataPrefix
	engine := tesseract.New(engineCfg)

	components := factory.NewComponentFactory(cfg)
	semantic, err := components.AnalyzerFactory.CreateAnalyzer(ctx, cfg.AnalyzerProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}
	httpFetcher, err := components.StorageFactory.CreateStorage(factory.HTTPStorage)
	if err != nil {
		return nil, err
	}
	var blobFetcher storage.ImageFetcher
	if cfg.AzureEnabled() {
		blobFetcher, err = components.StorageFactory.CreateStorage(factory.AzureStorage)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure storage: %w", err)
		}
	}
	fileLoader, err := components.StorageFactory.CreateStorage(factory.LocalStorage)
	if err != nil {
		return nil, err
	}

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	metrics := observer.NewMetricsObserver()
	events.Subscribe(metrics)

	imageRepository := repository.NewURLImageRepository(httpFetcher, blobFetcher, events)
	labelService, err := service.NewLabelService(service.Dependencies{
		Repository:      imageRepository,
		Extractor:       ocr.NewExtractor(engine),
		Locator:         locator,
		Detector:        detector,
		Reconciler:      reconcile.New(detector),
		Analyzer:        semantic,
		Events:          events,
		AnalysisTimeout: cfg.AnalysisTimeout,
	})
	if err != nil {
		return nil, err
	}

	analyzerName := config.ProviderNone
	if semantic != nil {
		analyzerName = semantic.Name()
	} else {
		logger.Warn("No semantic analyzer configured; analyses will return failure results")
	}
	logger.WithFields(logrus.Fields{
		"analyzer":      analyzerName,
		"tesseract":     engine.Version(),
		"languages":     engineCfg.Languages,
		"azure_enabled": cfg.AzureEnabled(),
	}).Info("Components initialised")

	return &Container{
		config:          cfg,
		metrics:         metrics,
		imageRepository: imageRepository,
		fileLoader:      fileLoader,
		labelService:    labelService,
		handler:         transport.NewHandler(labelService, metrics.Handler(), cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// LabelService returns the analysis service
func (c *Container) LabelService() service.LabelService {
	return c.labelService
}

// Scanner returns a batch scanner that reads images from the local file system.
func (c *Container) Scanner(workers int) *batch.Scanner {
	return batch.NewScanner(c.labelService, c.fileLoader, workers)
}

// Metrics returns the prometheus observer fed by the pipeline events.
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}
