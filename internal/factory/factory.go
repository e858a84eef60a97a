package factory

import (
	"context"
	"fmt"

	"github.com/anime-shed/label-inspector-go/internal/analyzer"
	"github.com/anime-shed/label-inspector-go/internal/config"
	"github.com/anime-shed/label-inspector-go/internal/storage"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// AnalyzerFactory creates semantic analyzers
type AnalyzerFactory interface {
	// CreateAnalyzer returns nil, nil for the "none" provider.
	CreateAnalyzer(ctx context.Context, provider string) (analyzer.SemanticAnalyzer, error)
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
}

type analyzerFactory struct {
	cfg *config.Config
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(cfg *config.Config) AnalyzerFactory {
	return &analyzerFactory{cfg: cfg}
}

// CreateAnalyzer creates an analyzer for the named provider
func (f *analyzerFactory) CreateAnalyzer(ctx context.Context, provider string) (analyzer.SemanticAnalyzer, error) {
	switch provider {
	case config.ProviderOpenAI:
		a, err := analyzer.NewOpenAIAnalyzer(analyzer.OpenAIConfig{
			APIKey:  f.cfg.OpenAIAPIKey,
			BaseURL: f.cfg.OpenAIBaseURL,
			Model:   f.cfg.OpenAIModel,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	case config.ProviderGemini:
		a, err := analyzer.NewGeminiAnalyzer(ctx, analyzer.GeminiConfig{
			APIKey: f.cfg.GeminiAPIKey,
			Model:  f.cfg.GeminiModel,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	case config.ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported analyzer provider: %s", provider)
	}
}

type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		httpCfg := storage.DefaultHTTPConfig()
		httpCfg.Timeout = f.cfg.ImageFetchTimeout
		httpCfg.MaxBytes = f.cfg.MaxRequestBodySize
		return storage.NewHTTPImageFetcher(httpCfg), nil
	case AzureStorage:
		if !f.cfg.AzureEnabled() {
			return nil, fmt.Errorf("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return storage.NewAzureStorage(f.cfg.AzureAccountName, f.cfg.AzureAccountKey, f.cfg.MaxRequestBodySize)
	case LocalStorage:
		return storage.NewFileLoader(f.cfg.MaxRequestBodySize), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	AnalyzerFactory AnalyzerFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		AnalyzerFactory: NewAnalyzerFactory(cfg),
		StorageFactory:  NewStorageFactory(cfg),
	}
}
