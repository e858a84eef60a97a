package factory

import (
	"context"
	"testing"
	"time"

	"github.com/anime-shed/label-inspector-go/internal/config"
	"github.com/anime-shed/label-inspector-go/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		ImageFetchTimeout:  5 * time.Second,
		MaxRequestBodySize: 1 << 20,
		OpenAIAPIKey:       "sk-test",
		OpenAIModel:        "gpt-4o",
	}
}

func TestCreateAnalyzer(t *testing.T) {
	f := NewAnalyzerFactory(testConfig())

	a, err := f.CreateAnalyzer(context.Background(), config.ProviderOpenAI)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a == nil || a.Name() != "openai" {
		t.Errorf("Expected openai analyzer, got %v", a)
	}

	a, err = f.CreateAnalyzer(context.Background(), config.ProviderNone)
	if err != nil || a != nil {
		t.Errorf("Expected no analyzer for provider none, got %v, %v", a, err)
	}

	if _, err := f.CreateAnalyzer(context.Background(), "claude"); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestCreateAnalyzer_MissingKey(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIAPIKey = ""
	a, err := NewAnalyzerFactory(cfg).CreateAnalyzer(context.Background(), config.ProviderOpenAI)
	if err == nil {
		t.Fatal("Expected error when the API key is missing")
	}
	if a != nil {
		t.Errorf("Expected nil analyzer, got %T", a)
	}
}

func TestCreateStorage(t *testing.T) {
	f := NewStorageFactory(testConfig())

	s, err := f.CreateStorage(HTTPStorage)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := s.(*storage.HTTPImageFetcher); !ok {
		t.Errorf("Expected *storage.HTTPImageFetcher, got %T", s)
	}

	s, err = f.CreateStorage(LocalStorage)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := s.(*storage.FileLoader); !ok {
		t.Errorf("Expected *storage.FileLoader, got %T", s)
	}

	if _, err := f.CreateStorage(AzureStorage); err == nil {
		t.Error("Expected error when azure credentials are missing")
	}
	if _, err := f.CreateStorage("ftp"); err == nil {
		t.Error("Expected error for unsupported storage type")
	}
}
