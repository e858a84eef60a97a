package analyzer

import (
	"context"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
	"github.com/anime-shed/label-inspector-go/internal/logger"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiAnalyzer requests the analysis schema with an application/json response type.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

func NewGeminiAnalyzer(ctx context.Context, cfg GeminiConfig) (*GeminiAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewValidationError("missing Gemini API key", nil)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create Gemini client", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

func (g *GeminiAnalyzer) Name() string { return "gemini" }

func (g *GeminiAnalyzer) Analyze(ctx context.Context, text string) (*models.RawAnalysis, error) {
	content, err := g.generate(ctx, analysisSystemPrompt, AnalysisPrompt(text), analysisMaxTokens, analysisTemperature)
	if err != nil {
		return nil, err
	}
	raw, err := ParseAnalysis(content)
	if err != nil {
		return nil, apperrors.NewAnalysisUnavailableError("failed to parse analyzer response", err)
	}
	return raw, nil
}

func (g *GeminiAnalyzer) DescribeIngredient(ctx context.Context, name string) (*models.IngredientDetails, error) {
	content, err := g.generate(ctx, detailsSystemPrompt, DetailsPrompt(name), detailsMaxTokens, detailsTemperature)
	if err != nil {
		return nil, err
	}
	details, err := ParseIngredientDetails(name, content)
	if err != nil {
		return nil, apperrors.NewAnalysisUnavailableError("failed to parse ingredient details", err)
	}
	return details, nil
}

func (g *GeminiAnalyzer) generate(ctx context.Context, system, prompt string, maxTokens int32, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		Temperature:       &temperature,
		MaxOutputTokens:   maxTokens,
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}, config)
	if err != nil {
		return "", apperrors.NewAnalysisUnavailableError("gemini request failed", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewAnalysisUnavailableError("gemini returned no content", ErrEmptyResponse)
	}

	fields := logrus.Fields{"provider": g.Name(), "model": g.model}
	if result.UsageMetadata != nil {
		fields["prompt_tokens"] = result.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = result.UsageMetadata.CandidatesTokenCount
	}
	logger.WithFields(fields).Debug("analyzer call finished")
	return result.Text(), nil
}
