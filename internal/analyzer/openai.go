package analyzer

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	apperrors "github.com/anime-shed/label-inspector-go/internal/errors"
	"github.com/anime-shed/label-inspector-go/internal/logger"
	"github.com/anime-shed/label-inspector-go/pkg/models"
)

const (
	DefaultOpenAIModel = "gpt-4o"

	analysisMaxTokens   = 1500
	analysisTemperature = 0.3
	detailsMaxTokens    = 500
	detailsTemperature  = 0.2
)

// OpenAIConfig configures the OpenAI chat completions provider.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // optional, for compatible endpoints
	Model   string
}

// OpenAIAnalyzer requests the analysis schema from a chat completion in JSON mode.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

func NewOpenAIAnalyzer(cfg OpenAIConfig) (*OpenAIAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.NewValidationError("missing OpenAI API key", nil)
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

func (a *OpenAIAnalyzer) Name() string { return "openai" }

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, text string) (*models.RawAnalysis, error) {
	content, err := a.complete(ctx, analysisSystemPrompt, AnalysisPrompt(text), analysisMaxTokens, analysisTemperature)
	if err != nil {
		return nil, err
	}
	raw, err := ParseAnalysis(content)
	if err != nil {
		return nil, apperrors.NewAnalysisUnavailableError("failed to parse analyzer response", err)
	}
	return raw, nil
}

func (a *OpenAIAnalyzer) DescribeIngredient(ctx context.Context, name string) (*models.IngredientDetails, error) {
	content, err := a.complete(ctx, detailsSystemPrompt, DetailsPrompt(name), detailsMaxTokens, detailsTemperature)
	if err != nil {
		return nil, err
	}
	details, err := ParseIngredientDetails(name, content)
	if err != nil {
		return nil, apperrors.NewAnalysisUnavailableError("failed to parse ingredient details", err)
	}
	return details, nil
}

func (a *OpenAIAnalyzer) complete(ctx context.Context, system, prompt string, maxTokens int, temperature float32) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", apperrors.NewAnalysisUnavailableError("openai request failed", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apperrors.NewAnalysisUnavailableError("openai returned no content", ErrEmptyResponse)
	}

	logger.WithFields(logrus.Fields{
		"provider":          a.Name(),
		"model":             a.model,
		"finish_reason":     string(resp.Choices[0].FinishReason),
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
	}).Debug("analyzer call finished")
	return resp.Choices[0].Message.Content, nil
}
