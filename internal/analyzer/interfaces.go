package analyzer

import (
	"context"

	"github.com/anime-shed/label-inspector-go/pkg/models"
)

// SemanticAnalyzer turns ingredient text into a structured analysis.
// Implementations are shared across requests and must be safe for concurrent use.
type SemanticAnalyzer interface {
	// Analyze returns the analyzer's payload as decoded. Fields it omitted stay nil.
	Analyze(ctx context.Context, text string) (*models.RawAnalysis, error)

	// DescribeIngredient returns details about a single ingredient
	DescribeIngredient(ctx context.Context, name string) (*models.IngredientDetails, error)

	// Name identifies the provider in logs and metrics
	Name() string
}
