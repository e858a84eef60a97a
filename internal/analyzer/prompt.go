package analyzer

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

const (
	analysisSystemPrompt = "You are a food science expert specializing in ingredient analysis. " +
		"Provide accurate, helpful information about food ingredients."
	detailsSystemPrompt = "You are a food science expert. Provide accurate information about food ingredients."
)

var analysisPromptTemplate = strings.TrimSpace(dedent.Dedent(`
	Analyze the following ingredients text from a food package and provide a comprehensive analysis.

	Ingredients text: %q

	Respond with a single JSON object with exactly this structure:
	{
	    "ingredients": [
	        {"name": "ingredient name", "description": "brief description of what this ingredient is"}
	    ],
	    "allergens": ["list of potential allergens"],
	    "dietary_flags": ["vegetarian", "vegan", "gluten-free"],
	    "nutritional_insights": {
	        "health_score": 5,
	        "categories": ["processed", "natural", "organic"],
	        "key_nutrients": ["list of notable nutrients"],
	        "health_notes": "brief health assessment"
	    },
	    "summary": "a brief summary of the product based on its ingredients"
	}

	Focus on:
	1. Identifying individual ingredients clearly, in label order
	2. Common allergens (milk, eggs, nuts, peanuts, wheat, soy, fish, shellfish, sesame)
	3. Dietary compatibility (vegetarian, vegan, gluten-free)
	4. A health_score integer from 1 (least healthy) to 10 (most healthy)
	5. Brief nutritional insights

	If the text does not contain clear ingredients, return empty arrays and empty strings.
`))

var detailsPromptTemplate = strings.TrimSpace(dedent.Dedent(`
	Provide detailed information about the food ingredient: %q

	Include what it is (source, type), common uses in food products, nutritional properties,
	any health considerations and allergen information if applicable.

	Respond with a single JSON object:
	{
	    "name": %q,
	    "description": "what it is",
	    "uses": "common uses",
	    "nutrition": "nutritional properties",
	    "health_notes": "health considerations",
	    "allergen_info": "allergen information or None"
	}
`))

// AnalysisPrompt builds the user prompt for ingredient analysis.
func AnalysisPrompt(text string) string {
	return fmt.Sprintf(analysisPromptTemplate, text)
}

// DetailsPrompt builds the user prompt for a single ingredient.
func DetailsPrompt(name string) string {
	return fmt.Sprintf(detailsPromptTemplate, name, name)
}
