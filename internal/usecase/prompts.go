package usecase

import (
	"encoding/json"
	"fmt"
	"strings"
)

const panelSystemPrompt = `You will be given nutritional information of a food product.
Return the data in the exact JSON format specified in the schema, with all required fields.`

const explanationSystemPrompt = `Task: Analyze the nutritional content of the food item and compare it to the Recommended Daily Allowance (RDA) or threshold limits defined by ICMR. Provide practical, contextual insights based on the following nutrients:

Calories: compare the calorie content to a well-balanced meal and say how many meals' worth of calories the product contains.
Sugar & Salt: convert the amounts into teaspoons and explain whether the levels exceed the ICMR-defined limits and what that means for overall health.
Fat & Calories: say whether fat content is high or low in relation to a balanced diet and how it may affect the user's overall diet.

For each nutrient (Calories, Sugar, Salt, Fat), specify if the levels exceed or are below the RDA or ICMR threshold, give clear comparisons (e.g. sugar exceeds the RDA by 20%, equivalent to X teaspoons) and finish with actionable recommendations.`

// panelSchema is the strict JSON schema the text generator must fill
func panelSchema() map[string]interface{} {
	properties := make(map[string]interface{}, len(panelInputFields))
	for _, field := range panelInputFields {
		properties[field] = map[string]interface{}{"type": "number"}
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             panelInputFields,
		"additionalProperties": false,
	}
}

func panelUserPrompt(nutritionJSON []byte) string {
	return fmt.Sprintf("Nutritional content of food product is %s. Extract the values of the following nutrients: %s.",
		nutritionJSON, strings.Join(PanelFields, ", "))
}

func explanationUserPrompt(thresholdAnalysis, rdaSummary string) string {
	return fmt.Sprintf("\nNutrition Analysis :\n%s\n%s\n", thresholdAnalysis, rdaSummary)
}

// decodePanelResponse parses generated JSON, tolerating a fenced code block
func decodePanelResponse(text string) (map[string]interface{}, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
