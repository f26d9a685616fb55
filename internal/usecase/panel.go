package usecase

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/labelcheck/backend/internal/domain"
)

// PanelFields are the nutrient keys of a panel, in output order
var PanelFields = []string{
	"energy", "protein", "carbohydrates", "addedSugars", "dietaryFiber",
	"totalFat", "saturatedFat", "monounsaturatedFat", "polyunsaturatedFat",
	"transFat", "sodium",
}

const servingSizeField = "servingSize"

var panelInputFields = append(append([]string{}, PanelFields...), servingSizeField)

// ParsePanel converts a decoded JSON object into a NutrientPanel. Every missing or
// non-numeric field is reported in a single *domain.PanelValidationError.
func ParsePanel(raw map[string]interface{}) (domain.NutrientPanel, error) {
	values := make(map[string]float64, len(PanelFields)+1)
	verr := &domain.PanelValidationError{}

	for _, field := range panelInputFields {
		v, ok := raw[field]
		if !ok || v == nil {
			verr.Missing = append(verr.Missing, field)
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			verr.NonNumeric = append(verr.NonNumeric, field)
			continue
		}
		values[field] = f
	}

	if len(verr.Missing) > 0 || len(verr.NonNumeric) > 0 {
		return domain.NutrientPanel{}, verr
	}

	return domain.NutrientPanel{
		Energy:             values["energy"],
		Protein:            values["protein"],
		Carbohydrates:      values["carbohydrates"],
		AddedSugars:        values["addedSugars"],
		DietaryFiber:       values["dietaryFiber"],
		TotalFat:           values["totalFat"],
		SaturatedFat:       values["saturatedFat"],
		MonounsaturatedFat: values["monounsaturatedFat"],
		PolyunsaturatedFat: values["polyunsaturatedFat"],
		TransFat:           values["transFat"],
		Sodium:             values["sodium"],
		ServingSize:        values[servingSizeField],
	}, nil
}

// toFloat accepts JSON numbers only; numeric strings are not nutrient values
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// ParseServingSize reads a user serving size given as a JSON number, a numeric
// string or "". An empty value yields 0.
func ParseServingSize(raw json.RawMessage) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, err
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}
