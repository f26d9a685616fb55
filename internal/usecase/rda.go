package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/labelcheck/backend/internal/domain"
)

// NotAvailable marks a nutrient whose RDA percentage cannot be computed
const NotAvailable = "N/A"

// DailyValues are the recommended daily allowances used for percentage output.
// The three fat subtypes have values but are not reported.
var DailyValues = map[string]float64{
	"energy":             2230,
	"protein":            55,
	"carbohydrates":      330,
	"addedSugars":        30,
	"dietaryFiber":       30,
	"totalFat":           74,
	"saturatedFat":       22,
	"sodium":             2000,
	"monounsaturatedFat": 25,
	"polyunsaturatedFat": 25,
	"transFat":           2,
}

// FormatPercentage renders value as a percentage of dailyValue, e.g. "3.9%"
func FormatPercentage(value, dailyValue float64) string {
	if dailyValue == 0 || !isFinite(value) || !isFinite(dailyValue) {
		return NotAvailable
	}
	pct := round2((value / dailyValue) * 100)
	if !isFinite(pct) {
		return NotAvailable
	}
	if pct == 0 {
		pct = 0 // drop negative zero
	}
	s := strconv.FormatFloat(pct, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}

// CalculateRDA expresses a (scaled) panel as percentages of the daily values
func CalculateRDA(panel domain.NutrientPanel) domain.RDAReport {
	return domain.RDAReport{
		Energy:        FormatPercentage(panel.Energy, DailyValues["energy"]),
		Protein:       FormatPercentage(panel.Protein, DailyValues["protein"]),
		Carbohydrates: FormatPercentage(panel.Carbohydrates, DailyValues["carbohydrates"]),
		AddedSugars:   FormatPercentage(panel.AddedSugars, DailyValues["addedSugars"]),
		DietaryFiber:  FormatPercentage(panel.DietaryFiber, DailyValues["dietaryFiber"]),
		TotalFat:      FormatPercentage(panel.TotalFat, DailyValues["totalFat"]),
		SaturatedFat:  FormatPercentage(panel.SaturatedFat, DailyValues["saturatedFat"]),
		Sodium:        FormatPercentage(panel.Sodium, DailyValues["sodium"]),
	}
}

// FindNutrition scales the request panel to the user serving size and computes
// RDA percentages. Checks run in order: empty panel, serving size, panel fields.
func FindNutrition(req *domain.RDARequest) (*domain.RDAResult, error) {
	if req == nil || len(req.NutritionPerServing) == 0 {
		return nil, fmt.Errorf("%w: nutrition data is empty", domain.ErrInvalidRequest)
	}

	userServingSize, err := ParseServingSize(req.UserServingSize)
	if err != nil {
		return nil, fmt.Errorf("%w: user serving size: %v", domain.ErrInvalidNumeric, err)
	}
	if userServingSize <= 0 {
		return nil, fmt.Errorf("%w: user serving size %v", domain.ErrInvalidServingSize, userServingSize)
	}

	panel, err := ParsePanel(req.NutritionPerServing)
	if err != nil {
		return nil, err
	}

	return ScaleToRDA(panel, userServingSize)
}

// ScaleToRDA scales a validated panel and computes its RDA percentages
func ScaleToRDA(panel domain.NutrientPanel, userServingSize float64) (*domain.RDAResult, error) {
	scaled, err := ScalePanel(panel, userServingSize)
	if err != nil {
		return nil, err
	}
	return &domain.RDAResult{
		NutritionPerServing: scaled,
		UserServingSize:     userServingSize,
		Percentages:         CalculateRDA(scaled),
	}, nil
}

// RDASummary renders an RDA report as the sentence handed to the text generator
func RDASummary(report domain.RDAReport) string {
	data, err := json.Marshal(report)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Nutrition per serving as percentage of Recommended Dietary Allowance (RDA) is %s", data)
}
