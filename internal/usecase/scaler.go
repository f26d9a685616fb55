package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/labelcheck/backend/internal/domain"
)

// ScalePanel rescales every nutrient of a panel from its baseline serving size to
// userServingSize, rounding each value to 2 decimal places. A scaled value that
// overflows float64 yields ErrInvalidNumeric.
func ScalePanel(panel domain.NutrientPanel, userServingSize float64) (domain.NutrientPanel, error) {
	if math.IsNaN(userServingSize) || math.IsInf(userServingSize, 0) || userServingSize <= 0 {
		return domain.NutrientPanel{}, fmt.Errorf("%w: user serving size %v", domain.ErrInvalidServingSize, userServingSize)
	}
	if panel.ServingSize == 0 {
		return domain.NutrientPanel{}, domain.ErrZeroBaselineServing
	}

	factor := userServingSize / panel.ServingSize
	if !isFinite(factor) {
		return domain.NutrientPanel{}, fmt.Errorf("%w: scale factor %v/%v is not finite",
			domain.ErrInvalidNumeric, userServingSize, panel.ServingSize)
	}

	var overflow []string
	scale := func(name string, v float64) float64 {
		scaled := round2(v * factor)
		if !isFinite(scaled) {
			overflow = append(overflow, name)
		}
		return scaled
	}

	scaled := domain.NutrientPanel{
		Energy:             scale("energy", panel.Energy),
		Protein:            scale("protein", panel.Protein),
		Carbohydrates:      scale("carbohydrates", panel.Carbohydrates),
		AddedSugars:        scale("addedSugars", panel.AddedSugars),
		DietaryFiber:       scale("dietaryFiber", panel.DietaryFiber),
		TotalFat:           scale("totalFat", panel.TotalFat),
		SaturatedFat:       scale("saturatedFat", panel.SaturatedFat),
		MonounsaturatedFat: scale("monounsaturatedFat", panel.MonounsaturatedFat),
		PolyunsaturatedFat: scale("polyunsaturatedFat", panel.PolyunsaturatedFat),
		TransFat:           scale("transFat", panel.TransFat),
		Sodium:             scale("sodium", panel.Sodium),
		ServingSize:        userServingSize,
	}
	if len(overflow) > 0 {
		return domain.NutrientPanel{}, fmt.Errorf("%w: scaled values not finite: %s",
			domain.ErrInvalidNumeric, strings.Join(overflow, ", "))
	}
	return scaled, nil
}

// round2 rounds to 2 decimal places. Values too large for v*100 already carry
// no fractional digits and are returned as is.
func round2(v float64) float64 {
	r := v * 100
	if math.IsInf(r, 0) && !math.IsInf(v, 0) {
		return v
	}
	return math.Round(r) / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
